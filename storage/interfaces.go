package storage

import "csmoney-watcher/models"

// Ledger is the durable, append-only record of item ids that were already
// notified.
type Ledger interface {
	// Contains reports whether the item's id is already recorded. A missing
	// store is recreated with the probed item as its first record and still
	// reports not-found; a present store with no match has no side effect.
	Contains(item *models.CanonicalItem) (bool, error)
	// Append adds exactly one record to the end of the store.
	Append(item *models.CanonicalItem) error
}

// RateStore persists the day-scoped currency conversion rate.
type RateStore interface {
	// Load returns the persisted rate and whether it is still valid. A
	// missing, malformed or out-of-date record reports absent, not an error.
	Load() (models.ExchangeRate, bool, error)
	// Store overwrites the single persisted record.
	Store(rate models.ExchangeRate) error
}
