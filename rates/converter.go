// Package rates converts INR amounts to USD using a conversion factor cached
// for one calendar day.
package rates

import (
	"context"
	"fmt"
	"math"
	"time"

	"csmoney-watcher/models"
	"csmoney-watcher/storage"
)

// RateFetcher retrieves a fresh conversion rate from the remote source.
type RateFetcher interface {
	FetchRate(ctx context.Context) (float64, error)
}

// Converter serves the USD-per-INR factor, refreshing the persisted record
// only when it is absent or out of date. A remote failure propagates; there
// is no fallback rate.
type Converter struct {
	store   storage.RateStore
	fetcher RateFetcher
	now     func() time.Time
}

// NewConverter wires a converter over the persisted record and remote source.
func NewConverter(store storage.RateStore, fetcher RateFetcher) *Converter {
	return &Converter{store: store, fetcher: fetcher, now: time.Now}
}

// Rate returns the USD-per-INR factor rounded to 4 decimal places.
func (c *Converter) Rate(ctx context.Context) (float64, error) {
	cached, ok, err := c.store.Load()
	if err != nil {
		return 0, err
	}
	if ok {
		return round4(cached.Rate), nil
	}

	rate, err := c.fetcher.FetchRate(ctx)
	if err != nil {
		return 0, fmt.Errorf("rates: fetch USD/INR: %w", err)
	}
	if err := c.store.Store(models.ExchangeRate{AsOf: c.now(), Rate: rate}); err != nil {
		return 0, err
	}
	return round4(rate), nil
}

// ToUSD converts an INR amount into USD, rounded to 4 decimal places.
func (c *Converter) ToUSD(ctx context.Context, amount float64) (float64, error) {
	rate, err := c.Rate(ctx)
	if err != nil {
		return 0, err
	}
	return round4(rate * amount), nil
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
