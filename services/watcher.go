package services

import (
	"context"

	"csmoney-watcher/models"
	"csmoney-watcher/notify"
	"csmoney-watcher/storage"
	"csmoney-watcher/utils"
)

// Fetcher retrieves raw sell orders for one search spec.
type Fetcher interface {
	Fetch(ctx context.Context, spec models.SearchSpec, maxPriceUSD float64) ([]*models.RawListing, error)
}

// PriceConverter converts configured INR ceilings into the marketplace's
// pricing currency.
type PriceConverter interface {
	ToUSD(ctx context.Context, amount float64) (float64, error)
}

// Watcher drives one full run: every configured spec fetched, normalized,
// deduplicated against the ledger and announced. Specs run sequentially in
// configuration order; a failing spec never blocks the rest.
type Watcher struct {
	fetcher    Fetcher
	normalizer *Normalizer
	converter  PriceConverter
	ledger     storage.Ledger
	notifier   notify.Notifier
	logger     *utils.Logger
}

// NewWatcher wires the pipeline.
func NewWatcher(fetcher Fetcher, normalizer *Normalizer, converter PriceConverter,
	ledger storage.Ledger, notifier notify.Notifier, logger *utils.Logger) *Watcher {
	return &Watcher{
		fetcher:    fetcher,
		normalizer: normalizer,
		converter:  converter,
		ledger:     ledger,
		notifier:   notifier,
		logger:     logger,
	}
}

// RunStats summarizes one pipeline run.
type RunStats struct {
	Specs    int
	Listings int
	New      int
	Notified int
}

// Run processes every spec once and returns the run summary. There are no
// retries anywhere; the next scheduled run is the retry.
func (w *Watcher) Run(ctx context.Context, specs []models.SearchSpec) RunStats {
	var stats RunStats
	for _, spec := range specs {
		stats.Specs++
		w.runSpec(ctx, spec, &stats)
	}

	w.logger.Info("[watcher] run done — specs: %d | listings: %d | new: %d | notified: %d",
		stats.Specs, stats.Listings, stats.New, stats.Notified)
	return stats
}

func (w *Watcher) runSpec(ctx context.Context, spec models.SearchSpec, stats *RunStats) {
	maxPriceUSD, err := w.converter.ToUSD(ctx, spec.MaxPriceINR)
	if err != nil {
		w.logger.Error("[watcher] %q: price conversion failed: %v", spec.Name, err)
		return
	}

	raws, err := w.fetcher.Fetch(ctx, spec, maxPriceUSD)
	if err != nil {
		// A failed fetch yields zero items for this spec; the run continues.
		w.logger.Error("[watcher] %q: fetch failed: %v", spec.Name, err)
		return
	}
	stats.Listings += len(raws)

	for _, raw := range raws {
		item, err := w.normalizer.Normalize(ctx, raw)
		if err != nil {
			w.logger.Error("[watcher] %q: normalize listing %d: %v", spec.Name, raw.ID, err)
			return
		}

		seen, err := w.ledger.Contains(item)
		if err != nil {
			w.logger.Error("[watcher] %q: ledger check %s: %v", spec.Name, item.ID, err)
			return
		}
		if seen {
			w.logger.Debug("[watcher] %q: skipping duplicate %s", spec.Name, item.ID)
			continue
		}

		if err := w.ledger.Append(item); err != nil {
			w.logger.Error("[watcher] %q: ledger append %s: %v", spec.Name, item.ID, err)
			return
		}
		stats.New++

		if err := w.notifier.Notify(ctx, item); err != nil {
			// Non-fatal: the item stays recorded, so the next run won't resend.
			w.logger.Warn("[watcher] %q: notify %s failed: %v", spec.Name, item.ID, err)
			continue
		}
		stats.Notified++
	}
}
