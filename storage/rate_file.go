package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"csmoney-watcher/models"
)

const rateFileName = "inr_to_usd_rate"

// FileRateStore persists the conversion rate as a single "YYYY-MM-DD:rate"
// line. The record is valid while its date is today or later.
type FileRateStore struct {
	path string
	now  func() time.Time
}

// NewFileRateStore creates a rate store over the rate file in dataDir,
// creating the directory if needed.
func NewFileRateStore(dataDir string) (*FileRateStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("rate store: create data dir: %w", err)
	}
	return &FileRateStore{
		path: filepath.Join(dataDir, rateFileName),
		now:  time.Now,
	}, nil
}

// Load reads the persisted record. A missing file, a record that does not
// parse, or a record dated before today all report absent.
func (s *FileRateStore) Load() (models.ExchangeRate, bool, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return models.ExchangeRate{}, false, nil
	}
	if err != nil {
		return models.ExchangeRate{}, false, fmt.Errorf("rate store: read %q: %w", s.path, err)
	}

	day, rateStr, ok := strings.Cut(strings.TrimSpace(string(b)), ":")
	if !ok {
		return models.ExchangeRate{}, false, nil
	}
	asOf, err := time.Parse("2006-01-02", day)
	if err != nil {
		return models.ExchangeRate{}, false, nil
	}
	rate, err := strconv.ParseFloat(rateStr, 64)
	if err != nil {
		return models.ExchangeRate{}, false, nil
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if asOf.Before(today) {
		return models.ExchangeRate{}, false, nil
	}
	return models.ExchangeRate{AsOf: asOf, Rate: rate}, true, nil
}

// Store overwrites the record with rate, stamped with its AsOf date.
func (s *FileRateStore) Store(rate models.ExchangeRate) error {
	line := fmt.Sprintf("%s:%s\n",
		rate.AsOf.Format("2006-01-02"),
		strconv.FormatFloat(rate.Rate, 'f', -1, 64))
	if err := os.WriteFile(s.path, []byte(line), 0644); err != nil {
		return fmt.Errorf("rate store: write %q: %w", s.path, err)
	}
	return nil
}
