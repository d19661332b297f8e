package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"csmoney-watcher/models"
)

func writeRateFile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, rateFileName), []byte(content), 0644); err != nil {
		t.Fatalf("write rate file: %v", err)
	}
}

func TestRateStoreMissingIsAbsent(t *testing.T) {
	s, err := NewFileRateStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileRateStore: %v", err)
	}
	_, ok, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Error("missing record should be absent")
	}
}

func TestRateStoreValidity(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	future := time.Now().Add(48 * time.Hour).Format("2006-01-02")

	tests := []struct {
		name    string
		content string
		wantOK  bool
	}{
		{"today", today + ":0.012", true},
		{"future date honored", future + ":0.012", true},
		{"yesterday", "2020-01-01:0.012", false},
		{"no separator", "0.012", false},
		{"bad date", "20-ab-01:0.012", false},
		{"bad rate", today + ":abc", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			s, _ := NewFileRateStore(dir)
			writeRateFile(t, dir, tt.content)

			rec, ok, err := s.Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("Load ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && rec.Rate != 0.012 {
				t.Errorf("Rate = %v, want 0.012", rec.Rate)
			}
		})
	}
}

func TestRateStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileRateStore(dir)

	now := time.Now()
	if err := s.Store(models.ExchangeRate{AsOf: now, Rate: 0.0119904}); err != nil {
		t.Fatalf("Store: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, rateFileName))
	if err != nil {
		t.Fatalf("read rate file: %v", err)
	}
	want := now.Format("2006-01-02") + ":0.0119904"
	if got := strings.TrimSpace(string(b)); got != want {
		t.Errorf("record = %q, want %q", got, want)
	}

	rec, ok, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("freshly stored record should be valid")
	}
	if rec.Rate != 0.0119904 {
		t.Errorf("Rate = %v, want 0.0119904", rec.Rate)
	}
}

func TestRateStoreOverwrites(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileRateStore(dir)

	_ = s.Store(models.ExchangeRate{AsOf: time.Now(), Rate: 0.011})
	_ = s.Store(models.ExchangeRate{AsOf: time.Now(), Rate: 0.012})

	b, _ := os.ReadFile(filepath.Join(dir, rateFileName))
	if got := len(nonEmptyLines(string(b))); got != 1 {
		t.Fatalf("rate store must stay a single record, got %d lines", got)
	}
	rec, ok, _ := s.Load()
	if !ok || rec.Rate != 0.012 {
		t.Errorf("Load = (%v, %v), want latest rate 0.012", rec.Rate, ok)
	}
}
