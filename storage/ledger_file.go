package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"csmoney-watcher/models"
	"csmoney-watcher/utils"
)

const ledgerFileName = "seen_items.json"

// FileLedger is the append-only, newline-delimited JSON store of items that
// were already notified. Records are never rewritten; the file only grows.
// An id index is built from the file on first use so repeated checks stay
// O(1) while keeping the exact duplicate semantics of a full scan.
type FileLedger struct {
	mu     sync.Mutex
	path   string
	index  *utils.StringSet
	loaded bool
}

// NewFileLedger creates a ledger over the seen-items file in dataDir,
// creating the directory if needed. The file itself is created lazily.
func NewFileLedger(dataDir string) (*FileLedger, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("ledger: create data dir: %w", err)
	}
	return &FileLedger{
		path:  filepath.Join(dataDir, ledgerFileName),
		index: utils.NewStringSet(),
	}, nil
}

// Contains reports whether item's id is already recorded. If the store is
// missing entirely it is recreated with this item as its first record and
// the item reported as not found; a present store with no match is a plain
// not-found with no side effect. A record that fails to parse is an error,
// never a silent not-found.
func (l *FileLedger) Contains(item *models.CanonicalItem) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return l.index.Contains(item.ID), nil
	}

	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		// Missing store: recreate it with the item we were asked about.
		if err := l.appendLocked(item); err != nil {
			return false, err
		}
		l.loaded = true
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ledger: open %q: %w", l.path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		var rec models.CanonicalItem
		if err := json.Unmarshal(raw, &rec); err != nil {
			return false, fmt.Errorf("ledger: corrupt record at %s:%d: %w", l.path, line, err)
		}
		l.index.Add(rec.ID)
	}
	if err := sc.Err(); err != nil {
		return false, fmt.Errorf("ledger: read %q: %w", l.path, err)
	}

	l.loaded = true
	return l.index.Contains(item.ID), nil
}

// Append serializes item and adds it as one new record at the end of the
// store.
func (l *FileLedger) Append(item *models.CanonicalItem) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appendLocked(item)
}

func (l *FileLedger) appendLocked(item *models.CanonicalItem) error {
	b, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("ledger: marshal item %s: %w", item.ID, err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("ledger: open %q for append: %w", l.path, err)
	}
	defer f.Close()

	if _, err := f.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("ledger: append record: %w", err)
	}

	l.index.Add(item.ID)
	return nil
}
