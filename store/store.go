// Package store persists completed exchanges to two independent sinks: an
// append-only JSONL journal and a queryable sqlite index. The journal is the
// audit trail of record; the index serves history lookups and tolerates
// transient failure without losing the exchange.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/TripCu/ai-hotkey/domain"
)

// Journal and index filenames under the data directory.
const (
	JournalFile       = "ai_output.jsonl"
	LegacyJournalFile = "ai_output.txt"
	IndexFile         = "ai_logs.db"
)

// Store archives exchanges and serves recent history.
type Store interface {
	Archive(ctx context.Context, entry *domain.LogEntry) error
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
	Close() error
}

// DualStore writes every exchange to both sinks.
type DualStore struct {
	dataDir string
	journal *Journal
	index   *SQLiteStore
}

// NewDualStore prepares the data directory, migrates the legacy journal
// filename, and opens both sinks.
func NewDualStore(dataDir string) (*DualStore, error) {
	if err := ensureDataPaths(dataDir); err != nil {
		return nil, err
	}

	journal := NewJournal(filepath.Join(dataDir, JournalFile))

	index, err := NewSQLiteStore(filepath.Join(dataDir, IndexFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open index store: %w", err)
	}

	return &DualStore{dataDir: dataDir, journal: journal, index: index}, nil
}

func ensureDataPaths(dataDir string) error {
	if err := os.MkdirAll(filepath.Join(dataDir, "tmp"), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// One-time rename of the pre-JSONL journal.
	current := filepath.Join(dataDir, JournalFile)
	legacy := filepath.Join(dataDir, LegacyJournalFile)
	if _, err := os.Stat(current); os.IsNotExist(err) {
		if _, err := os.Stat(legacy); err == nil {
			if err := os.Rename(legacy, current); err != nil {
				return fmt.Errorf("failed to migrate legacy journal: %w", err)
			}
			log.Info().Str("from", legacy).Str("to", current).Msg("migrated legacy journal")
		}
	}
	return nil
}

// Archive writes the entry to both sinks concurrently. A journal failure
// propagates; an index failure is logged and absorbed so the exchange is
// never lost to a transient sqlite problem.
func (s *DualStore) Archive(ctx context.Context, entry *domain.LogEntry) error {
	var wg sync.WaitGroup
	var journalErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		journalErr = s.journal.Append(entry)
	}()
	go func() {
		defer wg.Done()
		if err := s.index.Insert(ctx, entry); err != nil {
			log.Warn().Err(err).Str("id", entry.ID).Msg("index write failed, journal only")
		}
	}()
	wg.Wait()

	return journalErr
}

// Recent returns the last limit exchanges in chronological order.
func (s *DualStore) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	return s.index.Recent(ctx, limit)
}

// Clear removes both sinks and re-creates the data paths.
func (s *DualStore) Clear() error {
	if err := os.Remove(s.journal.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove journal: %w", err)
	}
	if err := s.index.Reset(); err != nil {
		return err
	}
	return ensureDataPaths(s.dataDir)
}

// Close closes the index sink.
func (s *DualStore) Close() error {
	return s.index.Close()
}
