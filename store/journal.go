package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/TripCu/ai-hotkey/domain"
)

// Journal is the append-only JSONL sink. Each exchange is one JSON object
// per line; prior records are never rewritten.
type Journal struct {
	path string
}

// NewJournal creates a journal writing to path.
func NewJournal(path string) *Journal {
	return &Journal{path: path}
}

// Path returns the journal file path.
func (j *Journal) Path() string {
	return j.path
}

// Append writes one entry as a single JSON line. Timestamps serialize as
// RFC 3339 via encoding/json.
func (j *Journal) Append(entry *domain.LogEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}
