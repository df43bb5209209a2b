package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/TripCu/ai-hotkey/domain"
)

// createdAtLayout keeps a fixed-width fractional second so the stored text
// sorts lexicographically; RFC3339Nano trims trailing zeros and breaks
// ORDER BY for entries within the same second.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore is the queryable index sink.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the index database and migrates the
// schema.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate creates the logs table and applies additive column migrations.
// Existing databases are never rebuilt.
func (s *SQLiteStore) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS logs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		backend TEXT NOT NULL,
		model TEXT NOT NULL,
		prompt TEXT NOT NULL,
		response TEXT NOT NULL,
		final_answer TEXT,
		elapsed_ms INTEGER NOT NULL,
		domain TEXT
	)`); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	columns, err := s.tableColumns("logs")
	if err != nil {
		return err
	}
	if !columns["final_answer"] {
		if _, err := s.db.Exec(`ALTER TABLE logs ADD COLUMN final_answer TEXT`); err != nil {
			return fmt.Errorf("failed to add final_answer column: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) tableColumns(table string) (map[string]bool, error) {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("failed to inspect schema: %w", err)
	}
	defer rows.Close()

	columns := map[string]bool{}
	for rows.Next() {
		var cid int
		var name, ctype string
		var notNull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan schema row: %w", err)
		}
		columns[name] = true
	}
	return columns, rows.Err()
}

// Insert upserts one exchange keyed by id. Retrying the same id overwrites
// instead of duplicating.
func (s *SQLiteStore) Insert(ctx context.Context, entry *domain.LogEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO logs (id, created_at, backend, model, prompt, response, final_answer, elapsed_ms, domain)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.CreatedAt.UTC().Format(createdAtLayout),
		entry.Backend,
		entry.Model,
		entry.Prompt,
		entry.Response,
		nullable(entry.FinalAnswer),
		entry.ElapsedMs,
		nullable(entry.Domain),
	)
	if err != nil {
		return fmt.Errorf("failed to insert log entry: %w", err)
	}
	return nil
}

// Recent returns the last limit exchanges, oldest first, for history
// rendering.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT prompt, response FROM logs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		if err := rows.Scan(&e.Prompt, &e.Response); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rows come back newest first; flip to chronological.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// Count returns the number of archived exchanges.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM logs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count log entries: %w", err)
	}
	return n, nil
}

// Reset deletes all archived exchanges.
func (s *SQLiteStore) Reset() error {
	if _, err := s.db.Exec(`DELETE FROM logs`); err != nil {
		return fmt.Errorf("failed to reset index: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
