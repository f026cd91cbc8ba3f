package debuglog

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists debug messages to SQLite.
// It is suitable for single-process use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// SQLiteOption configures a SQLiteStore.
type SQLiteOption func(*sqliteConfig)

type sqliteConfig struct {
	busyTimeout time.Duration
}

// WithBusyTimeout sets how long a write waits on a locked database before
// failing. Zero or negative keeps the driver default.
func WithBusyTimeout(d time.Duration) SQLiteOption {
	return func(c *sqliteConfig) {
		c.busyTimeout = d
	}
}

// NewSQLiteStore creates a new SQLite store.
// The path should be a file path (e.g., "./debug.db") or ":memory:" for testing.
func NewSQLiteStore(path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	var cfg sqliteConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	dsn := path
	if cfg.busyTimeout > 0 {
		// Applied by the driver on every new connection.
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += fmt.Sprintf("%s_pragma=busy_timeout(%d)", sep, cfg.busyTimeout.Milliseconds())
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Each :memory: connection is its own database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS debug_messages (
			context_id TEXT NOT NULL,
			sequence INTEGER NOT NULL,
			timestamp TEXT NOT NULL,
			message TEXT NOT NULL,
			PRIMARY KEY (context_id, sequence)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Append implements Store.
func (s *SQLiteStore) Append(contextID, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.Exec(`
		INSERT INTO debug_messages (context_id, sequence, timestamp, message)
		VALUES (
			?,
			COALESCE((SELECT MAX(sequence) FROM debug_messages WHERE context_id = ?), 0) + 1,
			?, ?
		)
	`, contextID, contextID, time.Now().UTC().Format(time.RFC3339Nano), msg)
	if err != nil {
		return fmt.Errorf("append debug message: %w", err)
	}
	return nil
}

// List implements Store.
func (s *SQLiteStore) List(contextID string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT sequence, timestamp, message
		FROM debug_messages
		WHERE context_id = ?
		ORDER BY sequence
	`, contextID)
	if err != nil {
		return nil, fmt.Errorf("list debug messages: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e := Entry{ContextID: contextID}
		var timestamp string
		if err := rows.Scan(&e.Sequence, &timestamp, &e.Message); err != nil {
			return nil, fmt.Errorf("scan debug message: %w", err)
		}
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, timestamp)
		e.Length = len(e.Message)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate debug messages: %w", err)
	}
	return entries, nil
}

// Contexts implements Store.
func (s *SQLiteStore) Contexts() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT DISTINCT context_id FROM debug_messages ORDER BY context_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list contexts: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan context id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contexts: %w", err)
	}
	return ids, nil
}

// DeleteContext implements Store.
func (s *SQLiteStore) DeleteContext(contextID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec(`DELETE FROM debug_messages WHERE context_id = ?`, contextID); err != nil {
		return fmt.Errorf("delete debug messages: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
