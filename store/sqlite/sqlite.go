/*
Package sqlite stores the current timesheet session.

PURPOSE:

	Holds the raw rows the operator has entered so far, exactly as typed.
	Normalization and calculation stay in the engine: persisting the raw
	text keeps the leniency policy (a malformed meal cell degrades at
	evaluation time, it is not rejected at entry time).

LIFETIME:

	The default DSN is ":memory:": the session lives and dies with the
	process, which is the intended deployment. Pointing -db at a file is
	an operator choice, not a requirement.

CONCURRENCY:

	Uses sync.RWMutex for thread-safety, matching SQLite's single-writer
	model. Opened with WAL and foreign keys on.

USAGE:

	store, err := sqlite.New(":memory:")
	if err != nil {
	    log.Fatal(err)
	}
	defer store.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one raw timesheet row as stored. All value fields are the
// operator's original text; empty string means absent.
type Entry struct {
	ID      int64
	Date    string
	Start   string
	End     string
	Meal    string
	Wait    string
	Comment string

	CreatedAt time.Time
}

// Store is a SQLite-backed session store.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the session database. Use ":memory:" for an
// in-memory session.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A ":memory:" DSN is per-connection: a second pooled connection
	// would see an empty database. Access is mutex-serialized anyway,
	// so a single connection loses nothing.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		entry_date TEXT NOT NULL DEFAULT '',
		start_at TEXT NOT NULL DEFAULT '',
		end_at TEXT NOT NULL DEFAULT '',
		meal TEXT NOT NULL DEFAULT '',
		wait TEXT NOT NULL DEFAULT '',
		comment TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(entry_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveEntry inserts a new row and returns its ID.
func (s *Store) SaveEntry(ctx context.Context, e Entry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (entry_date, start_at, end_at, meal, wait, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Date, e.Start, e.End, e.Meal, e.Wait, e.Comment,
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save entry: %w", err)
	}
	return res.LastInsertId()
}

// UpdateEntry overwrites an existing row. Returns sql.ErrNoRows when
// the ID does not exist.
func (s *Store) UpdateEntry(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE entries SET entry_date = ?, start_at = ?, end_at = ?, meal = ?, wait = ?, comment = ?
		WHERE id = ?`,
		e.Date, e.Start, e.End, e.Meal, e.Wait, e.Comment, e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteEntry removes a row. Returns sql.ErrNoRows when the ID does
// not exist.
func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetEntry returns one row, or nil when the ID does not exist.
func (s *Store) GetEntry(ctx context.Context, id int64) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, entry_date, start_at, end_at, meal, wait, comment, created_at
		FROM entries WHERE id = ?`, id)

	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListEntries returns every row in insertion order.
func (s *Store) ListEntries(ctx context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entry_date, start_at, end_at, meal, wait, comment, created_at
		FROM entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Reset deletes every row, starting the session over.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var e Entry
	var createdAt string
	if err := row.Scan(&e.ID, &e.Date, &e.Start, &e.End, &e.Meal, &e.Wait, &e.Comment, &createdAt); err != nil {
		return nil, err
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &e, nil
}
