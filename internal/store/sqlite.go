package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	saved_at TEXT NOT NULL,
	data TEXT NOT NULL
);`

// Snapshot describes one saved version of the books.
type Snapshot struct {
	ID      int64
	SavedAt time.Time
	Size    int
}

// SQLite keeps every saved document as a row, so earlier versions can be
// listed and restored. Load returns the latest.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Load returns the most recent snapshot.
func (s *SQLite) Load(ctx context.Context) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM snapshots ORDER BY id DESC LIMIT 1").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return []byte(data), nil
}

// LoadVersion returns the snapshot with the given ID.
func (s *SQLite) LoadVersion(ctx context.Context, id int64) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM snapshots WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %d: %w", id, ErrNoData)
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot %d: %w", id, err)
	}
	return []byte(data), nil
}

// Save appends a snapshot.
func (s *SQLite) Save(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO snapshots (saved_at, data) VALUES (?, ?)",
		time.Now().UTC().Format(time.RFC3339Nano), string(data))
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// History lists snapshots, newest first.
func (s *SQLite) History(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, saved_at, length(data) FROM snapshots ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var savedAt string
		if err := rows.Scan(&snap.ID, &savedAt, &snap.Size); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		snap.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt)
		if err != nil {
			return nil, fmt.Errorf("snapshot %d: parsing saved_at: %w", snap.ID, err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Prune deletes all but the newest keep snapshots and returns how many were
// removed.
func (s *SQLite) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM snapshots WHERE id NOT IN (SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)", keep)
	if err != nil {
		return 0, fmt.Errorf("pruning snapshots: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
