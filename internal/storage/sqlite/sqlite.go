// Package sqlite provides a Store backed by an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/angler/internal/game/player"
	"github.com/cory-johannsen/angler/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS players (
	uid        TEXT    PRIMARY KEY,
	record     TEXT    NOT NULL,
	updated_at INTEGER NOT NULL
);`

// Store keeps one JSON record per row.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema exists.
//
// Precondition: path must be non-empty.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite store path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Load returns the record for uid or storage.ErrNotFound.
func (s *Store) Load(ctx context.Context, uid string) (*player.Player, error) {
	var record string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM players WHERE uid = ?`, uid).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading player %q: %w", uid, err)
	}
	return storage.Decode(uid, []byte(record))
}

// Save upserts the record for p.ID.
func (s *Store) Save(ctx context.Context, p *player.Player) error {
	b, err := storage.Encode(p)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO players (uid, record, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(uid) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`,
		p.ID, string(b), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("saving player %q: %w", p.ID, err)
	}
	return nil
}

// Delete removes the record for uid.
func (s *Store) Delete(ctx context.Context, uid string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE uid = ?`, uid)
	if err != nil {
		return fmt.Errorf("deleting player %q: %w", uid, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting player %q: %w", uid, err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
