package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/angler/internal/game/player"
	"github.com/cory-johannsen/angler/internal/storage"
)

// PlayerRepository stores one JSONB record per user id.
type PlayerRepository struct {
	db *pgxpool.Pool
}

// NewPlayerRepository creates a PlayerRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Load retrieves the record for uid.
//
// Postcondition: Returns the Player or storage.ErrNotFound.
func (r *PlayerRepository) Load(ctx context.Context, uid string) (*player.Player, error) {
	var record []byte
	err := r.db.QueryRow(ctx, `SELECT record FROM players WHERE uid = $1`, uid).Scan(&record)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("loading player %q: %w", uid, err)
	}
	return storage.Decode(uid, record)
}

// Save upserts the record for p.ID in a single statement.
//
// Precondition: p.ID must be non-empty.
func (r *PlayerRepository) Save(ctx context.Context, p *player.Player) error {
	b, err := storage.Encode(p)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO players (uid, nickname, record)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO UPDATE
		SET nickname = EXCLUDED.nickname, record = EXCLUDED.record, updated_at = NOW()`,
		p.ID, p.Nickname, b,
	)
	if err != nil {
		return fmt.Errorf("saving player %q: %w", p.ID, err)
	}
	return nil
}

// Delete removes the record for uid.
//
// Postcondition: Returns storage.ErrNotFound if no row was deleted.
func (r *PlayerRepository) Delete(ctx context.Context, uid string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM players WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("deleting player %q: %w", uid, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// FindByNickname returns the uid owning nickname.
//
// Postcondition: Returns storage.ErrNotFound when no player has the nickname.
func (r *PlayerRepository) FindByNickname(ctx context.Context, nickname string) (string, error) {
	var uid string
	err := r.db.QueryRow(ctx, `SELECT uid FROM players WHERE nickname = $1 ORDER BY created_at LIMIT 1`, nickname).Scan(&uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("finding nickname %q: %w", nickname, err)
	}
	return uid, nil
}

// Ping checks the connection.
func (r *PlayerRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Close is a no-op; the owning Pool is closed separately.
func (r *PlayerRepository) Close() error { return nil }
