// Package redis provides a Store that keeps each record under its own key.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cory-johannsen/angler/internal/config"
	"github.com/cory-johannsen/angler/internal/game/player"
	"github.com/cory-johannsen/angler/internal/storage"
)

const defaultKeyPrefix = "angler:player:"

// Store persists records as JSON strings. A SET replaces the whole value, so
// a failed write never leaves a partial record.
type Store struct {
	client *goredis.Client
	prefix string
}

// Open connects to Redis and verifies the connection.
//
// Postcondition: Returns a connected Store or a non-nil error.
func Open(ctx context.Context, cfg config.RedisConfig) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return New(client, cfg.KeyPrefix), nil
}

// New wraps an existing client.
func New(client *goredis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(uid string) string { return s.prefix + uid }

// Load returns the record for uid or storage.ErrNotFound.
func (s *Store) Load(ctx context.Context, uid string) (*player.Player, error) {
	b, err := s.client.Get(ctx, s.key(uid)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading player %q: %w", uid, err)
	}
	return storage.Decode(uid, b)
}

// Save replaces the record for p.ID.
func (s *Store) Save(ctx context.Context, p *player.Player) error {
	b, err := storage.Encode(p)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(p.ID), b, 0).Err(); err != nil {
		return fmt.Errorf("saving player %q: %w", p.ID, err)
	}
	return nil
}

// Delete removes the record for uid.
func (s *Store) Delete(ctx context.Context, uid string) error {
	n, err := s.client.Del(ctx, s.key(uid)).Result()
	if err != nil {
		return fmt.Errorf("deleting player %q: %w", uid, err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client.
func (s *Store) Close() error {
	return s.client.Close()
}
