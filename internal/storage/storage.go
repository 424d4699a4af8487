// Package storage defines the player record store contract and the record
// codec shared by every backend.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/cory-johannsen/angler/internal/game/player"
)

// ErrNotFound is returned by Load when no record exists for the id.
var ErrNotFound = errors.New("player record not found")

// Store persists one record per user id. A failed Save must leave the prior
// record intact.
//
// Implementations MUST be safe for concurrent use.
type Store interface {
	Load(ctx context.Context, uid string) (*player.Player, error)
	Save(ctx context.Context, p *player.Player) error
	Delete(ctx context.Context, uid string) error
	Ping(ctx context.Context) error
	Close() error
}

// Encode serializes a record in the canonical JSON layout.
func Encode(p *player.Player) ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding player %q: %w", p.ID, err)
	}
	return b, nil
}

// Decode parses a record written by Encode. The id is taken from uid when
// the document omits it.
func Decode(uid string, b []byte) (*player.Player, error) {
	var p player.Player
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("decoding player %q: %w", uid, err)
	}
	if p.ID == "" {
		p.ID = uid
	}
	return &p, nil
}

// Memory is an in-process Store used by tests and the memory backend.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

// Load returns a copy of the stored record.
func (m *Memory) Load(_ context.Context, uid string) (*player.Player, error) {
	m.mu.RLock()
	b, ok := m.records[uid]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return Decode(uid, b)
}

// Save stores a copy of p.
func (m *Memory) Save(_ context.Context, p *player.Player) error {
	b, err := Encode(p)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[p.ID] = b
	return nil
}

// Delete removes the record for uid.
//
// Postcondition: Returns ErrNotFound if no record existed.
func (m *Memory) Delete(_ context.Context, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[uid]; !ok {
		return ErrNotFound
	}
	delete(m.records, uid)
	return nil
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error { return nil }

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
