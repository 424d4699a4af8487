// Package file provides a single-document JSON Store compatible with the
// original {"users": {...}} layout.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cory-johannsen/angler/internal/game/player"
	"github.com/cory-johannsen/angler/internal/storage"
)

type document struct {
	Users map[string]json.RawMessage `json:"users"`
}

// Store keeps every record in one JSON file. Writes go to a temporary file in
// the same directory and are renamed over the original, so a failed write
// leaves the previous document intact.
type Store struct {
	mu   sync.Mutex
	path string
}

// Open creates a Store at path, creating parent directories as needed.
//
// Precondition: path must be non-empty.
// Postcondition: Returns an error if an existing document cannot be parsed.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("file store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	s := &Store{path: path}
	if _, err := s.read(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) read() (document, error) {
	doc := document{Users: map[string]json.RawMessage{}}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("reading %s: %w", s.path, err)
	}
	if len(b) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return doc, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	if doc.Users == nil {
		doc.Users = map[string]json.RawMessage{}
	}
	return doc, nil
}

func (s *Store) write(doc document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

// Load returns the record for uid or storage.ErrNotFound.
func (s *Store) Load(_ context.Context, uid string) (*player.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	raw, ok := doc.Users[uid]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return storage.Decode(uid, raw)
}

// Save replaces the record for p.ID.
func (s *Store) Save(_ context.Context, p *player.Player) error {
	b, err := storage.Encode(p)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.Users[p.ID] = b
	return s.write(doc)
}

// Delete removes the record for uid.
func (s *Store) Delete(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := doc.Users[uid]; !ok {
		return storage.ErrNotFound
	}
	delete(doc.Users, uid)
	return s.write(doc)
}

// Ping checks that the document is readable.
func (s *Store) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.read()
	return err
}

// Close is a no-op; every write is already durable.
func (s *Store) Close() error { return nil }
