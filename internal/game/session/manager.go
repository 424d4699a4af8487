package session

import (
	"fmt"
	"sync"
	"time"
)

// Session is one attached console connection.
type Session struct {
	UID         string
	RemoteAddr  string
	ConnectedAt time.Time
	Outbox      *Outbox
}

// Manager indexes attached sessions by user id. A user id may be attached to
// at most one connection. All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	buffer   int
}

// NewManager creates an empty Manager whose outboxes hold buffer messages.
func NewManager(buffer int) *Manager {
	return &Manager{sessions: make(map[string]*Session), buffer: buffer}
}

// Attach registers uid for a connection.
//
// Precondition: uid must be non-empty.
// Postcondition: Returns the new Session, or an error if uid is already attached.
func (m *Manager) Attach(uid, remoteAddr string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[uid]; ok {
		return nil, fmt.Errorf("user %q already connected", uid)
	}
	s := &Session{
		UID:         uid,
		RemoteAddr:  remoteAddr,
		ConnectedAt: time.Now(),
		Outbox:      NewOutbox(m.buffer),
	}
	m.sessions[uid] = s
	return s, nil
}

// Detach removes uid and closes its outbox.
//
// Postcondition: Returns an error if uid was not attached.
func (m *Manager) Detach(uid string) error {
	m.mu.Lock()
	s, ok := m.sessions[uid]
	delete(m.sessions, uid)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("user %q not connected", uid)
	}
	s.Outbox.Close()
	return nil
}

// Get returns the session for uid.
func (m *Manager) Get(uid string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[uid]
	return s, ok
}

// Count returns the number of attached sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Notify queues text for uid. It reports false when uid is not attached or
// its outbox cannot take more messages.
func (m *Manager) Notify(uid, text string) bool {
	s, ok := m.Get(uid)
	if !ok {
		return false
	}
	return s.Outbox.Push(text) == nil
}
