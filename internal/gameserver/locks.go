package gameserver

import "sync"

// userLocks serializes turns per user id. Entries are dropped when no turn
// holds or waits on them.
type userLocks struct {
	mu      sync.Mutex
	entries map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{entries: make(map[string]*userLock)}
}

// lock blocks until uid is free and returns the matching unlock.
func (l *userLocks) lock(uid string) func() {
	l.mu.Lock()
	e, ok := l.entries[uid]
	if !ok {
		e = &userLock{}
		l.entries[uid] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, uid)
		}
		l.mu.Unlock()
	}
}

func (l *userLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
