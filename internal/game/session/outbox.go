// Package session tracks players attached to a line console and queues text
// pushed to them outside their own turns.
package session

import (
	"errors"
	"sync"
)

// ErrOutboxClosed is returned when pushing to a detached session.
var ErrOutboxClosed = errors.New("outbox closed")

// ErrOutboxFull is returned when the reader has fallen behind.
var ErrOutboxFull = errors.New("outbox full")

// Outbox is a bounded queue of messages for one connected player.
type Outbox struct {
	messages chan string
	mu       sync.Mutex
	closed   bool
}

// NewOutbox creates an Outbox holding up to size undelivered messages.
//
// Postcondition: size <= 0 selects a default of 16.
func NewOutbox(size int) *Outbox {
	if size <= 0 {
		size = 16
	}
	return &Outbox{messages: make(chan string, size)}
}

// Push enqueues text without blocking.
func (o *Outbox) Push(text string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrOutboxClosed
	}
	select {
	case o.messages <- text:
		return nil
	default:
		return ErrOutboxFull
	}
}

// Messages is drained by the connection writer. It is closed by Close.
func (o *Outbox) Messages() <-chan string {
	return o.messages
}

// Close stops further pushes and closes Messages. It is idempotent.
func (o *Outbox) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.closed {
		o.closed = true
		close(o.messages)
	}
}
