package gameserver

import (
	"sync"
	"time"
)

// ReelTimer fires a callback after a configurable duration unless stopped.
// It is safe for concurrent use.
type ReelTimer struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewReelTimer creates and starts a timer that calls onFire after duration.
// onFire is called in a separate goroutine.
//
// Precondition: onFire must not be nil.
// Postcondition: Returns a running ReelTimer; onFire will be called unless Stop is called first.
func NewReelTimer(duration time.Duration, onFire func()) *ReelTimer {
	rt := &ReelTimer{}
	rt.timer = time.AfterFunc(max(duration, 0), func() {
		rt.mu.Lock()
		stopped := rt.stopped
		rt.stopped = true
		rt.mu.Unlock()
		if !stopped {
			onFire()
		}
	})
	return rt
}

// Stop prevents the callback from firing. Safe to call multiple times.
//
// Postcondition: onFire will not be called after Stop returns unless it had already started.
func (rt *ReelTimer) Stop() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.stopped = true
	rt.timer.Stop()
}

// AutoReeler keeps at most one pending reel timer per user. Firing a timer
// only requests a reel; the reel itself goes through the normal turn path, so
// a user who already reeled manually is a no-op.
type AutoReeler struct {
	mu     sync.Mutex
	timers map[string]*ReelTimer
	fire   func(uid string)
	closed bool
}

// NewAutoReeler creates an AutoReeler that calls fire(uid) when a timer expires.
//
// Precondition: fire must not be nil.
func NewAutoReeler(fire func(uid string)) *AutoReeler {
	return &AutoReeler{timers: make(map[string]*ReelTimer), fire: fire}
}

// Schedule arms the timer for uid, replacing any earlier one.
//
// Postcondition: fire(uid) is called once after d unless Cancel or Close runs first.
func (a *AutoReeler) Schedule(uid string, d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if old, ok := a.timers[uid]; ok {
		old.Stop()
	}
	var rt *ReelTimer
	rt = NewReelTimer(d, func() {
		a.mu.Lock()
		if a.timers[uid] == rt {
			delete(a.timers, uid)
		}
		a.mu.Unlock()
		a.fire(uid)
	})
	a.timers[uid] = rt
}

// Cancel stops the pending timer for uid, if any.
func (a *AutoReeler) Cancel(uid string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if rt, ok := a.timers[uid]; ok {
		rt.Stop()
		delete(a.timers, uid)
	}
}

// Pending reports whether uid has an armed timer.
func (a *AutoReeler) Pending(uid string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.timers[uid]
	return ok
}

// Close stops every timer and rejects further scheduling.
func (a *AutoReeler) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	for uid, rt := range a.timers {
		rt.Stop()
		delete(a.timers, uid)
	}
}
