package gameserver

import (
	"fmt"
	"sync"
	"time"
)

// TimePeriod is a named phase of the local day.
type TimePeriod string

const (
	PeriodDawn      TimePeriod = "새벽"
	PeriodMorning   TimePeriod = "아침"
	PeriodAfternoon TimePeriod = "낮"
	PeriodEvening   TimePeriod = "저녁"
	PeriodNight     TimePeriod = "밤"
)

// Hour is a local wall-clock hour in [0, 23].
type Hour int

// Period returns the named time period for this hour.
//
// Precondition: h is in [0, 23].
// Postcondition: Returns one of the five TimePeriod constants.
func (h Hour) Period() TimePeriod {
	switch {
	case h <= 4:
		return PeriodDawn
	case h <= 10:
		return PeriodMorning
	case h <= 16:
		return PeriodAfternoon
	case h <= 19:
		return PeriodEvening
	default: // 20-23
		return PeriodNight
	}
}

// String returns the hour in "HH:00" format.
func (h Hour) String() string {
	return fmt.Sprintf("%02d:00", int(h))
}

// Clock supplies the current time in the game's configured zone.
//
// Implementations MUST be safe for concurrent use.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the host clock and converts it to a fixed zone.
type SystemClock struct {
	loc *time.Location
}

// NewSystemClock creates a SystemClock for loc.
//
// Precondition: loc must be non-nil.
func NewSystemClock(loc *time.Location) *SystemClock {
	return &SystemClock{loc: loc}
}

// Now returns the current time in the configured zone.
func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// ManualClock is a settable Clock for tests and local tooling.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a ManualClock reading start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set replaces the current time.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// DayKey returns the calendar date of t in its own zone as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
