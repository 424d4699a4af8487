package gameserver_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/angler/internal/gameserver"
)

func TestHour_Period(t *testing.T) {
	cases := []struct {
		hour   int
		period gameserver.TimePeriod
	}{
		{0, gameserver.PeriodDawn},
		{4, gameserver.PeriodDawn},
		{5, gameserver.PeriodMorning},
		{10, gameserver.PeriodMorning},
		{11, gameserver.PeriodAfternoon},
		{16, gameserver.PeriodAfternoon},
		{17, gameserver.PeriodEvening},
		{19, gameserver.PeriodEvening},
		{20, gameserver.PeriodNight},
		{23, gameserver.PeriodNight},
	}
	for _, tc := range cases {
		if got := gameserver.Hour(tc.hour).Period(); got != tc.period {
			t.Errorf("hour %d: got %q, want %q", tc.hour, got, tc.period)
		}
	}
}

func TestHour_String(t *testing.T) {
	assert.Equal(t, "06:00", gameserver.Hour(6).String())
	assert.Equal(t, "18:00", gameserver.Hour(18).String())
}

func TestProperty_Hour_PeriodAlwaysValid(t *testing.T) {
	valid := map[gameserver.TimePeriod]bool{
		gameserver.PeriodDawn:      true,
		gameserver.PeriodMorning:   true,
		gameserver.PeriodAfternoon: true,
		gameserver.PeriodEvening:   true,
		gameserver.PeriodNight:     true,
	}
	rapid.Check(t, func(rt *rapid.T) {
		h := rapid.IntRange(0, 23).Draw(rt, "hour")
		if !valid[gameserver.Hour(h).Period()] {
			rt.Fatalf("hour %d produced invalid period", h)
		}
	})
}

func TestSystemClock_UsesZone(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	c := gameserver.NewSystemClock(loc)
	assert.Equal(t, loc, c.Now().Location())
}

func TestManualClock(t *testing.T) {
	start := time.Date(2026, 1, 1, 23, 59, 0, 0, time.UTC)
	c := gameserver.NewManualClock(start)
	assert.Equal(t, start, c.Now())
	c.Advance(2 * time.Minute)
	assert.Equal(t, "2026-01-02", gameserver.DayKey(c.Now()))
	c.Set(start)
	assert.Equal(t, "2026-01-01", gameserver.DayKey(c.Now()))
}
