package cast_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/angler/internal/game/cast"
	"github.com/cory-johannsen/angler/internal/game/fishing"
	"github.com/cory-johannsen/angler/internal/game/inventory"
	"github.com/cory-johannsen/angler/internal/game/player"
	"github.com/cory-johannsen/angler/internal/game/ruleset"
)

var t0 = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

type scriptedSource struct {
	t      testing.TB
	values []int
}

func (s *scriptedSource) Intn(n int) int {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[0]
	s.values = s.values[1:]
	require.Less(s.t, v, n)
	return v
}

type rapidSource struct{ rt *rapid.T }

func (s rapidSource) Intn(n int) int { return rapid.IntRange(0, n-1).Draw(s.rt, "intn") }

func newMachine(t *testing.T, values ...int) (*cast.Machine, *inventory.Bag) {
	rules := ruleset.Default()
	bag := inventory.NewBag(rules)
	eng := fishing.NewEngine(rules, &scriptedSource{t: t, values: values}, zaptest.NewLogger(t))
	return cast.NewMachine(rules, bag, eng), bag
}

func newPlayer() *player.Player {
	return player.New("u1", "철제 낚싯대", t0)
}

// successDraws lands a 12cm 붕어 at 민물 with a 1.00 draw.
var successDraws = []int{0, 0, 0, 2, 99}

func TestStart_SeaScenario(t *testing.T) {
	m, _ := newMachine(t)
	p := newPlayer()
	p.Location = "바다"
	p.Inventory["지렁이"] = 1

	cs, err := m.Start(p, "바다", 30, t0)
	require.NoError(t, err)
	assert.Equal(t, 30, cs.Seconds)
	assert.Equal(t, t0, cs.Start)
	assert.Zero(t, p.Quantity("지렁이"))
	assert.True(t, p.IsCasting())

	_, err = m.Start(p, "바다", 30, t0)
	assert.ErrorIs(t, err, cast.ErrAlreadyCasting)
}

func TestStart_RejectionOrderAndNoMutation(t *testing.T) {
	m, _ := newMachine(t)

	cases := []struct {
		name     string
		setup    func(p *player.Player)
		location string
		seconds  int
		want     error
	}{
		{"duration zero", func(p *player.Player) {}, "바다", 0, cast.ErrInvalidDuration},
		{"duration over", func(p *player.Player) { p.Casting = &player.CastState{} }, "바다", 61, cast.ErrInvalidDuration},
		{"already casting", func(p *player.Player) { p.Casting = &player.CastState{Seconds: 5, Start: t0} }, "", 10, cast.ErrAlreadyCasting},
		{"no location", func(p *player.Player) {}, "", 10, cast.ErrNoLocation},
		{"unknown location", func(p *player.Player) {}, "우주", 10, cast.ErrUnknownLocation},
		{"bag full", func(p *player.Player) {
			p.Inventory["지렁이"] = 3
			p.Bag = make([]player.Fish, 4)
		}, "바다", 10, inventory.ErrBagFull},
		{"no bait", func(p *player.Player) { p.Inventory["떡밥"] = 3 }, "바다", 10, cast.ErrNoBait},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := newPlayer()
			c.setup(p)
			before := p.Clone()
			_, err := m.Start(p, c.location, c.seconds, t0)
			assert.ErrorIs(t, err, c.want)
			assert.Equal(t, before, p)
		})
	}
}

func TestStart_UsesCurrentLocation(t *testing.T) {
	m, _ := newMachine(t)
	p := newPlayer()
	p.Location = "민물"
	p.Inventory["떡밥"] = 2
	cs, err := m.Start(p, "", 10, t0)
	require.NoError(t, err)
	assert.Equal(t, "민물", cs.Location)
	assert.Equal(t, 1, p.Quantity("떡밥"))
}

func TestReel_ImmediateIsEarly(t *testing.T) {
	m, _ := newMachine(t, successDraws...)
	p := newPlayer()
	p.Inventory["떡밥"] = 1
	_, err := m.Start(p, "민물", 30, t0)
	require.NoError(t, err)

	c, err := m.Reel(p, t0)
	require.NoError(t, err)
	assert.True(t, c.Early)
	assert.Zero(t, c.Elapsed)
	assert.InDelta(t, -80.0, c.Outcome.Breakdown.EarlyReel, 1e-9)
	assert.Zero(t, c.Outcome.Breakdown.Time)
	assert.False(t, c.Outcome.Success)
	assert.Nil(t, c.Fish)
	assert.False(t, p.IsCasting())
}

func TestReel_FullDurationStoresCatch(t *testing.T) {
	m, _ := newMachine(t, successDraws...)
	p := newPlayer()
	p.Inventory["떡밥"] = 1
	p.Buffs.BoosterUses = 3
	p.Buffs.ChemicalLight = 3
	_, err := m.Start(p, "민물", 30, t0)
	require.NoError(t, err)

	c, err := m.Reel(p, t0.Add(45*time.Second))
	require.NoError(t, err)
	assert.False(t, c.Early)
	assert.Equal(t, 45, c.Elapsed)
	require.True(t, c.Outcome.Success)
	require.NotNil(t, c.Fish)
	assert.Equal(t, "붕어", c.Fish.Name)
	assert.Equal(t, 12, c.Fish.Length)
	assert.NotEmpty(t, c.Fish.ID)
	assert.Len(t, p.Bag, 1)
	assert.Equal(t, 12, p.Exp)
	assert.Equal(t, "붕어", p.Records.Largest.Name)
	assert.Equal(t, 2, c.BoosterUsesLeft)
	assert.Equal(t, 2, p.Buffs.BoosterUses)
	assert.True(t, c.ChemicalLightUsed)
	assert.Zero(t, p.Buffs.ChemicalLight)
	// effective seconds cap at the requested duration
	assert.InDelta(t, 5.0, c.Outcome.Breakdown.Time, 1e-9)
}

func TestReel_FailureStillConsumesBuffs(t *testing.T) {
	m, _ := newMachine(t, 0, 0, 0, 2, 9999)
	p := newPlayer()
	p.Inventory["떡밥"] = 1
	p.Buffs.BoosterUses = 1
	p.Buffs.ChemicalLight = 1
	_, err := m.Start(p, "민물", 10, t0)
	require.NoError(t, err)

	c, err := m.Reel(p, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, c.Outcome.Success)
	assert.Zero(t, p.Buffs.BoosterUses)
	assert.Zero(t, p.Buffs.ChemicalLight)
	assert.Zero(t, p.Quantity("떡밥"))
	assert.Empty(t, p.Bag)
	assert.Zero(t, p.Exp)
}

func TestReel_BagFilledDuringCastKeepsCatchOut(t *testing.T) {
	m, _ := newMachine(t, successDraws...)
	p := newPlayer()
	p.Inventory["떡밥"] = 2
	_, err := m.Start(p, "민물", 10, t0)
	require.NoError(t, err)
	p.Bag = make([]player.Fish, 4)

	c, err := m.Reel(p, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, c.Outcome.Success)
	assert.True(t, c.BagFull)
	assert.Nil(t, c.Fish)
	assert.Len(t, p.Bag, 4)
	assert.Zero(t, p.Exp)
}

func TestReel_IdleIsRejected(t *testing.T) {
	m, _ := newMachine(t)
	p := newPlayer()
	before := p.Clone()
	_, err := m.Reel(p, t0)
	assert.ErrorIs(t, err, cast.ErrNotCasting)
	assert.Equal(t, before, p)
}

func TestReel_ResolveErrorKeepsCast(t *testing.T) {
	m, _ := newMachine(t)
	p := newPlayer()
	p.Buffs.BoosterUses = 3
	p.Casting = &player.CastState{Seconds: 5, Start: t0, Location: "없는곳"}
	before := p.Clone()

	_, err := m.Reel(p, t0.Add(10*time.Second))
	assert.ErrorIs(t, err, fishing.ErrUnknownLocation)
	assert.Equal(t, before, p)
	require.NotNil(t, p.Casting)
}

func TestReel_SecondReelDoesNotDoubleResolve(t *testing.T) {
	m, _ := newMachine(t, successDraws...)
	p := newPlayer()
	p.Inventory["떡밥"] = 1
	_, err := m.Start(p, "민물", 5, t0)
	require.NoError(t, err)
	_, err = m.Reel(p, t0.Add(10*time.Second))
	require.NoError(t, err)
	_, err = m.Reel(p, t0.Add(11*time.Second))
	assert.ErrorIs(t, err, cast.ErrNotCasting)
	assert.Len(t, p.Bag, 1)
}

func TestRemaining(t *testing.T) {
	p := newPlayer()
	assert.Zero(t, cast.Remaining(p, t0))
	p.Casting = &player.CastState{Seconds: 30, Start: t0}
	assert.Equal(t, 30, cast.Remaining(p, t0))
	assert.Equal(t, 18, cast.Remaining(p, t0.Add(12500*time.Millisecond)))
	assert.Zero(t, cast.Remaining(p, t0.Add(time.Hour)))
	assert.Equal(t, 30, cast.Remaining(p, t0.Add(-time.Second)))
}

// TestProperty_CastCycleKeepsInvariants runs random cast/reel cycles and
// checks capacity, experience normalization and cast exclusivity.
func TestProperty_CastCycleKeepsInvariants(t *testing.T) {
	rules := ruleset.Default()
	rapid.Check(t, func(rt *rapid.T) {
		bag := inventory.NewBag(rules)
		eng := fishing.NewEngine(rules, rapidSource{rt}, zaptest.NewLogger(t))
		m := cast.NewMachine(rules, bag, eng)
		p := newPlayer()
		p.Inventory["지렁이"] = rapid.IntRange(0, 20).Draw(rt, "worms")
		p.Inventory["떡밥"] = rapid.IntRange(0, 20).Draw(rt, "paste")
		p.Normalize(rules.StartingRod)
		p.Level = rapid.IntRange(1, 120).Draw(rt, "level")

		now := t0
		rounds := rapid.IntRange(1, 20).Draw(rt, "rounds")
		for i := 0; i < rounds; i++ {
			loc := rapid.SampledFrom(rules.LocationNames()).Draw(rt, "loc")
			secs := rapid.IntRange(1, 60).Draw(rt, "secs")
			_, startErr := m.Start(p, loc, secs, now)
			if startErr == nil {
				assert.True(rt, p.IsCasting())
				_, err := m.Start(p, loc, secs, now)
				assert.ErrorIs(rt, err, cast.ErrAlreadyCasting)
			}
			now = now.Add(time.Duration(rapid.IntRange(0, 90).Draw(rt, "wait")) * time.Second)
			_, err := m.Reel(p, now)
			if startErr != nil {
				assert.ErrorIs(rt, err, cast.ErrNotCasting)
			} else {
				require.NoError(rt, err)
			}
			assert.False(rt, p.IsCasting())
			assert.LessOrEqual(rt, bag.OccupiedSlots(p), bag.Capacity())
			assert.GreaterOrEqual(rt, p.Exp, 0)
			assert.Less(rt, p.Exp, 100+50*(p.Level-1))
		}
	})
}
