// Package cast implements the per-player Idle -> Casting -> Idle state machine.
package cast

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/angler/internal/game/fishing"
	"github.com/cory-johannsen/angler/internal/game/inventory"
	"github.com/cory-johannsen/angler/internal/game/player"
	"github.com/cory-johannsen/angler/internal/game/progression"
	"github.com/cory-johannsen/angler/internal/game/ruleset"
)

var (
	// ErrInvalidDuration is returned for cast durations outside the configured range.
	ErrInvalidDuration = errors.New("cast duration out of range")
	// ErrAlreadyCasting is returned when a cast is already outstanding.
	ErrAlreadyCasting = errors.New("already casting")
	// ErrNoLocation is returned when neither the request nor the player names a ground.
	ErrNoLocation = errors.New("location not set")
	// ErrUnknownLocation is returned for names that are not configured grounds.
	ErrUnknownLocation = errors.New("unknown location")
	// ErrNoBait is returned when the ground's bait is not held.
	ErrNoBait = errors.New("no bait for location")
	// ErrNotCasting is returned when reeling with no outstanding cast.
	ErrNotCasting = errors.New("no active cast")
)

// Catch is the result of one reel.
type Catch struct {
	Outcome fishing.Outcome
	// Elapsed is whole seconds since the cast started.
	Elapsed int
	Early   bool
	// Fish is the stored record; nil when the cast failed or the bag was full.
	Fish *player.Fish
	// BagFull is set when the catch succeeded but could not be stored.
	BagFull      bool
	LevelsGained int
	// BoosterUsesLeft is the booster counter after this resolution.
	BoosterUsesLeft   int
	ChemicalLightUsed bool
}

// Machine drives casts for any number of players. It holds no per-player state.
type Machine struct {
	rules  *ruleset.Rules
	bag    *inventory.Bag
	engine *fishing.Engine
}

// NewMachine creates a Machine.
//
// Precondition: all arguments must be non-nil and share the same rules.
func NewMachine(rules *ruleset.Rules, bag *inventory.Bag, engine *fishing.Engine) *Machine {
	return &Machine{rules: rules, bag: bag, engine: engine}
}

// Start begins a cast at location, or at the player's current ground when
// location is empty.
//
// Rejections, checked in order: duration out of range, already casting,
// no location, unknown location, bag full, no bait.
//
// Postcondition: on error p is unchanged. On success exactly one bait unit
// is consumed, p.Location is the cast ground and p.Casting is set.
func (m *Machine) Start(p *player.Player, location string, seconds int, now time.Time) (*player.CastState, error) {
	if seconds < m.rules.MinCastSeconds || seconds > m.rules.MaxCastSeconds {
		return nil, fmt.Errorf("%d seconds not in [%d, %d]: %w",
			seconds, m.rules.MinCastSeconds, m.rules.MaxCastSeconds, ErrInvalidDuration)
	}
	if p.IsCasting() {
		return nil, ErrAlreadyCasting
	}
	if location == "" {
		location = p.Location
	}
	if location == "" {
		return nil, ErrNoLocation
	}
	loc, ok := m.rules.Location(location)
	if !ok {
		return nil, fmt.Errorf("%q: %w", location, ErrUnknownLocation)
	}
	if m.bag.IsFull(p) {
		return nil, fmt.Errorf("%d/%d slots: %w", m.bag.OccupiedSlots(p), m.bag.Capacity(), inventory.ErrBagFull)
	}
	if p.Quantity(loc.Bait) < 1 {
		return nil, fmt.Errorf("%s needs %s: %w", loc.Name, loc.Bait, ErrNoBait)
	}

	if _, _, err := m.bag.AddConsumable(p, loc.Bait, -1); err != nil {
		return nil, err
	}
	p.Location = loc.Name
	p.Casting = &player.CastState{Seconds: seconds, Start: now, Location: loc.Name}
	return p.Casting, nil
}

// Elapsed returns whole seconds since the cast started, never negative.
func Elapsed(c *player.CastState, now time.Time) int {
	return max(0, int(now.Sub(c.Start)/time.Second))
}

// Remaining returns the advisory seconds left on the outstanding cast; 0 when
// idle or already elapsed.
func Remaining(p *player.Player, now time.Time) int {
	if p.Casting == nil {
		return 0
	}
	return max(0, p.Casting.Seconds-Elapsed(p.Casting, now))
}

// Reel resolves the outstanding cast.
//
// Postcondition: returns ErrNotCasting and leaves p unchanged when idle.
// A resolve error also leaves p unchanged. Otherwise the cast is cleared
// whatever the outcome, the booster counter drops by one if active and any
// chemical light is consumed. A successful
// catch is stored, recorded and awarded experience only when a slot is free.
func (m *Machine) Reel(p *player.Player, now time.Time) (Catch, error) {
	if p.Casting == nil {
		return Catch{}, ErrNotCasting
	}
	cs := *p.Casting

	elapsed := Elapsed(&cs, now)
	early := elapsed < cs.Seconds
	effective := cs.Seconds
	if early {
		effective = elapsed
	}
	location := cs.Location
	if location == "" {
		location = p.Location
	}

	in := fishing.Input{
		Location:         location,
		CastSeconds:      cs.Seconds,
		EffectiveSeconds: effective,
		EarlyReel:        early,
		Rod:              p.Rod,
		BoosterActive:    p.Buffs.BoosterUses > 0,
		ChemicalLight:    p.Buffs.ChemicalLight,
		Level:            p.Level,
	}
	out, err := m.engine.Resolve(in)
	if err != nil {
		return Catch{}, fmt.Errorf("resolving cast: %w", err)
	}
	p.Casting = nil

	c := Catch{Outcome: out, Elapsed: elapsed, Early: early}
	if p.Buffs.BoosterUses > 0 {
		p.Buffs.BoosterUses--
	}
	c.BoosterUsesLeft = p.Buffs.BoosterUses
	if p.Buffs.ChemicalLight != 0 {
		p.Buffs.ChemicalLight = 0
		c.ChemicalLightUsed = true
	}

	if !out.Success {
		return c, nil
	}
	if !m.bag.CanAdd(p, inventory.Change{Fish: 1}) {
		c.BagFull = true
		return c, nil
	}
	f := player.Fish{
		ID:       uuid.NewString(),
		Name:     out.Species,
		Length:   out.Length,
		Grade:    out.Grade,
		Price:    out.Price,
		Location: out.Location,
		CaughtAt: now,
	}
	if err := m.bag.AddFish(p, f); err != nil {
		c.BagFull = true
		return c, nil
	}
	p.RecordCatch(f)
	c.LevelsGained = progression.Award(p, out.Exp)
	c.Fish = &f
	return c, nil
}
