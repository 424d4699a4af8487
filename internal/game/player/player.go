// Package player defines the persisted per-user game record.
package player

import (
	"errors"
	"slices"
	"time"

	"github.com/cory-johannsen/angler/internal/game/ruleset"
)

// ErrNicknameLocked is returned when a nickname is set a second time.
var ErrNicknameLocked = errors.New("nickname already set")

// Fish is one caught-fish record held in the bag.
type Fish struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Length   int           `json:"cm"`
	Grade    ruleset.Grade `json:"grade"`
	Price    int           `json:"price"`
	Location string        `json:"location"`
	CaughtAt time.Time     `json:"caught_at"`
}

// CastState records one outstanding cast.
type CastState struct {
	Seconds  int       `json:"seconds"`
	Start    time.Time `json:"start"`
	Location string    `json:"location"`
}

// ReadyAt returns the moment the requested duration elapses.
func (c CastState) ReadyAt() time.Time {
	return c.Start.Add(time.Duration(c.Seconds) * time.Second)
}

// Buffs holds the active consumable effects.
type Buffs struct {
	// BoosterUses is the remaining resolved casts of the additive buff; 0 is inactive.
	BoosterUses int `json:"additive_uses"`
	// ChemicalLight is the tagged grade level (1-3) of the pending one-shot buff; 0 is inactive.
	ChemicalLight int `json:"chemical_light"`
}

// Records tracks the smallest and largest stored catches.
type Records struct {
	Smallest *Fish `json:"min"`
	Largest  *Fish `json:"max"`
}

// PendingSale is a staged sell-all awaiting confirmation.
type PendingSale struct {
	FishIDs []string `json:"fish_ids"`
	Total   int      `json:"total"`
}

// NewbieUsage counts newbie bonus claims for one local day.
type NewbieUsage struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Player is the full per-user record.
type Player struct {
	ID             string         `json:"id"`
	Nickname       string         `json:"nickname"`
	Level          int            `json:"level"`
	Exp            int            `json:"exp"`
	Gold           int            `json:"gold"`
	RestrictedGold int            `json:"restricted_gold"`
	Rod            string         `json:"rod"`
	Rods           []string       `json:"rods"`
	Inventory      map[string]int `json:"inventory"`
	Bag            []Fish         `json:"fish"`
	Buffs          Buffs          `json:"buffs"`
	Location       string         `json:"location"`
	Casting        *CastState     `json:"casting"`
	Records        Records        `json:"records"`
	PendingSale    *PendingSale   `json:"pending_sale"`
	AttendanceLast string         `json:"attendance_last"`
	Newbie         NewbieUsage    `json:"newbie"`
	CreatedAt      time.Time      `json:"created_at"`
}

// New creates a default record: level 1, no currency, one base rod, empty bag.
//
// Precondition: id and startingRod are non-empty.
// Postcondition: the returned Player satisfies every record invariant.
func New(id, startingRod string, now time.Time) *Player {
	return &Player{
		ID:        id,
		Level:     1,
		Rod:       startingRod,
		Rods:      []string{startingRod},
		Inventory: make(map[string]int),
		Bag:       []Fish{},
		CreatedAt: now,
	}
}

// Normalize repairs zero values left by decoding an older or partial record.
//
// Postcondition: Inventory and Bag are non-nil; Level >= 1; the equipped rod is owned.
func (p *Player) Normalize(startingRod string) {
	if p.Inventory == nil {
		p.Inventory = make(map[string]int)
	}
	for name, qty := range p.Inventory {
		if qty <= 0 {
			delete(p.Inventory, name)
		}
	}
	if p.Bag == nil {
		p.Bag = []Fish{}
	}
	if p.Level < 1 {
		p.Level = 1
	}
	if p.Exp < 0 {
		p.Exp = 0
	}
	if p.Rod == "" {
		p.Rod = startingRod
	}
	if !p.OwnsRod(p.Rod) {
		p.Rods = append(p.Rods, p.Rod)
	}
}

// SetNickname assigns the nickname once.
//
// Postcondition: returns ErrNicknameLocked and leaves the record unchanged
// when a nickname is already set.
func (p *Player) SetNickname(name string) error {
	if p.Nickname != "" {
		return ErrNicknameLocked
	}
	p.Nickname = name
	return nil
}

// HasNickname reports whether the nickname gate has been passed.
func (p *Player) HasNickname() bool { return p.Nickname != "" }

// IsCasting reports whether a cast is outstanding.
func (p *Player) IsCasting() bool { return p.Casting != nil }

// Quantity returns the held quantity of a consumable.
func (p *Player) Quantity(name string) int { return p.Inventory[name] }

// OwnsRod reports whether the rod is owned.
func (p *Player) OwnsRod(name string) bool { return slices.Contains(p.Rods, name) }

// Balance returns general plus restricted currency.
func (p *Player) Balance() int { return p.Gold + p.RestrictedGold }

// RecordCatch updates the smallest/largest records with f.
func (p *Player) RecordCatch(f Fish) {
	if p.Records.Smallest == nil || f.Length < p.Records.Smallest.Length {
		c := f
		p.Records.Smallest = &c
	}
	if p.Records.Largest == nil || f.Length > p.Records.Largest.Length {
		c := f
		p.Records.Largest = &c
	}
}

// FishIndex returns the bag index of the fish with id, or -1.
func (p *Player) FishIndex(id string) int {
	for i, f := range p.Bag {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the record.
func (p *Player) Clone() *Player {
	c := *p
	c.Rods = slices.Clone(p.Rods)
	c.Bag = slices.Clone(p.Bag)
	c.Inventory = make(map[string]int, len(p.Inventory))
	for k, v := range p.Inventory {
		c.Inventory[k] = v
	}
	if p.Casting != nil {
		cs := *p.Casting
		c.Casting = &cs
	}
	if p.PendingSale != nil {
		ps := *p.PendingSale
		ps.FishIDs = slices.Clone(p.PendingSale.FishIDs)
		c.PendingSale = &ps
	}
	if p.Records.Smallest != nil {
		f := *p.Records.Smallest
		c.Records.Smallest = &f
	}
	if p.Records.Largest != nil {
		f := *p.Records.Largest
		c.Records.Largest = &f
	}
	return &c
}
