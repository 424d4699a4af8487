// Package inventory implements the capacity-bounded bag shared by caught fish
// and consumable holdings.
package inventory

import (
	"errors"
	"fmt"
	"math"

	"github.com/cory-johannsen/angler/internal/game/player"
	"github.com/cory-johannsen/angler/internal/game/ruleset"
)

var (
	// ErrBagFull is returned when an addition would push occupancy over capacity.
	ErrBagFull = errors.New("bag is full")
	// ErrInvalidQuantity is returned for zero quantities.
	ErrInvalidQuantity = errors.New("quantity must not be zero")
	// ErrSlotOutOfRange is returned for a fish index outside the bag.
	ErrSlotOutOfRange = errors.New("bag slot out of range")
)

// Change describes a hypothetical addition to the bag.
type Change struct {
	// Item is a consumable name; empty when only fish are added.
	Item     string
	Quantity int
	Fish     int
}

// Bag applies the slot policies and capacity of a rule set to player records.
// It holds no per-player state.
type Bag struct {
	rules *ruleset.Rules
}

// NewBag creates a Bag governed by rules.
//
// Precondition: rules must be non-nil and validated.
func NewBag(rules *ruleset.Rules) *Bag {
	return &Bag{rules: rules}
}

// Capacity returns the total number of slots.
func (b *Bag) Capacity() int { return b.rules.Capacity }

// SlotsFor returns the slots occupied by qty units of the named consumable.
func (b *Bag) SlotsFor(name string, qty int) int {
	if qty <= 0 {
		return 0
	}
	switch b.rules.SlotPolicyFor(name) {
	case ruleset.SlotNone:
		return 0
	case ruleset.SlotPerUnit:
		return qty
	default:
		return 1
	}
}

// OccupiedSlots returns fish count plus the slots of every held consumable.
//
// Postcondition: result >= 0.
func (b *Bag) OccupiedSlots(p *player.Player) int {
	n := len(p.Bag)
	for name, qty := range p.Inventory {
		n += b.SlotsFor(name, qty)
	}
	return n
}

// Free returns the remaining slot count, never negative.
func (b *Bag) Free(p *player.Player) int {
	return max(0, b.Capacity()-b.OccupiedSlots(p))
}

// IsFull reports whether no slot remains.
func (b *Bag) IsFull(p *player.Player) bool {
	return b.OccupiedSlots(p) >= b.Capacity()
}

// occupancyAfter simulates c without mutating p. ok is false when c could
// never fit: more fish or per-unit items than the bag has slots, or a held
// quantity that would overflow.
func (b *Bag) occupancyAfter(p *player.Player, c Change) (n int, ok bool) {
	if c.Fish > b.Capacity() {
		return 0, false
	}
	n = b.OccupiedSlots(p) + c.Fish
	if c.Item != "" {
		cur := p.Inventory[c.Item]
		if c.Quantity > 0 && cur > math.MaxInt-c.Quantity {
			return 0, false
		}
		if c.Quantity > b.Capacity() && b.rules.SlotPolicyFor(c.Item) == ruleset.SlotPerUnit {
			return 0, false
		}
		next := max(0, cur+c.Quantity)
		n += b.SlotsFor(c.Item, next) - b.SlotsFor(c.Item, cur)
	}
	return n, true
}

// CanAdd reports whether c fits. Changes that do not grow occupancy always fit.
//
// Postcondition: p is not modified.
func (b *Bag) CanAdd(p *player.Player, c Change) bool {
	after, ok := b.occupancyAfter(p, c)
	return ok && (after <= b.Capacity() || after <= b.OccupiedSlots(p))
}

// AddConsumable adjusts the quantity of name by delta. Quantities never drop
// below zero and entries reaching zero are removed. Bait is capped at the
// configured maximum; the part of delta beyond the cap is returned as overflow
// instead of being applied.
//
// Postcondition: on error p is unchanged; otherwise applied+overflow == delta
// for positive delta and applied is the actual (non-positive) change otherwise.
func (b *Bag) AddConsumable(p *player.Player, name string, delta int) (applied, overflow int, err error) {
	if delta == 0 {
		return 0, 0, ErrInvalidQuantity
	}
	cur := p.Inventory[name]
	if delta < 0 {
		next := max(0, cur+delta)
		b.setQuantity(p, name, next)
		return next - cur, 0, nil
	}

	applied = delta
	if it, ok := b.rules.Item(name); ok && it.Kind == ruleset.KindBait {
		room := max(0, b.rules.BaitCap-cur)
		applied = min(delta, room)
	}
	overflow = delta - applied
	if applied == 0 {
		return 0, overflow, nil
	}
	if !b.CanAdd(p, Change{Item: name, Quantity: applied}) {
		return 0, 0, fmt.Errorf("adding %d %s: %w", applied, name, ErrBagFull)
	}
	b.setQuantity(p, name, cur+applied)
	return applied, overflow, nil
}

func (b *Bag) setQuantity(p *player.Player, name string, qty int) {
	if p.Inventory == nil {
		p.Inventory = make(map[string]int)
	}
	if qty <= 0 {
		delete(p.Inventory, name)
		return
	}
	p.Inventory[name] = qty
}

// AddFish appends f to the bag.
//
// Precondition: callers should have checked CanAdd(p, Change{Fish: 1}).
// Postcondition: returns ErrBagFull and leaves p unchanged when no slot remains.
func (b *Bag) AddFish(p *player.Player, f player.Fish) error {
	if !b.CanAdd(p, Change{Fish: 1}) {
		return fmt.Errorf("adding %s: %w", f.Name, ErrBagFull)
	}
	p.Bag = append(p.Bag, f)
	return nil
}

// RemoveFish removes and returns the fish at the zero-based index.
func (b *Bag) RemoveFish(p *player.Player, index int) (player.Fish, error) {
	if index < 0 || index >= len(p.Bag) {
		return player.Fish{}, fmt.Errorf("index %d of %d: %w", index, len(p.Bag), ErrSlotOutOfRange)
	}
	f := p.Bag[index]
	p.Bag = append(p.Bag[:index:index], p.Bag[index+1:]...)
	return f, nil
}

// ClearFish empties the bag of fish and returns what was removed.
func (b *Bag) ClearFish(p *player.Player) []player.Fish {
	out := p.Bag
	p.Bag = []player.Fish{}
	return out
}
