// Package economy provides the static price list and currency rules.
package economy

import (
	"errors"
	"fmt"
	"math"

	"github.com/cory-johannsen/angler/internal/game/ruleset"
)

var (
	// ErrUnknownItem is returned for names missing from the price list.
	ErrUnknownItem = errors.New("unknown item")
	// ErrInsufficientFunds is returned when the balances cannot cover a purchase.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrQuantityTooLarge is returned when a total would not fit in an int.
	ErrQuantityTooLarge = errors.New("quantity too large")
)

// Payment is how a purchase total splits across the two balances.
type Payment struct {
	Restricted int
	General    int
}

// Total returns the sum of both parts.
func (p Payment) Total() int { return p.Restricted + p.General }

// Table is a read-only view over the configured price list.
type Table struct {
	rules *ruleset.Rules
}

// NewTable creates a Table over rules.
//
// Precondition: rules must be non-nil and validated.
func NewTable(rules *ruleset.Rules) *Table {
	return &Table{rules: rules}
}

// Price returns the unit price of item.
func (t *Table) Price(item string) (int, bool) {
	it, ok := t.rules.Item(item)
	if !ok {
		return 0, false
	}
	return it.Price, true
}

// AcceptsRestricted reports whether restricted currency may pay for item.
func (t *Table) AcceptsRestricted(item string) bool {
	it, ok := t.rules.Item(item)
	return ok && it.Restricted
}

// Items returns the price list in configured order.
func (t *Table) Items() []ruleset.Item {
	out := make([]ruleset.Item, len(t.rules.Items))
	copy(out, t.rules.Items)
	return out
}

// Cost returns unit price times qty.
//
// Postcondition: on success result >= 0; a product that would overflow is
// ErrQuantityTooLarge.
func (t *Table) Cost(item string, qty int) (int, error) {
	price, ok := t.Price(item)
	if !ok {
		return 0, fmt.Errorf("%q: %w", item, ErrUnknownItem)
	}
	if qty < 0 || (price > 0 && qty > math.MaxInt/price) {
		return 0, fmt.Errorf("%d x %q: %w", qty, item, ErrQuantityTooLarge)
	}
	return price * qty, nil
}

// Refund returns the sell-back value of qty units of item.
//
// Postcondition: result == floor(price*rate)*qty and result <= Cost(item, qty).
func (t *Table) Refund(item string, qty int) (int, error) {
	price, ok := t.Price(item)
	if !ok {
		return 0, fmt.Errorf("%q: %w", item, ErrUnknownItem)
	}
	return RefundAmount(price, qty, t.rules.RefundRate), nil
}

// RefundAmount computes floor(unitPrice*rate)*qty.
func RefundAmount(unitPrice, qty int, rate float64) int {
	return int(math.Floor(float64(unitPrice)*rate)) * qty
}

// Split divides total across the balances. Restricted currency is spent first
// when item accepts it; otherwise only general currency pays.
//
// Postcondition: on success Payment.Total() == total, Restricted <= restricted
// and General <= general.
func (t *Table) Split(item string, total, restricted, general int) (Payment, error) {
	var pay Payment
	if t.AcceptsRestricted(item) {
		pay.Restricted = min(total, max(0, restricted))
	}
	pay.General = total - pay.Restricted
	if pay.General > general {
		return Payment{}, fmt.Errorf("need %d, have %d: %w", total, pay.Restricted+max(0, general), ErrInsufficientFunds)
	}
	return pay, nil
}
