// Package dice provides the randomness abstraction and the weighted-draw
// helpers used by the fishing engine.
package dice

import (
	"errors"
	"fmt"
)

// ErrNoWeight is returned when a weighted draw has nothing to choose from.
var ErrNoWeight = errors.New("dice: total weight must be > 0")

// Source is the randomness provider for every game draw.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Weighted pairs a label with a non-negative integer weight.
type Weighted[T any] struct {
	Label  T
	Weight int
}

// Choose draws one label from items with probability proportional to its weight.
//
// The draw r is uniform in [1, total]; the first bucket whose cumulative
// weight is >= r wins, so boundary draws always resolve to the lower bucket.
//
// Precondition: src is non-nil.
// Postcondition: Returns a label whose weight is > 0, or ErrNoWeight when the
// total weight is zero, or an error when any weight is negative.
func Choose[T any](src Source, items []Weighted[T]) (T, error) {
	var zero T
	total := 0
	for i, it := range items {
		if it.Weight < 0 {
			return zero, fmt.Errorf("dice: weight at index %d is negative (%d)", i, it.Weight)
		}
		total += it.Weight
	}
	if total == 0 {
		return zero, ErrNoWeight
	}

	r := src.Intn(total) + 1
	cum := 0
	for _, it := range items {
		cum += it.Weight
		if cum >= r {
			return it.Label, nil
		}
	}
	// Unreachable: cum == total >= r after the loop.
	return items[len(items)-1].Label, nil
}

// Percent returns a uniform draw in (0, 100] with a resolution of 0.01.
//
// Postcondition: 0 < result <= 100.
func Percent(src Source) float64 {
	return float64(src.Intn(10000)+1) / 100
}

// Between returns a uniform int in [lo, hi].
//
// Postcondition: returns lo when hi <= lo; otherwise lo <= result <= hi.
func Between(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}
