package gameserver

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a rejected player action.
type ErrorKind string

const (
	// KindValidation covers malformed or unknown input.
	KindValidation ErrorKind = "validation"
	// KindExhausted covers missing resources: bag space, bait, currency.
	KindExhausted ErrorKind = "exhausted"
	// KindConflict covers actions invalid in the current state.
	KindConflict ErrorKind = "conflict"
)

// Sentinels for rejections that have no lower-level cause.
var (
	ErrUnknownItem        = errors.New("unknown item")
	ErrUnknownLocation    = errors.New("unknown location")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInvalidNickname    = errors.New("invalid nickname")
	ErrNotEnoughItems     = errors.New("not enough items")
	ErrBaitCapReached     = errors.New("bait cap reached")
	ErrRodOwned           = errors.New("rod already owned")
	ErrRodNotOwned        = errors.New("rod not owned")
	ErrRodEquipped        = errors.New("rod is equipped")
	ErrLastRod            = errors.New("last rod cannot be sold")
	ErrBoosterActive      = errors.New("booster already active")
	ErrChemicalLightReady = errors.New("chemical light already pending")
	ErrNotNight           = errors.New("outside the night window")
	ErrCasting            = errors.New("cast in progress")
	ErrNoFish             = errors.New("no fish in bag")
	ErrNoPendingSale      = errors.New("no pending sale")
	ErrAlreadyAttended    = errors.New("already attended today")
	ErrNotEligible        = errors.New("not eligible")
	ErrHasBalance         = errors.New("balance is not zero")
	ErrDailyLimit         = errors.New("daily limit reached")
)

// GameError is a user-facing rejection. The player record is never modified
// when an operation returns a GameError.
type GameError struct {
	Kind ErrorKind
	// Message is relayed to the player verbatim.
	Message string
	// Hints are remediation suggestions.
	Hints []string
	Err   error
}

func (e *GameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying sentinel for errors.Is.
func (e *GameError) Unwrap() error { return e.Err }

func validation(err error, msg string, hints ...string) error {
	return &GameError{Kind: KindValidation, Message: msg, Hints: hints, Err: err}
}

func exhausted(err error, msg string, hints ...string) error {
	return &GameError{Kind: KindExhausted, Message: msg, Hints: hints, Err: err}
}

func conflict(err error, msg string, hints ...string) error {
	return &GameError{Kind: KindConflict, Message: msg, Hints: hints, Err: err}
}

// AsGameError extracts a *GameError from err.
func AsGameError(err error) (*GameError, bool) {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}
