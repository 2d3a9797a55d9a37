package shared

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by this package wraps exactly one
// of them, so callers can branch with errors.Is on the category.
var (
	// ErrInvalidOperation marks a programming error on the caller's side.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrEmptyResource marks a recoverable shortage (deck, river, hand).
	ErrEmptyResource = errors.New("empty resource")
	// ErrNoWinner marks a trick the rules cannot resolve.
	ErrNoWinner = errors.New("no winner determinable")
)

var (
	ErrNotWild           = fmt.Errorf("%w: effect can only be set on a wild card", ErrInvalidOperation)
	ErrEffectAlreadySet  = fmt.Errorf("%w: wild card effect already declared", ErrInvalidOperation)
	ErrInvalidEffect     = fmt.Errorf("%w: wild card can only act as a pirate or a flag", ErrInvalidOperation)
	ErrSeatNotFound      = fmt.Errorf("%w: no seat for player", ErrInvalidOperation)
	ErrInvalidDeckConfig = fmt.Errorf("%w: invalid deck configuration", ErrInvalidOperation)
	ErrInvalidCard       = fmt.Errorf("%w: invalid card", ErrInvalidOperation)

	ErrDeckEmpty     = fmt.Errorf("%w: deck is empty", ErrEmptyResource)
	ErrRiverEmpty    = fmt.Errorf("%w: river is empty", ErrEmptyResource)
	ErrCardNotInHand = fmt.Errorf("%w: card not in hand", ErrEmptyResource)
	ErrEmptyTrick    = fmt.Errorf("%w: trick has no cards", ErrEmptyResource)

	ErrAllFlags = fmt.Errorf("%w: every card in the trick is a white flag", ErrNoWinner)
)
