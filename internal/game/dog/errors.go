package dog

import "errors"

var (
	// ErrInvalidAction signals an action referencing a marble or card that
	// is not where the action claims it is. Callers that enumerate legal
	// actions first never trigger it; it indicates an upstream bug.
	ErrInvalidAction = errors.New("invalid action")

	// ErrStepBudgetExceeded signals a seven-card partial move requesting
	// more squares than remain in the step budget.
	ErrStepBudgetExceeded = errors.New("seven step budget exceeded")

	// ErrDeckExhausted signals that the draw pile cannot be replenished
	// because the discard pile is also empty. Fatal to the game instance.
	ErrDeckExhausted = errors.New("deck exhausted")
)
