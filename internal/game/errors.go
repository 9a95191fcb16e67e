// internal/game/errors.go
//
// Error types shared by the state machine and its callers.
// Defines:
//   - ErrWrongPhase: sentinel for an operation attempted in the wrong phase.
//   - ValidationError: rejected player input, carrying the reason to show.

package game

import (
	"errors"
	"fmt"
)

// ErrWrongPhase is returned when an operation is attempted outside the phase
// that allows it. Wrapped errors carry the from/to phases.
var ErrWrongPhase = errors.New("operation not allowed in current phase")

// ValidationError rejects player input before anything is sent to the backend.
type ValidationError struct {
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Input == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
}

func wrongPhase(from, to Phase) error {
	return fmt.Errorf("%w: %s → %s", ErrWrongPhase, from, to)
}
