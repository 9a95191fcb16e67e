package controller

import (
	"fmt"

	"github.com/robalobadob/guessreveal/internal/game"
)

// PhaseError reports an action attempted in the wrong phase.
// errors.Is(err, game.ErrWrongPhase) holds for it.
type PhaseError struct {
	Want game.Phase
	Got  game.Phase
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("action needs phase %s, session is in %s", e.Want, e.Got)
}

func (e *PhaseError) Unwrap() error { return game.ErrWrongPhase }
