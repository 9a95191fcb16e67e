// internal/game/engine.go
//
// Pure state transitions for one player session.
// Responsibilities:
//   - Hold the session snapshot (phase, game id, mode, players, commitment, guess log, feedback, result).
//   - Apply completed backend outcomes as transitions that return a new snapshot.
//   - Refuse transitions the phase table does not allow.
//
// Notes:
//   - A Session is a value. Transitions never mutate the receiver; slices and
//     pointers are copied so snapshots handed to views stay stable.
//   - The ten-guess cap belongs to the backend; Guessed only follows game_over.

package game

// CommittedFeedback is shown right after a successful commit.
const CommittedFeedback = "✓ Secret committed and encrypted!"

// Session is an immutable snapshot of the player-visible game state.
type Session struct {
	Phase      Phase
	GameID     string
	Mode       Mode
	Player1    string
	Player2    string
	Commitment *Commitment
	Guesses    []int
	Feedback   string
	Result     *RevealResult

	// Busy is set while a backend call for this session is pending.
	Busy bool
}

// NewSession returns the initial menu snapshot.
func NewSession() Session {
	p1, p2 := ModeSingle.DefaultPlayers()
	return Session{Phase: PhaseMenu, Player1: p1, Player2: p2}
}

// Clone returns a deep copy of s.
func (s Session) Clone() Session {
	out := s
	if s.Guesses != nil {
		out.Guesses = make([]int, len(s.Guesses))
		copy(out.Guesses, s.Guesses)
	}
	if s.Commitment != nil {
		c := *s.Commitment
		out.Commitment = &c
	}
	if s.Result != nil {
		r := *s.Result
		out.Result = &r
	}
	return out
}

// GuessCount is the number of accepted guesses so far.
func (s Session) GuessCount() int { return len(s.Guesses) }

// Remaining is the display count of guesses left; never negative.
func (s Session) Remaining() int {
	if n := MaxGuesses - len(s.Guesses); n > 0 {
		return n
	}
	return 0
}

// WithBusy returns s with the pending-call flag set to busy.
func (s Session) WithBusy(busy bool) Session {
	out := s.Clone()
	out.Busy = busy
	return out
}

// Created applies a successful game creation: Menu → Commitment.
func (s Session) Created(gameID string, mode Mode, player1, player2 string) (Session, error) {
	if !s.Phase.CanTransitionTo(PhaseCommitment) {
		return s, wrongPhase(s.Phase, PhaseCommitment)
	}
	out := s.Clone()
	out.Phase = PhaseCommitment
	out.GameID = gameID
	out.Mode = mode
	out.Player1, out.Player2 = player1, player2
	out.Commitment = nil
	out.Guesses = []int{}
	out.Feedback = ""
	out.Result = nil
	return out, nil
}

// Committed records the commitment hash unchanged: Commitment → Guessing.
func (s Session) Committed(hash string) (Session, error) {
	if !s.Phase.CanTransitionTo(PhaseGuessing) {
		return s, wrongPhase(s.Phase, PhaseGuessing)
	}
	out := s.Clone()
	out.Phase = PhaseGuessing
	out.Commitment = &Commitment{Hash: hash}
	out.Feedback = CommittedFeedback
	return out, nil
}

// Guessed appends an accepted guess and its feedback. When the backend
// signals game over the session moves on to Reveal, whatever the count.
func (s Session) Guessed(guess int, feedback string, gameOver bool) (Session, error) {
	if s.Phase != PhaseGuessing {
		return s, wrongPhase(s.Phase, PhaseGuessing)
	}
	out := s.Clone()
	out.Guesses = append(out.Guesses, guess)
	out.Feedback = feedback
	if gameOver {
		out.Phase = PhaseReveal
	}
	return out, nil
}

// Revealed stores the reveal outcome: Reveal → Result.
func (s Session) Revealed(r RevealResult) (Session, error) {
	if !s.Phase.CanTransitionTo(PhaseResult) {
		return s, wrongPhase(s.Phase, PhaseResult)
	}
	out := s.Clone()
	out.Phase = PhaseResult
	out.Result = &r
	return out, nil
}

// LearnEntered opens learn mode: Menu → Learn.
func (s Session) LearnEntered() (Session, error) {
	if !s.Phase.CanTransitionTo(PhaseLearn) {
		return s, wrongPhase(s.Phase, PhaseLearn)
	}
	out := s.Clone()
	out.Phase = PhaseLearn
	return out, nil
}

// Reset clears every session field and returns to the menu.
// Only Result and Learn lead back to Menu.
func (s Session) Reset() (Session, error) {
	if !s.Phase.CanTransitionTo(PhaseMenu) {
		return s, wrongPhase(s.Phase, PhaseMenu)
	}
	return NewSession(), nil
}
