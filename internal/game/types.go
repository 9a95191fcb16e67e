// internal/game/types.go
//
// Core type definitions for the commit/reveal guessing game as seen by a player.
// Defines:
//   - Phase: the player-visible lifecycle stage (menu → commitment → guessing → reveal → result, plus learn).
//   - Mode: single player (vs computer) or local two player.
//   - Commitment / RevealResult: what the backend hands back at commit and reveal time.
//   - Concept: one entry of the educational content shown in learn mode.

package game

import "strings"

// Bounds shared with the backend. The backend is the authority; these only
// drive client-side input checks and the "n / 10" display.
const (
	MinNumber  = 1
	MaxNumber  = 100
	MaxGuesses = 10
)

// Phase is one discrete stage of the game lifecycle.
type Phase string

const (
	PhaseMenu       Phase = "menu"
	PhaseCommitment Phase = "commitment"
	PhaseGuessing   Phase = "guessing"
	PhaseReveal     Phase = "reveal"
	PhaseResult     Phase = "result"
	PhaseLearn      Phase = "learn"
)

var transitions = map[Phase][]Phase{
	PhaseMenu:       {PhaseCommitment, PhaseLearn},
	PhaseCommitment: {PhaseGuessing},
	PhaseGuessing:   {PhaseReveal},
	PhaseReveal:     {PhaseResult},
	PhaseResult:     {PhaseMenu},
	PhaseLearn:      {PhaseMenu},
}

func (p Phase) String() string { return string(p) }

// CanTransitionTo reports whether target is a legal next phase.
// The commit → guess → reveal → result path only moves forward; result and
// learn are the only phases that lead back to the menu.
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, next := range transitions[p] {
		if next == target {
			return true
		}
	}
	return false
}

// HasCommitment reports whether a commitment hash is expected to exist in p.
func (p Phase) HasCommitment() bool {
	return p == PhaseGuessing || p == PhaseReveal || p == PhaseResult
}

// Mode selects who plays against whom.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeTwo    Mode = "two"
)

// ParseMode accepts "single"/"two" (case-insensitive, surrounding space ignored).
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSingle:
		return ModeSingle, nil
	case ModeTwo:
		return ModeTwo, nil
	}
	return "", &ValidationError{Input: s, Reason: "mode must be single or two"}
}

// DefaultPlayers returns the names used when the player left them blank.
func (m Mode) DefaultPlayers() (player1, player2 string) {
	if m == ModeTwo {
		return "Player 1", "Player 2"
	}
	return "You", "Computer"
}

// Commitment binds the committer to a secret without disclosing it.
type Commitment struct {
	Hash string
}

// RevealResult is the outcome returned by the backend once the secret is disclosed.
type RevealResult struct {
	SecretNumber    int
	CommitmentValid bool
	ResultText      string
	GuessesMade     int
	CommittedAt     string // timestamp as sent by the backend, unparsed
	Winner          string // empty when nobody found the secret
}

// Concept is one card of learn-mode content.
type Concept struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	KeyPoints   []string `json:"key_points"`
}
