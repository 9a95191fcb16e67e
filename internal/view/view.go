// Package view projects a game.Session into display-ready data shared by the
// terminal and web fronts. Everything here is a pure function of its inputs.
package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robalobadob/guessreveal/internal/api"
	"github.com/robalobadob/guessreveal/internal/game"
)

const (
	Title    = "🔐 Guess the Number: Encrypted Commit/Reveal"
	Subtitle = "Learn the commit/reveal privacy model through a game"

	// hashPreviewLen is how much of the commitment hash is shown while guessing.
	hashPreviewLen = 32
)

// Action names a control the player can trigger.
type Action string

const (
	ActionSingle    Action = "single"
	ActionTwo       Action = "two"
	ActionLearn     Action = "learn"
	ActionCommit    Action = "commit"
	ActionGuess     Action = "guess"
	ActionReveal    Action = "reveal"
	ActionPlayAgain Action = "play-again"
	ActionBack      Action = "back"
)

// Control is one button or menu entry.
type Control struct {
	Action   Action
	Label    string
	Hint     string
	Disabled bool
}

// Result is the result-screen block.
type Result struct {
	Secret      int
	Valid       bool
	Verdict     string // ✓ VERIFIED / ✗ INVALID
	Message     string
	GuessesMade int
	CommittedAt string
	Honesty     string // Honest ✓ / Cheated ✗
	Winner      string
}

// Screen is everything a front needs to draw the current phase.
type Screen struct {
	Phase   game.Phase
	Heading string
	Lines   []string
	Hints   []string

	// Input prompt for commitment and guessing; empty elsewhere.
	Placeholder string

	// Guessing phase.
	HashPreview   string
	GuessesMade   int
	MaxGuesses    int
	Remaining     int
	Feedback      string
	FeedbackClass game.FeedbackClass
	History       string

	// Backend's own count for the current game, when fetched.
	BackendStatus string

	Result   *Result
	Concepts []game.Concept
	Players  string
	Busy     bool
	Controls []Control
}

// Project builds the screen for s.
func Project(s game.Session) Screen {
	sc := Screen{
		Phase:      s.Phase,
		Busy:       s.Busy,
		MaxGuesses: game.MaxGuesses,
	}
	if s.GameID != "" {
		sc.Players = s.Player1 + " vs " + s.Player2
	}

	switch s.Phase {
	case game.PhaseMenu:
		sc.Heading = "Choose Game Mode"
		sc.Controls = []Control{
			{Action: ActionSingle, Label: "👤 Single Player", Hint: "You vs Computer"},
			{Action: ActionTwo, Label: "👥 Two Player", Hint: "Local Multiplayer"},
			{Action: ActionLearn, Label: "📚 Learn Mode", Hint: "Understand Concepts"},
		}

	case game.PhaseCommitment:
		sc.Heading = "🔒 COMMITMENT PHASE"
		sc.Lines = []string{
			"Your secret number will be encrypted and cryptographically bound.",
			"Your opponent cannot see it during the guessing phase.",
		}
		sc.Hints = []string{"Your number will be encrypted - commit to lock it in!"}
		sc.Placeholder = fmt.Sprintf("Enter secret number (%d-%d)", game.MinNumber, game.MaxNumber)
		sc.Controls = []Control{{Action: ActionCommit, Label: "Commit Secret"}}

	case game.PhaseGuessing:
		sc.Heading = "🎯 GUESSING PHASE"
		if s.Commitment != nil {
			sc.HashPreview = HashPreview(s.Commitment.Hash)
		}
		sc.Hints = []string{"(This proves the secret is locked in encrypted form)"}
		sc.GuessesMade = s.GuessCount()
		sc.Remaining = s.Remaining()
		sc.Feedback = s.Feedback
		if s.Feedback != "" {
			sc.FeedbackClass = game.ClassifyFeedback(s.Feedback)
		}
		sc.History = JoinGuesses(s.Guesses)
		sc.Placeholder = fmt.Sprintf("Make a guess (%d-%d)", game.MinNumber, game.MaxNumber)
		sc.Controls = []Control{{Action: ActionGuess, Label: "Guess"}}

	case game.PhaseReveal:
		sc.Heading = "🔓 REVEAL & VERIFY"
		sc.Lines = []string{"Game over! Time to reveal and verify the commitment."}
		sc.Hints = []string{
			"The encrypted commitment will be decrypted and verified using the cryptographic hash.",
			"✓ If the commitment hash matches the decrypted data, the player was honest!",
		}
		sc.GuessesMade = s.GuessCount()
		sc.Feedback = s.Feedback
		if s.Feedback != "" {
			sc.FeedbackClass = game.ClassifyFeedback(s.Feedback)
		}
		sc.History = JoinGuesses(s.Guesses)
		sc.Controls = []Control{{Action: ActionReveal, Label: "Reveal & Verify Commitment"}}

	case game.PhaseResult:
		sc.Heading = "🏁 GAME RESULT"
		if s.Result != nil {
			sc.Result = projectResult(*s.Result)
		}
		sc.Lines = []string{
			"Your secret was encrypted and stored as a hash. During guessing, this commitment " +
				"stayed sealed. Now it has been decrypted and verified, proving you either were " +
				"honest (if hashes match) or cheated (if they don't).",
			"This is the privacy model at work: data stays encrypted during computation, and is " +
				"only revealed to authorized parties with cryptographic proof.",
		}
		sc.Controls = []Control{{Action: ActionPlayAgain, Label: "Play Again"}}

	case game.PhaseLearn:
		sc.Heading = "📚 Learning Mode"
		sc.Concepts = game.DefaultConcepts()
		sc.Controls = []Control{{Action: ActionBack, Label: "Back to Menu"}}
	}

	if s.Busy {
		for i := range sc.Controls {
			sc.Controls[i].Disabled = true
		}
	}
	return sc
}

func projectResult(r game.RevealResult) *Result {
	out := &Result{
		Secret:      r.SecretNumber,
		Valid:       r.CommitmentValid,
		Verdict:     "✗ INVALID",
		Message:     r.ResultText,
		GuessesMade: r.GuessesMade,
		CommittedAt: FormatTimestamp(r.CommittedAt),
		Honesty:     Honesty(r.CommitmentValid),
		Winner:      r.Winner,
	}
	if r.CommitmentValid {
		out.Verdict = "✓ VERIFIED"
	}
	return out
}

// HashPreview shortens a commitment hash for display.
func HashPreview(hash string) string {
	if len(hash) > hashPreviewLen {
		hash = hash[:hashPreviewLen]
	}
	return hash + "..."
}

// JoinGuesses renders the guess log as "7, 50, 23".
func JoinGuesses(guesses []int) string {
	parts := make([]string, len(guesses))
	for i, g := range guesses {
		parts[i] = strconv.Itoa(g)
	}
	return strings.Join(parts, ", ")
}

// WithStats adds the backend's counters to a guessing screen. Other phases
// and a nil st are returned unchanged.
func (s Screen) WithStats(st *api.StatsResponse) Screen {
	if st == nil || s.Phase != game.PhaseGuessing {
		return s
	}
	s.BackendStatus = fmt.Sprintf("Backend: %d guesses recorded, %d remaining", st.GuessesMade, st.GuessesRemaining)
	return s
}

// Progress renders "Guesses Made: n / 10".
func (s Screen) Progress() string {
	return fmt.Sprintf("Guesses Made: %d / %d", s.GuessesMade, s.MaxGuesses)
}
