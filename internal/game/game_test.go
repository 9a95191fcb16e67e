package game

import (
	"errors"
	"reflect"
	"strconv"
	"testing"
)

func TestClassifyFeedback(t *testing.T) {
	tests := []struct {
		in   string
		want FeedbackClass
	}{
		{"🎯 CORRECT!", FeedbackExact},
		{"🔥 Very close!", FeedbackHot},
		{"🌡️ Getting warmer", FeedbackWarm},
		{"🧊 Getting colder", FeedbackCold},
		{"❄️ Very cold", FeedbackVeryCold},
		{"", FeedbackVeryCold},
		{"something else entirely", FeedbackVeryCold},
		// several markers present: the first in priority order wins
		{"CORRECT but also Very close", FeedbackExact},
		{"Very close and warmer", FeedbackHot},
		{"colder, then warmer", FeedbackWarm},
		// matching is case-sensitive
		{"correct", FeedbackVeryCold},
	}
	for _, tt := range tests {
		if got := ClassifyFeedback(tt.in); got != tt.want {
			t.Errorf("ClassifyFeedback(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	for n := MinNumber; n <= MaxNumber; n++ {
		got, err := ParseNumber(strconv.Itoa(n))
		if err != nil || got != n {
			t.Fatalf("ParseNumber(%d) = %d, %v", n, got, err)
		}
	}
	if got, err := ParseNumber("  42 "); err != nil || got != 42 {
		t.Errorf("ParseNumber with spaces = %d, %v; want 42", got, err)
	}

	for _, in := range []string{"", "   ", "0", "101", "-5", "abc", "4.5", "1e2"} {
		_, err := ParseNumber(in)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("ParseNumber(%q) err = %v, want *ValidationError", in, err)
			continue
		}
		if verr.Reason != RangeHint {
			t.Errorf("Reason %q, want %q", verr.Reason, RangeHint)
		}
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode(" Single "); err != nil || m != ModeSingle {
		t.Errorf("ParseMode single = %q, %v", m, err)
	}
	if m, err := ParseMode("two"); err != nil || m != ModeTwo {
		t.Errorf("ParseMode two = %q, %v", m, err)
	}
	if _, err := ParseMode("three"); err == nil {
		t.Error("ParseMode should reject unknown modes")
	}
}

func TestPhase_CanTransitionTo(t *testing.T) {
	allowed := map[[2]Phase]bool{
		{PhaseMenu, PhaseCommitment}:     true,
		{PhaseMenu, PhaseLearn}:          true,
		{PhaseCommitment, PhaseGuessing}: true,
		{PhaseGuessing, PhaseReveal}:     true,
		{PhaseReveal, PhaseResult}:       true,
		{PhaseResult, PhaseMenu}:         true,
		{PhaseLearn, PhaseMenu}:          true,
	}
	all := []Phase{PhaseMenu, PhaseCommitment, PhaseGuessing, PhaseReveal, PhaseResult, PhaseLearn}
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]Phase{from, to}]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s → %s = %v, want %v", from, to, got, want)
			}
		}
	}
}

func playedSession(t *testing.T) Session {
	t.Helper()
	s, err := NewSession().Created("g1", ModeSingle, "You", "Computer")
	if err != nil {
		t.Fatalf("Created: %v", err)
	}
	if s, err = s.Committed("abc123"); err != nil {
		t.Fatalf("Committed: %v", err)
	}
	return s
}

func TestSession_FullLifecycle(t *testing.T) {
	s := NewSession()
	if s.Phase != PhaseMenu {
		t.Fatalf("Phase %q, want menu", s.Phase)
	}
	if s.Commitment != nil || s.Result != nil {
		t.Fatal("fresh session should have no commitment or result")
	}

	s, err := s.Created("g1", ModeSingle, "You", "Computer")
	if err != nil {
		t.Fatalf("Created: %v", err)
	}
	if s.Phase != PhaseCommitment || s.GameID != "g1" || s.Mode != ModeSingle {
		t.Fatalf("after create: %+v", s)
	}
	if s.Commitment != nil {
		t.Error("commitment must not exist in commitment phase")
	}

	s, err = s.Committed("deadbeef")
	if err != nil {
		t.Fatalf("Committed: %v", err)
	}
	if s.Phase != PhaseGuessing || s.Commitment == nil || s.Commitment.Hash != "deadbeef" {
		t.Fatalf("after commit: %+v", s)
	}
	if s.Feedback != CommittedFeedback {
		t.Errorf("Feedback %q, want %q", s.Feedback, CommittedFeedback)
	}

	for i, g := range []int{7, 50, 23} {
		s, err = s.Guessed(g, "warmer", false)
		if err != nil {
			t.Fatalf("Guessed #%d: %v", i, err)
		}
	}
	if !reflect.DeepEqual(s.Guesses, []int{7, 50, 23}) {
		t.Errorf("Guesses %v, want [7 50 23]", s.Guesses)
	}
	if s.Phase != PhaseGuessing {
		t.Errorf("Phase %q, want guessing", s.Phase)
	}
	if s.Remaining() != 7 {
		t.Errorf("Remaining %d, want 7", s.Remaining())
	}

	s, err = s.Guessed(42, "🎯 CORRECT!", true)
	if err != nil {
		t.Fatalf("Guessed: %v", err)
	}
	if s.Phase != PhaseReveal {
		t.Fatalf("Phase %q, want reveal", s.Phase)
	}
	if s.Result != nil {
		t.Error("result must not exist before reveal")
	}

	s, err = s.Revealed(RevealResult{SecretNumber: 42, CommitmentValid: true, GuessesMade: 4})
	if err != nil {
		t.Fatalf("Revealed: %v", err)
	}
	if s.Phase != PhaseResult || s.Result == nil || s.Result.SecretNumber != 42 {
		t.Fatalf("after reveal: %+v", s)
	}

	s, err = s.Reset()
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if !reflect.DeepEqual(s, NewSession()) {
		t.Errorf("after reset %+v, want fresh session", s)
	}
}

func TestSession_GameOverOnFirstGuess(t *testing.T) {
	s := playedSession(t)
	s, err := s.Guessed(99, "❄️ Very cold", true)
	if err != nil {
		t.Fatal(err)
	}
	if s.Phase != PhaseReveal {
		t.Errorf("Phase %q, want reveal regardless of guess count", s.Phase)
	}
}

func TestSession_TransitionsDoNotMutateReceiver(t *testing.T) {
	s := playedSession(t)
	s1, _ := s.Guessed(10, "colder", false)
	_, _ = s1.Guessed(20, "warmer", false)
	if len(s1.Guesses) != 1 {
		t.Errorf("s1 mutated: %v", s1.Guesses)
	}
	if len(s.Guesses) != 0 {
		t.Errorf("original mutated: %v", s.Guesses)
	}

	c := s1.Clone()
	c.Guesses[0] = 99
	c.Commitment.Hash = "changed"
	if s1.Guesses[0] != 10 || s1.Commitment.Hash != "abc123" {
		t.Error("Clone shares state with its source")
	}
}

func TestSession_WrongPhase(t *testing.T) {
	fresh := NewSession()
	checks := []struct {
		name string
		fn   func() (Session, error)
	}{
		{"commit from menu", func() (Session, error) { return fresh.Committed("h") }},
		{"guess from menu", func() (Session, error) { return fresh.Guessed(1, "", false) }},
		{"reveal from menu", func() (Session, error) { return fresh.Revealed(RevealResult{}) }},
		{"reset from menu", func() (Session, error) { return fresh.Reset() }},
		{"reset mid-game", func() (Session, error) { return playedSession(t).Reset() }},
		{"learn mid-game", func() (Session, error) { return playedSession(t).LearnEntered() }},
		{"create mid-game", func() (Session, error) { return playedSession(t).Created("g2", ModeTwo, "a", "b") }},
	}
	for _, c := range checks {
		_, err := c.fn()
		if !errors.Is(err, ErrWrongPhase) {
			t.Errorf("%s: err = %v, want ErrWrongPhase", c.name, err)
		}
	}
}

func TestSession_LearnRoundTrip(t *testing.T) {
	s, err := NewSession().LearnEntered()
	if err != nil || s.Phase != PhaseLearn {
		t.Fatalf("LearnEntered = %q, %v", s.Phase, err)
	}
	s, err = s.Reset()
	if err != nil || s.Phase != PhaseMenu {
		t.Fatalf("Reset from learn = %q, %v", s.Phase, err)
	}
}

func TestMode_DefaultPlayers(t *testing.T) {
	if a, b := ModeSingle.DefaultPlayers(); a != "You" || b != "Computer" {
		t.Errorf("single defaults %q/%q", a, b)
	}
	if a, b := ModeTwo.DefaultPlayers(); a != "Player 1" || b != "Player 2" {
		t.Errorf("two defaults %q/%q", a, b)
	}
}
