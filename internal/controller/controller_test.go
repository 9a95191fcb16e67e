package controller

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"sync"
	"testing"

	"github.com/robalobadob/guessreveal/internal/api"
	"github.com/robalobadob/guessreveal/internal/game"
)

// stubBackend answers from scripted funcs and counts calls.
type stubBackend struct {
	mu    sync.Mutex
	calls map[string]int

	create   func(api.CreateGameRequest) (*api.CreateGameResponse, error)
	commit   func(id string, secret int) (*api.CommitResponse, error)
	guess    func(id string, g int) (*api.GuessResponse, error)
	reveal   func(id string) (*api.RevealResponse, error)
	stats    func(id string) (*api.StatsResponse, error)
	concepts func() ([]game.Concept, error)
}

func newStub() *stubBackend {
	return &stubBackend{
		calls: make(map[string]int),
		create: func(req api.CreateGameRequest) (*api.CreateGameResponse, error) {
			return &api.CreateGameResponse{Envelope: api.Envelope{Success: true}, GameID: "g1", Mode: req.Mode}, nil
		},
		commit: func(id string, secret int) (*api.CommitResponse, error) {
			return &api.CommitResponse{Envelope: api.Envelope{Success: true}, CommitmentHash: "hash-" + strconv.Itoa(secret)}, nil
		},
		guess: func(id string, g int) (*api.GuessResponse, error) {
			return &api.GuessResponse{Envelope: api.Envelope{Success: true}, Guess: g, Feedback: "❄️ Very cold"}, nil
		},
		reveal: func(id string) (*api.RevealResponse, error) {
			return &api.RevealResponse{Envelope: api.Envelope{Success: true}, SecretNumber: 42, CommitmentValid: true, GuessesMade: 3, Result: "✗ Not found in 3 guesses. Secret was 42", Timestamp: "2025-01-02T03:04:05.000000"}, nil
		},
		stats: func(id string) (*api.StatsResponse, error) {
			return &api.StatsResponse{Envelope: api.Envelope{Success: true}, Phase: "guessing", GuessesMade: 1}, nil
		},
		concepts: func() ([]game.Concept, error) { return nil, errors.New("offline") },
	}
}

func (s *stubBackend) count(op string) {
	s.mu.Lock()
	s.calls[op]++
	s.mu.Unlock()
}

func (s *stubBackend) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *stubBackend) CreateGame(_ context.Context, req api.CreateGameRequest) (*api.CreateGameResponse, error) {
	s.count(api.OpCreateGame)
	return s.create(req)
}
func (s *stubBackend) Commit(_ context.Context, id string, secret int) (*api.CommitResponse, error) {
	s.count(api.OpCommit)
	return s.commit(id, secret)
}
func (s *stubBackend) Guess(_ context.Context, id string, g int) (*api.GuessResponse, error) {
	s.count(api.OpGuess)
	return s.guess(id, g)
}
func (s *stubBackend) Reveal(_ context.Context, id string) (*api.RevealResponse, error) {
	s.count(api.OpReveal)
	return s.reveal(id)
}
func (s *stubBackend) Stats(_ context.Context, id string) (*api.StatsResponse, error) {
	s.count(api.OpStats)
	return s.stats(id)
}
func (s *stubBackend) Concepts(_ context.Context) ([]game.Concept, error) {
	s.count(api.OpConcepts)
	return s.concepts()
}

func mustGuessing(t *testing.T, c *Controller) {
	t.Helper()
	ctx := context.Background()
	if err := c.CreateGame(ctx, game.ModeSingle, "", ""); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if err := c.CommitSecret(ctx, "42"); err != nil {
		t.Fatalf("CommitSecret: %v", err)
	}
}

func TestController_Scenario(t *testing.T) {
	stub := newStub()
	script := map[int]*api.GuessResponse{
		10: {Envelope: api.Envelope{Success: true}, Guess: 10, Feedback: "🧊 Getting colder"},
		60: {Envelope: api.Envelope{Success: true}, Guess: 60, Feedback: "🔥 Very close!"},
		55: {Envelope: api.Envelope{Success: true}, Guess: 55, Feedback: "🔥 Very close!", GameOver: true},
	}
	stub.guess = func(id string, g int) (*api.GuessResponse, error) { return script[g], nil }

	c := New(stub)
	ctx := context.Background()

	if err := c.CreateGame(ctx, game.ModeSingle, "ignored", "ignored"); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	s := c.Snapshot()
	if s.Phase != game.PhaseCommitment || s.GameID != "g1" || s.Player1 != "You" || s.Player2 != "Computer" {
		t.Fatalf("after create %+v", s)
	}

	if err := c.CommitSecret(ctx, "42"); err != nil {
		t.Fatalf("CommitSecret: %v", err)
	}
	s = c.Snapshot()
	if s.Phase != game.PhaseGuessing || s.Commitment.Hash != "hash-42" {
		t.Fatalf("after commit %+v", s)
	}

	wantClass := []game.FeedbackClass{game.FeedbackCold, game.FeedbackHot}
	for i, g := range []string{"10", "60"} {
		if err := c.MakeGuess(ctx, g); err != nil {
			t.Fatalf("MakeGuess(%s): %v", g, err)
		}
		if got := game.ClassifyFeedback(c.Snapshot().Feedback); got != wantClass[i] {
			t.Errorf("feedback class %q, want %q", got, wantClass[i])
		}
	}
	if err := c.MakeGuess(ctx, "55"); err != nil {
		t.Fatalf("MakeGuess(55): %v", err)
	}
	s = c.Snapshot()
	if s.Phase != game.PhaseReveal {
		t.Fatalf("Phase %q, want reveal", s.Phase)
	}
	if !reflect.DeepEqual(s.Guesses, []int{10, 60, 55}) {
		t.Errorf("Guesses %v, want [10 60 55]", s.Guesses)
	}

	if err := c.RevealAnswer(ctx); err != nil {
		t.Fatalf("RevealAnswer: %v", err)
	}
	s = c.Snapshot()
	if s.Phase != game.PhaseResult || s.Result == nil {
		t.Fatalf("after reveal %+v", s)
	}
	if s.Result.SecretNumber != 42 || !s.Result.CommitmentValid || s.Result.GuessesMade != 3 {
		t.Errorf("Result %+v", s.Result)
	}

	if err := c.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if got := c.Snapshot(); !reflect.DeepEqual(got, game.NewSession()) {
		t.Errorf("after reset %+v", got)
	}
}

func TestController_CommitRecordsHashUnchanged(t *testing.T) {
	for n := game.MinNumber; n <= game.MaxNumber; n++ {
		c := New(newStub())
		if err := c.CreateGame(context.Background(), game.ModeSingle, "", ""); err != nil {
			t.Fatal(err)
		}
		if err := c.CommitSecret(context.Background(), strconv.Itoa(n)); err != nil {
			t.Fatalf("CommitSecret(%d): %v", n, err)
		}
		s := c.Snapshot()
		if s.Phase != game.PhaseGuessing || s.Commitment.Hash != "hash-"+strconv.Itoa(n) {
			t.Fatalf("commit %d: %+v", n, s)
		}
	}
}

func TestController_InvalidInputNeverCallsBackend(t *testing.T) {
	stub := newStub()
	c := New(stub)
	ctx := context.Background()
	if err := c.CreateGame(ctx, game.ModeSingle, "", ""); err != nil {
		t.Fatal(err)
	}

	bad := []string{"", " ", "0", "101", "-1", "abc", "3.5"}
	before := c.Snapshot()
	for _, in := range bad {
		err := c.CommitSecret(ctx, in)
		var verr *game.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("CommitSecret(%q) err = %v, want ValidationError", in, err)
		}
	}
	if !reflect.DeepEqual(c.Snapshot(), before) {
		t.Error("invalid commit mutated the session")
	}
	if stub.Calls(api.OpCommit) != 0 {
		t.Errorf("commit calls %d, want 0", stub.Calls(api.OpCommit))
	}

	if err := c.CommitSecret(ctx, "50"); err != nil {
		t.Fatal(err)
	}
	before = c.Snapshot()
	for _, in := range bad {
		if err := c.MakeGuess(ctx, in); err == nil {
			t.Errorf("MakeGuess(%q) accepted", in)
		}
	}
	if !reflect.DeepEqual(c.Snapshot(), before) {
		t.Error("invalid guess mutated the session")
	}
	if stub.Calls(api.OpGuess) != 0 {
		t.Errorf("guess calls %d, want 0", stub.Calls(api.OpGuess))
	}
}

func TestController_RequestErrorsLeaveStateUntouched(t *testing.T) {
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		stub := newStub()
		stub.create = func(api.CreateGameRequest) (*api.CreateGameResponse, error) {
			return nil, &api.RequestError{Op: api.OpCreateGame, Status: 500}
		}
		c := New(stub)
		err := c.CreateGame(ctx, game.ModeTwo, "a", "b")
		var rerr *api.RequestError
		if !errors.As(err, &rerr) {
			t.Fatalf("err = %v", err)
		}
		if !reflect.DeepEqual(c.Snapshot(), game.NewSession()) {
			t.Errorf("session changed: %+v", c.Snapshot())
		}
	})

	t.Run("commit success false", func(t *testing.T) {
		stub := newStub()
		stub.commit = func(string, int) (*api.CommitResponse, error) {
			return nil, &api.RequestError{Op: api.OpCommit, Status: 200}
		}
		c := New(stub)
		if err := c.CreateGame(ctx, game.ModeSingle, "", ""); err != nil {
			t.Fatal(err)
		}
		before := c.Snapshot()
		if err := c.CommitSecret(ctx, "42"); err == nil {
			t.Fatal("CommitSecret should surface the failure")
		}
		if !reflect.DeepEqual(c.Snapshot(), before) {
			t.Errorf("session changed: %+v", c.Snapshot())
		}
	})

	t.Run("guess", func(t *testing.T) {
		stub := newStub()
		stub.guess = func(string, int) (*api.GuessResponse, error) {
			return nil, &api.RequestError{Op: api.OpGuess, Status: 400, Message: "Game is not in guessing phase"}
		}
		c := New(stub)
		mustGuessing(t, c)
		before := c.Snapshot()
		err := c.MakeGuess(ctx, "10")
		var rerr *api.RequestError
		if !errors.As(err, &rerr) || rerr.Message != "Game is not in guessing phase" {
			t.Fatalf("err = %v", err)
		}
		if !reflect.DeepEqual(c.Snapshot(), before) {
			t.Errorf("session changed: %+v", c.Snapshot())
		}
	})

	t.Run("reveal", func(t *testing.T) {
		stub := newStub()
		stub.guess = func(id string, g int) (*api.GuessResponse, error) {
			return &api.GuessResponse{Envelope: api.Envelope{Success: true}, Guess: g, GameOver: true}, nil
		}
		stub.reveal = func(string) (*api.RevealResponse, error) {
			return nil, &api.RequestError{Op: api.OpReveal}
		}
		c := New(stub)
		mustGuessing(t, c)
		if err := c.MakeGuess(ctx, "1"); err != nil {
			t.Fatal(err)
		}
		if err := c.RevealAnswer(ctx); err == nil {
			t.Fatal("RevealAnswer should fail")
		}
		s := c.Snapshot()
		if s.Phase != game.PhaseReveal || s.Result != nil || s.Busy {
			t.Errorf("after failed reveal %+v", s)
		}
	})
}

func TestController_GameOverAlwaysReveals(t *testing.T) {
	stub := newStub()
	stub.guess = func(id string, g int) (*api.GuessResponse, error) {
		return &api.GuessResponse{Envelope: api.Envelope{Success: true}, Guess: g, Feedback: "❄️ Very cold", GameOver: true}, nil
	}
	c := New(stub)
	mustGuessing(t, c)
	if err := c.MakeGuess(context.Background(), "99"); err != nil {
		t.Fatal(err)
	}
	if s := c.Snapshot(); s.Phase != game.PhaseReveal || s.GuessCount() != 1 {
		t.Errorf("after game over %+v", s)
	}
}

func TestController_NoSelfEnforcedCap(t *testing.T) {
	c := New(newStub())
	mustGuessing(t, c)
	for i := 1; i <= 12; i++ {
		if err := c.MakeGuess(context.Background(), strconv.Itoa(i)); err != nil {
			t.Fatalf("guess %d: %v", i, err)
		}
	}
	s := c.Snapshot()
	if s.Phase != game.PhaseGuessing || s.GuessCount() != 12 || s.Remaining() != 0 {
		t.Errorf("Phase %q, count %d, remaining %d", s.Phase, s.GuessCount(), s.Remaining())
	}
}

func TestController_WrongPhase(t *testing.T) {
	c := New(newStub())
	ctx := context.Background()

	err := c.CommitSecret(ctx, "10")
	var perr *PhaseError
	if !errors.As(err, &perr) || perr.Want != game.PhaseCommitment || perr.Got != game.PhaseMenu {
		t.Errorf("CommitSecret from menu err = %v", err)
	}
	if !errors.Is(err, game.ErrWrongPhase) {
		t.Error("PhaseError should match game.ErrWrongPhase")
	}
	if err := c.RevealAnswer(ctx); !errors.Is(err, game.ErrWrongPhase) {
		t.Errorf("RevealAnswer from menu err = %v", err)
	}
	if err := c.Reset(); !errors.Is(err, game.ErrWrongPhase) {
		t.Errorf("Reset from menu err = %v", err)
	}

	mustGuessing(t, c)
	if err := c.CreateGame(ctx, game.ModeSingle, "", ""); !errors.Is(err, game.ErrWrongPhase) {
		t.Errorf("CreateGame mid-game err = %v", err)
	}
	if err := c.EnterLearnMode(); !errors.Is(err, game.ErrWrongPhase) {
		t.Errorf("EnterLearnMode mid-game err = %v", err)
	}
}

func TestController_InvalidMode(t *testing.T) {
	stub := newStub()
	c := New(stub)
	var verr *game.ValidationError
	if err := c.CreateGame(context.Background(), game.Mode("solo"), "", ""); !errors.As(err, &verr) {
		t.Errorf("err = %v, want ValidationError", err)
	}
	if stub.Calls(api.OpCreateGame) != 0 {
		t.Error("invalid mode reached the backend")
	}
}

func TestController_TwoPlayerNames(t *testing.T) {
	stub := newStub()
	var got api.CreateGameRequest
	stub.create = func(req api.CreateGameRequest) (*api.CreateGameResponse, error) {
		got = req
		return &api.CreateGameResponse{Envelope: api.Envelope{Success: true}, GameID: "g2"}, nil
	}
	c := New(stub)
	if err := c.CreateGame(context.Background(), game.ModeTwo, " Ada ", ""); err != nil {
		t.Fatal(err)
	}
	if got.Player1 != "Ada" || got.Player2 != "Player 2" || got.Mode != game.ModeTwo {
		t.Errorf("request %+v", got)
	}
	if s := c.Snapshot(); s.Player1 != "Ada" || s.Mode != game.ModeTwo {
		t.Errorf("snapshot %+v", s)
	}
}

func TestController_ModeIsNormalized(t *testing.T) {
	tests := []struct {
		in     game.Mode
		want   game.Mode
		p1, p2 string
	}{
		{"TWO", game.ModeTwo, "Ann", "Bob"},
		{" Two ", game.ModeTwo, "Ann", "Bob"},
		{" single ", game.ModeSingle, "You", "Computer"},
	}
	for _, tt := range tests {
		stub := newStub()
		var sent api.CreateGameRequest
		stub.create = func(req api.CreateGameRequest) (*api.CreateGameResponse, error) {
			sent = req
			return &api.CreateGameResponse{Envelope: api.Envelope{Success: true}, GameID: "g3"}, nil
		}
		c := New(stub)
		if err := c.CreateGame(context.Background(), tt.in, "Ann", "Bob"); err != nil {
			t.Fatalf("CreateGame(%q): %v", tt.in, err)
		}
		if sent.Mode != tt.want {
			t.Errorf("CreateGame(%q) sent mode %q, want %q", tt.in, sent.Mode, tt.want)
		}
		s := c.Snapshot()
		if s.Mode != tt.want || s.Player1 != tt.p1 || s.Player2 != tt.p2 {
			t.Errorf("CreateGame(%q) stored mode %q players %q/%q, want %q %q/%q",
				tt.in, s.Mode, s.Player1, s.Player2, tt.want, tt.p1, tt.p2)
		}
	}
}

func TestController_BusyRejectsSecondAction(t *testing.T) {
	stub := newStub()
	entered := make(chan struct{})
	release := make(chan struct{})
	stub.guess = func(id string, g int) (*api.GuessResponse, error) {
		close(entered)
		<-release
		return &api.GuessResponse{Envelope: api.Envelope{Success: true}, Guess: g, Feedback: "🌡️ Getting warmer"}, nil
	}
	c := New(stub)
	mustGuessing(t, c)

	done := make(chan error, 1)
	go func() { done <- c.MakeGuess(context.Background(), "30") }()
	<-entered

	if !c.Snapshot().Busy {
		t.Error("session should be busy while the call is pending")
	}
	if err := c.MakeGuess(context.Background(), "31"); !errors.Is(err, ErrBusy) {
		t.Errorf("second guess err = %v, want ErrBusy", err)
	}
	if err := c.Reset(); !errors.Is(err, ErrBusy) {
		t.Errorf("Reset while busy err = %v, want ErrBusy", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first guess: %v", err)
	}
	s := c.Snapshot()
	if s.Busy || !reflect.DeepEqual(s.Guesses, []int{30}) {
		t.Errorf("after release %+v", s)
	}
	if stub.Calls(api.OpGuess) != 1 {
		t.Errorf("guess calls %d, want 1", stub.Calls(api.OpGuess))
	}
}

func TestController_Subscribe(t *testing.T) {
	c := New(newStub())
	var mu sync.Mutex
	var seen []game.Session
	cancel := c.Subscribe(func(s game.Session) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})

	if err := c.CreateGame(context.Background(), game.ModeSingle, "", ""); err != nil {
		t.Fatal(err)
	}
	mu.Lock()
	if len(seen) != 2 || !seen[0].Busy || seen[0].Phase != game.PhaseMenu || seen[1].Busy || seen[1].Phase != game.PhaseCommitment {
		t.Errorf("snapshots %+v", seen)
	}
	mu.Unlock()

	cancel()
	if err := c.CommitSecret(context.Background(), "5"); err != nil {
		t.Fatal(err)
	}
	mu.Lock()
	if len(seen) != 2 {
		t.Errorf("got %d snapshots after cancel, want 2", len(seen))
	}
	mu.Unlock()
}

func TestController_LearnMode(t *testing.T) {
	stub := newStub()
	c := New(stub)
	if err := c.EnterLearnMode(); err != nil {
		t.Fatal(err)
	}
	if c.Snapshot().Phase != game.PhaseLearn {
		t.Fatalf("Phase %q, want learn", c.Snapshot().Phase)
	}
	concepts := c.Concepts(context.Background())
	if len(concepts) != 3 {
		t.Errorf("fallback concepts %d, want 3", len(concepts))
	}
	if err := c.Reset(); err != nil {
		t.Fatal(err)
	}
	if c.Snapshot().Phase != game.PhaseMenu {
		t.Error("Reset from learn should return to menu")
	}
	for _, op := range []string{api.OpCreateGame, api.OpCommit, api.OpGuess, api.OpReveal} {
		if n := stub.Calls(op); n != 0 {
			t.Errorf("%s calls %d, want 0", op, n)
		}
	}
}

func TestController_Stats(t *testing.T) {
	c := New(newStub())
	if _, err := c.Stats(context.Background()); !errors.Is(err, ErrNoGame) {
		t.Errorf("Stats without game err = %v", err)
	}
	mustGuessing(t, c)
	st, err := c.Stats(context.Background())
	if err != nil || st.GuessesMade != 1 {
		t.Errorf("Stats = %+v, %v", st, err)
	}
}
