// internal/controller/controller.go
//
// GamePhaseController for one player session.
// Responsibilities:
//   - Validate player input before any backend call.
//   - Perform exactly one backend call per game action and apply the outcome
//     as a transition on the immutable game.Session snapshot.
//   - Refuse a second action while one is pending (ErrBusy).
//   - Notify subscribers with every new snapshot.
//
// Notes:
//   - Failed calls never mutate the session; the error goes back to the caller
//     (a *game.ValidationError or *api.RequestError) and is logged.
//   - In-flight calls are not cancelled by the controller; the caller's ctx decides.

package controller

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessreveal/internal/api"
	"github.com/robalobadob/guessreveal/internal/game"
)

var (
	// ErrBusy is returned while a backend call for the session is pending.
	ErrBusy = errors.New("request already in progress")
	// ErrNoGame is returned when an action needs a game id and none is set.
	ErrNoGame = errors.New("no active game")
)

// Backend is the subset of the API client the controller drives.
type Backend interface {
	CreateGame(ctx context.Context, req api.CreateGameRequest) (*api.CreateGameResponse, error)
	Commit(ctx context.Context, gameID string, secret int) (*api.CommitResponse, error)
	Guess(ctx context.Context, gameID string, guess int) (*api.GuessResponse, error)
	Reveal(ctx context.Context, gameID string) (*api.RevealResponse, error)
	Stats(ctx context.Context, gameID string) (*api.StatsResponse, error)
	Concepts(ctx context.Context) ([]game.Concept, error)
}

// Controller owns one session's state machine.
type Controller struct {
	backend Backend

	mu      sync.Mutex // guards state, subs, nextSub
	state   game.Session
	subs    map[int]func(game.Session)
	nextSub int
}

// New returns a controller in the menu phase.
func New(backend Backend) *Controller {
	return &Controller{
		backend: backend,
		state:   game.NewSession(),
		subs:    make(map[int]func(game.Session)),
	}
}

// Snapshot returns a copy of the current session.
func (c *Controller) Snapshot() game.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Subscribe registers fn for every future snapshot. fn runs on the goroutine
// that caused the change and must not call back into the controller
// synchronously. The returned func unsubscribes.
func (c *Controller) Subscribe(fn func(game.Session)) (cancel func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// CreateGame starts a game in mode. Blank names get the mode's defaults;
// single player always plays as "You" against "Computer".
func (c *Controller) CreateGame(ctx context.Context, mode game.Mode, player1, player2 string) error {
	mode, err := game.ParseMode(string(mode))
	if err != nil {
		return err
	}
	p1, p2 := mode.DefaultPlayers()
	if mode == game.ModeTwo {
		if n := strings.TrimSpace(player1); n != "" {
			p1 = n
		}
		if n := strings.TrimSpace(player2); n != "" {
			p2 = n
		}
	}

	if _, err := c.begin(game.PhaseMenu); err != nil {
		return err
	}
	res, err := c.backend.CreateGame(ctx, api.CreateGameRequest{Mode: mode, Player1: p1, Player2: p2})
	if err != nil {
		return c.fail(api.OpCreateGame, err)
	}
	return c.finish(func(s game.Session) (game.Session, error) {
		return s.Created(res.GameID, mode, p1, p2)
	})
}

// CommitSecret validates and commits the secret number.
func (c *Controller) CommitSecret(ctx context.Context, input string) error {
	secret, err := game.ParseNumber(input)
	if err != nil {
		return err
	}
	snap, err := c.begin(game.PhaseCommitment)
	if err != nil {
		return err
	}
	res, err := c.backend.Commit(ctx, snap.GameID, secret)
	if err != nil {
		return c.fail(api.OpCommit, err)
	}
	return c.finish(func(s game.Session) (game.Session, error) {
		return s.Committed(res.CommitmentHash)
	})
}

// MakeGuess validates and submits one guess. The guess count is not checked
// here; the backend ends the game through game_over.
func (c *Controller) MakeGuess(ctx context.Context, input string) error {
	guess, err := game.ParseNumber(input)
	if err != nil {
		return err
	}
	snap, err := c.begin(game.PhaseGuessing)
	if err != nil {
		return err
	}
	res, err := c.backend.Guess(ctx, snap.GameID, guess)
	if err != nil {
		return c.fail(api.OpGuess, err)
	}
	if res.Guess == 0 {
		res.Guess = guess
	}
	return c.finish(func(s game.Session) (game.Session, error) {
		return s.Guessed(res.Guess, res.Feedback, res.GameOver)
	})
}

// RevealAnswer asks the backend to disclose and verify the commitment.
func (c *Controller) RevealAnswer(ctx context.Context) error {
	snap, err := c.begin(game.PhaseReveal)
	if err != nil {
		return err
	}
	res, err := c.backend.Reveal(ctx, snap.GameID)
	if err != nil {
		return c.fail(api.OpReveal, err)
	}
	return c.finish(func(s game.Session) (game.Session, error) {
		return s.Revealed(res.RevealResult())
	})
}

// EnterLearnMode moves from the menu to learn mode. No backend call.
func (c *Controller) EnterLearnMode() error {
	return c.local(func(s game.Session) (game.Session, error) { return s.LearnEntered() })
}

// Reset clears the session back to the menu from result or learn mode.
func (c *Controller) Reset() error {
	return c.local(func(s game.Session) (game.Session, error) { return s.Reset() })
}

// Stats returns the backend's counters for the current game. Read-only.
func (c *Controller) Stats(ctx context.Context) (*api.StatsResponse, error) {
	snap := c.Snapshot()
	if snap.GameID == "" {
		return nil, ErrNoGame
	}
	res, err := c.backend.Stats(ctx, snap.GameID)
	if err != nil {
		log.Warn().Err(err).Str("op", api.OpStats).Str("gameId", snap.GameID).Msg("backend call failed")
		return nil, err
	}
	return res, nil
}

// Concepts returns learn-mode content from the backend, or the built-in
// content when the backend cannot serve it.
func (c *Controller) Concepts(ctx context.Context) []game.Concept {
	concepts, err := c.backend.Concepts(ctx)
	if err != nil || len(concepts) == 0 {
		if err != nil {
			log.Debug().Err(err).Msg("using built-in concepts")
		}
		return game.DefaultConcepts()
	}
	return concepts
}

// begin checks the phase, marks the session busy, and returns the snapshot
// the backend call should use.
func (c *Controller) begin(want game.Phase) (game.Session, error) {
	c.mu.Lock()
	if c.state.Busy {
		c.mu.Unlock()
		return game.Session{}, ErrBusy
	}
	if c.state.Phase != want {
		from := c.state.Phase
		c.mu.Unlock()
		return game.Session{}, &PhaseError{Want: want, Got: from}
	}
	if want != game.PhaseMenu && c.state.GameID == "" {
		c.mu.Unlock()
		return game.Session{}, ErrNoGame
	}
	c.state = c.state.WithBusy(true)
	snap, subs := c.state.Clone(), c.subscribers()
	c.mu.Unlock()

	notify(subs, snap)
	return snap, nil
}

// fail clears the busy flag without touching anything else.
func (c *Controller) fail(op string, err error) error {
	c.mu.Lock()
	gameID := c.state.GameID
	c.state = c.state.WithBusy(false)
	snap, subs := c.state.Clone(), c.subscribers()
	c.mu.Unlock()

	log.Warn().Err(err).Str("op", op).Str("gameId", gameID).Msg("backend call failed")
	notify(subs, snap)
	return err
}

// finish applies the transition for a completed call and clears busy.
func (c *Controller) finish(apply func(game.Session) (game.Session, error)) error {
	c.mu.Lock()
	from := c.state.Phase
	next, err := apply(c.state.WithBusy(false))
	if err != nil {
		c.state = c.state.WithBusy(false)
	} else {
		c.state = next
	}
	snap, subs := c.state.Clone(), c.subscribers()
	c.mu.Unlock()

	if err == nil {
		logTransition(from, snap)
	}
	notify(subs, snap)
	return err
}

// local applies a transition that needs no backend call.
func (c *Controller) local(apply func(game.Session) (game.Session, error)) error {
	c.mu.Lock()
	if c.state.Busy {
		c.mu.Unlock()
		return ErrBusy
	}
	from := c.state.Phase
	next, err := apply(c.state)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = next
	snap, subs := c.state.Clone(), c.subscribers()
	c.mu.Unlock()

	logTransition(from, snap)
	notify(subs, snap)
	return nil
}

// subscribers copies the callback list; c.mu must be held.
func (c *Controller) subscribers() []func(game.Session) {
	out := make([]func(game.Session), 0, len(c.subs))
	for _, fn := range c.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(game.Session), snap game.Session) {
	for _, fn := range subs {
		fn(snap.Clone())
	}
}

func logTransition(from game.Phase, to game.Session) {
	if from == to.Phase {
		return
	}
	log.Debug().
		Str("from", from.String()).
		Str("to", to.Phase.String()).
		Str("gameId", to.GameID).
		Int("guesses", to.GuessCount()).
		Msg("phase transition")
}
