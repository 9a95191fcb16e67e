// internal/httpserver/routes_game.go
//
// Form routes driving one session's controller.
//   - GET  /        → current screen (plus any pending alert)
//   - POST /game    → start a game (mode, player1, player2)
//   - POST /commit  → commit the secret
//   - POST /guess   → submit a guess
//   - POST /reveal  → reveal and verify; finished games go to the history log
//   - POST /learn   → open learn mode
//   - POST /reset   → back to the menu
//
// Posts redirect back to / (303). Failures are carried to that page as a
// one-shot alert, except a busy controller, which answers 409 directly.
// Backend calls outlive the request: a browser that disconnects mid-call does
// not abort them, the api client timeout is their only limit.

package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessreveal/internal/controller"
	"github.com/robalobadob/guessreveal/internal/game"
	"github.com/robalobadob/guessreveal/internal/history"
	"github.com/robalobadob/guessreveal/internal/httpserver/components"
	"github.com/robalobadob/guessreveal/internal/view"
)

// mountGame registers the session-bound routes.
func (s *Server) mountGame(r chi.Router) {
	r.Get("/", s.handleIndex)
	r.Post("/game", s.action(func(ctx context.Context, c *controller.Controller, r *http.Request) error {
		mode, err := game.ParseMode(r.FormValue("mode"))
		if err != nil {
			return err
		}
		return c.CreateGame(ctx, mode, r.FormValue("player1"), r.FormValue("player2"))
	}))
	r.Post("/commit", s.action(func(ctx context.Context, c *controller.Controller, r *http.Request) error {
		return c.CommitSecret(ctx, r.FormValue("secret"))
	}))
	r.Post("/guess", s.action(func(ctx context.Context, c *controller.Controller, r *http.Request) error {
		return c.MakeGuess(ctx, r.FormValue("guess"))
	}))
	r.Post("/reveal", s.action(func(ctx context.Context, c *controller.Controller, r *http.Request) error {
		if err := c.RevealAnswer(ctx); err != nil {
			return err
		}
		s.record(ctx, c.Snapshot())
		return nil
	}))
	r.Post("/learn", s.action(func(ctx context.Context, c *controller.Controller, r *http.Request) error {
		return c.EnterLearnMode()
	}))
	r.Post("/reset", s.action(func(ctx context.Context, c *controller.Controller, r *http.Request) error {
		return c.Reset()
	}))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	render(w, r, components.GamePage(s.screen(r.Context(), sess.Controller), sess.TakeFlash(), s.history != nil))
}

// screen projects the controller, filling learn content and the guessing
// counters from the backend. A failed stats call only leaves the line out.
func (s *Server) screen(ctx context.Context, c *controller.Controller) view.Screen {
	snap := c.Snapshot()
	sc := view.Project(snap)
	switch {
	case snap.Phase == game.PhaseLearn:
		sc.Concepts = c.Concepts(ctx)
	case snap.Phase == game.PhaseGuessing && !snap.Busy:
		if st, err := c.Stats(ctx); err == nil {
			sc = sc.WithStats(st)
		}
	}
	return sc
}

type actionFunc func(ctx context.Context, c *controller.Controller, r *http.Request) error

// action runs fn against the session's controller and redirects home.
func (s *Server) action(fn actionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		err := fn(context.WithoutCancel(r.Context()), sess.Controller, r)
		if errors.Is(err, controller.ErrBusy) {
			renderStatus(w, r, http.StatusConflict,
				components.GamePage(s.screen(r.Context(), sess.Controller), view.Alert(err), s.history != nil))
			return
		}
		if err != nil {
			log.Debug().Err(err).Str("session", sess.ID).Str("path", r.URL.Path).Msg("action failed")
			sess.SetFlash(view.Alert(err))
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// record logs a revealed game. Failures are logged and otherwise ignored.
func (s *Server) record(ctx context.Context, snap game.Session) {
	if s.history == nil {
		return
	}
	e, err := history.EntryFromSession(snap)
	if err != nil {
		log.Warn().Err(err).Msg("history entry")
		return
	}
	if err := s.history.Record(ctx, e); err != nil {
		log.Warn().Err(err).Str("game_id", e.GameID).Msg("record history")
		return
	}
	log.Info().Str("game_id", e.GameID).Bool("valid", e.CommitmentValid).Int("guesses", e.GuessesMade).Msg("game recorded")
}
