// internal/httpserver/server.go
//
// HTTP server wiring for the browser front.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts).
//   - Public endpoints: "/health", "/history".
//   - Game endpoints (session cookie required, issued on first visit): mounted by mountGame.
//   - Session lookup/creation and the idle-session sweeper.
//
// Notes:
//   - Every browser session owns one controller; the controllers share one backend client.
//   - Game state never leaves memory. The history log only sees finished games.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessreveal/internal/controller"
	"github.com/robalobadob/guessreveal/internal/history"
	"github.com/robalobadob/guessreveal/internal/httpserver/components"
	"github.com/robalobadob/guessreveal/internal/store"
)

// Options configures New.
type Options struct {
	Backend  controller.Backend
	Sessions store.Store
	History  *history.Store // nil disables /history and recording
	Secret   string
	TTL      time.Duration
	Secure   bool
}

// Server bundles router, session store, and history log.
type Server struct {
	r        *chi.Mux
	backend  controller.Backend
	sessions store.Store
	history  *history.Store
	cookies  *sessionCookies
	ttl      time.Duration
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) (*Server, error) {
	if opts.Backend == nil || opts.Sessions == nil {
		return nil, errors.New("httpserver: backend and sessions are required")
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	cookies, err := newSessionCookies(opts.Secret, opts.TTL, opts.Secure)
	if err != nil {
		return nil, err
	}
	s := &Server{
		r:        chi.NewRouter(),
		backend:  opts.Backend,
		sessions: opts.Sessions,
		history:  opts.History,
		cookies:  cookies,
		ttl:      opts.TTL,
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(30 * time.Second))

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	})
	s.r.Get("/history", s.handleHistory)

	s.mountGame(s.r.With(s.withSession))

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found: "+r.URL.Path, http.StatusNotFound)
	})
	return s, nil
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler { return s.r }

// SweepEvery drops idle sessions on each tick until ctx is done.
func (s *Server) SweepEvery(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.sessions.Sweep(ctx, s.ttl); n > 0 {
				log.Info().Int("sessions", n).Msg("swept idle sessions")
			}
		}
	}
}

// ------------------------------ sessions -----------------------------------

type ctxSessionKey struct{}

// withSession resolves the browser's session from its cookie, creating a new
// one (and cookie) when missing, invalid, or expired from the store.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var sess *store.Session
		if sid, ok := s.cookies.read(r); ok {
			if found, err := s.sessions.Get(ctx, sid); err == nil {
				sess = found
			}
		}
		if sess == nil {
			sess = store.NewSession(uuid.NewString(), controller.New(s.backend))
			if err := s.sessions.Save(ctx, sess); err != nil {
				log.Error().Err(err).Msg("save session")
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}
			if err := s.cookies.issue(w, sess.ID); err != nil {
				log.Error().Err(err).Msg("sign session cookie")
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}
			log.Debug().Str("session", sess.ID).Str("request_id", chimw.GetReqID(ctx)).Msg("new session")
		}
		sess.Touch()
		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, ctxSessionKey{}, sess)))
	})
}

func sessionFrom(r *http.Request) *store.Session {
	sess, _ := r.Context().Value(ctxSessionKey{}).(*store.Session)
	return sess
}

// ------------------------------ history ------------------------------------

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, "history is disabled", http.StatusNotFound)
		return
	}
	entries, err := s.history.Recent(r.Context(), history.DefaultLimit)
	if err != nil {
		log.Error().Err(err).Msg("load history")
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}
	render(w, r, components.HistoryPage(entries))
}
