// Package apitest runs an in-memory stand-in for the commit/reveal game
// backend so clients can be exercised without the real service.
//
// It follows the same wire contract (paths, snake_case JSON, success/error
// envelope, 4xx on bad input) and the same hot/cold thresholds. Commitment
// hashing is a plain SHA-256 over the committed record; it only needs to be
// stable, not secure.
package apitest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/guessreveal/internal/game"
)

// Endpoint names accepted by FailNext, Hold and Calls.
const (
	EndpointCreate   = "create"
	EndpointCommit   = "commit"
	EndpointGuess    = "guess"
	EndpointReveal   = "reveal"
	EndpointStats    = "stats"
	EndpointConcepts = "concepts"
	EndpointHealth   = "health"
)

type fakeGame struct {
	mode        string
	player1     string
	player2     string
	secret      int
	hash        string
	committedAt time.Time
	guesses     []int
	over        bool
	winner      string
}

type failure struct {
	status int
	body   string
}

type hold struct {
	entered chan struct{}
	release chan struct{}
}

// Backend is the fake service state. The zero value is not usable; call New.
type Backend struct {
	mu       sync.Mutex
	games    map[string]*fakeGame
	seq      int
	calls    map[string]int
	failures map[string]failure
	holds    map[string]*hold
	r        *chi.Mux
}

// New builds a Backend with its routes registered.
func New() *Backend {
	b := &Backend{
		games:    make(map[string]*fakeGame),
		calls:    make(map[string]int),
		failures: make(map[string]failure),
		holds:    make(map[string]*hold),
		r:        chi.NewRouter(),
	}
	b.r.Get("/api/health", b.endpoint(EndpointHealth, b.handleHealth))
	b.r.Get("/api/concepts", b.endpoint(EndpointConcepts, b.handleConcepts))
	b.r.Post("/api/game/create", b.endpoint(EndpointCreate, b.handleCreate))
	b.r.Route("/api/game/{id}", func(r chi.Router) {
		r.Post("/commit", b.endpoint(EndpointCommit, b.handleCommit))
		r.Post("/guess", b.endpoint(EndpointGuess, b.handleGuess))
		r.Post("/reveal", b.endpoint(EndpointReveal, b.handleReveal))
		r.Get("/stats", b.endpoint(EndpointStats, b.handleStats))
	})
	return b
}

// Start serves a new Backend on an httptest server closed at test cleanup.
func Start(t testing.TB) (*Backend, *httptest.Server) {
	t.Helper()
	b := New()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) { b.r.ServeHTTP(w, r) }

// FailNext makes the next call to endpoint answer with status and a raw body.
func (b *Backend) FailNext(endpoint string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[endpoint] = failure{status: status, body: body}
}

// Hold blocks the next call to endpoint until release is called. entered is
// closed once that call has arrived.
func (b *Backend) Hold(endpoint string) (entered <-chan struct{}, release func()) {
	h := &hold{entered: make(chan struct{}), release: make(chan struct{})}
	b.mu.Lock()
	b.holds[endpoint] = h
	b.mu.Unlock()
	var once sync.Once
	return h.entered, func() { once.Do(func() { close(h.release) }) }
}

// Calls reports how many requests endpoint has received.
func (b *Backend) Calls(endpoint string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[endpoint]
}

// Secret returns the committed secret of a game, for assertions.
func (b *Backend) Secret(gameID string) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	g, ok := b.games[gameID]
	if !ok || g.hash == "" {
		return 0, false
	}
	return g.secret, true
}

func (b *Backend) endpoint(name string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls[name]++
		f, failing := b.failures[name]
		delete(b.failures, name)
		h := b.holds[name]
		delete(b.holds, name)
		b.mu.Unlock()

		if h != nil {
			close(h.entered)
			<-h.release
		}
		if failing {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func (b *Backend) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Game API is running"})
}

func (b *Backend) handleConcepts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"concepts": game.DefaultConcepts()})
}

func (b *Backend) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode    string `json:"mode"`
		Player1 string `json:"player1"`
		Player2 string `json:"player2"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Mode == "" {
		req.Mode = "single"
	}
	if req.Player1 == "" {
		req.Player1 = "Player 1"
	}
	if req.Player2 == "" {
		req.Player2 = "Computer"
		if req.Mode != "single" {
			req.Player2 = "Player 2"
		}
	}

	b.mu.Lock()
	b.seq++
	id := fmt.Sprintf("game-%d", b.seq)
	b.games[id] = &fakeGame{mode: req.Mode, player1: req.Player1, player2: req.Player2}
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":     true,
		"game_id":     id,
		"mode":        req.Mode,
		"player1":     req.Player1,
		"player2":     req.Player2,
		"min":         game.MinNumber,
		"max":         game.MaxNumber,
		"max_guesses": game.MaxGuesses,
	})
}

// lookup returns the game with the lock held; callers must unlock.
func (b *Backend) lookup(w http.ResponseWriter, r *http.Request) (*fakeGame, bool) {
	b.mu.Lock()
	g, ok := b.games[chi.URLParam(r, "id")]
	if !ok {
		b.mu.Unlock()
		writeErr(w, http.StatusNotFound, "Game not found")
		return nil, false
	}
	return g, true
}

func (b *Backend) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Secret *int `json:"secret"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	g, ok := b.lookup(w, r)
	if !ok {
		return
	}
	defer b.mu.Unlock()
	if req.Secret == nil || *req.Secret < game.MinNumber || *req.Secret > game.MaxNumber {
		writeErr(w, http.StatusBadRequest, "Invalid number")
		return
	}
	g.secret = *req.Secret
	g.committedAt = time.Now()
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s", g.player1, g.secret, g.committedAt.Format(time.RFC3339Nano))))
	g.hash = hex.EncodeToString(sum[:])

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"commitment_hash": g.hash,
		"message":         "Secret number committed and encrypted",
	})
}

// feedbackFor grades a guess by its distance to the secret.
func feedbackFor(guess, secret int) string {
	d := guess - secret
	if d < 0 {
		d = -d
	}
	switch {
	case d == 0:
		return "🎯 CORRECT!"
	case d <= 5:
		return "🔥 Very close!"
	case d <= 15:
		return "🌡️ Getting warmer"
	case d <= 30:
		return "🧊 Getting colder"
	}
	return "❄️ Very cold"
}

func (b *Backend) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Guess *int `json:"guess"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	g, ok := b.lookup(w, r)
	if !ok {
		return
	}
	defer b.mu.Unlock()
	if req.Guess == nil {
		writeErr(w, http.StatusBadRequest, "Invalid guess")
		return
	}
	if g.hash == "" || g.over {
		writeErr(w, http.StatusBadRequest, "Game is not in guessing phase")
		return
	}
	guess := *req.Guess
	if guess < game.MinNumber || guess > game.MaxNumber {
		writeErr(w, http.StatusBadRequest, fmt.Sprintf("Guess must be between %d and %d", game.MinNumber, game.MaxNumber))
		return
	}

	g.guesses = append(g.guesses, guess)
	fb := feedbackFor(guess, g.secret)
	if guess == g.secret {
		g.over = true
		g.winner = g.player2
	}
	if len(g.guesses) >= game.MaxGuesses {
		g.over = true
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"guess":     guess,
		"feedback":  fb,
		"attempt":   len(g.guesses),
		"remaining": game.MaxGuesses - len(g.guesses),
		"game_over": g.over,
	})
}

func (b *Backend) handleReveal(w http.ResponseWriter, r *http.Request) {
	g, ok := b.lookup(w, r)
	if !ok {
		return
	}
	defer b.mu.Unlock()
	if !g.over {
		writeErr(w, http.StatusBadRequest, "Game still in progress")
		return
	}
	delete(b.games, chi.URLParam(r, "id"))

	result := fmt.Sprintf("✗ Not found in %d guesses. Secret was %d", len(g.guesses), g.secret)
	for i, v := range g.guesses {
		if v == g.secret {
			result = fmt.Sprintf("✓ FOUND in %d guesses!", i+1)
			break
		}
	}
	var winner any
	if g.winner != "" {
		winner = g.winner
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"secret_number":    g.secret,
		"commitment_valid": true,
		"guesses_made":     len(g.guesses),
		"result":           result,
		"game_winner":      winner,
		"timestamp":        g.committedAt.Format("2006-01-02T15:04:05.000000"),
	})
}

func (b *Backend) handleStats(w http.ResponseWriter, r *http.Request) {
	g, ok := b.lookup(w, r)
	if !ok {
		return
	}
	defer b.mu.Unlock()
	phase := "commitment"
	switch {
	case g.over:
		phase = "reveal"
	case g.hash != "":
		phase = "guessing"
	}
	recent := g.guesses
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	remaining := game.MaxGuesses - len(g.guesses)
	if remaining < 0 {
		remaining = 0
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"phase":             phase,
		"guesses_made":      len(g.guesses),
		"guesses_remaining": remaining,
		"game_over":         g.over,
		"recent_guesses":    append([]int{}, recent...),
	})
}
