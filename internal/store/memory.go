// internal/store/memory.go
//
// In-memory store of web play sessions.
// Each browser session owns one controller.Controller, created on first visit
// and looked up by the session id carried in the signed cookie.
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; nothing game-related is persisted.
//   - Sweep drops sessions idle longer than a TTL.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/guessreveal/internal/controller"
)

// ErrNotFound is returned by Get for unknown session ids.
var ErrNotFound = errors.New("session not found")

// Session is one browser's game.
type Session struct {
	ID         string
	Controller *controller.Controller

	mu       sync.Mutex
	flash    string
	lastSeen time.Time
}

// NewSession wraps ctrl under id.
func NewSession(id string, ctrl *controller.Controller) *Session {
	return &Session{ID: id, Controller: ctrl, lastSeen: time.Now()}
}

// SetFlash stores a one-shot message for the next page render.
func (s *Session) SetFlash(msg string) {
	s.mu.Lock()
	s.flash = msg
	s.mu.Unlock()
}

// TakeFlash returns and clears the pending message.
func (s *Session) TakeFlash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.flash
	s.flash = ""
	return msg
}

// Touch marks the session as used now.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Store defines the persistence interface for web sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Sweep removes sessions idle for longer than ttl and reports how many.
	Sweep(ctx context.Context, ttl time.Duration) int
}

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

func (m *memory) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Sweep(ctx context.Context, ttl time.Duration) int {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.idleSince(now) > ttl {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
