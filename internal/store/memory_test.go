package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/robalobadob/guessreveal/internal/controller"
)

func TestMemory_SaveGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	if _, err := m.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get unknown = %v, want ErrNotFound", err)
	}

	s := NewSession("abc", controller.New(nil))
	if err := m.Save(ctx, s); err != nil {
		t.Fatal(err)
	}
	got, err := m.Get(ctx, "abc")
	if err != nil || got != s {
		t.Fatalf("Get = %p, %v; want %p", got, err, s)
	}

	other := NewSession("abc", controller.New(nil))
	if err := m.Save(ctx, other); err != nil {
		t.Fatal(err)
	}
	if got, _ := m.Get(ctx, "abc"); got != other {
		t.Error("Save did not replace the session with the same id")
	}
}

func TestSession_Flash(t *testing.T) {
	s := NewSession("x", nil)
	if got := s.TakeFlash(); got != "" {
		t.Errorf("fresh flash %q", got)
	}
	s.SetFlash("hello")
	if got := s.TakeFlash(); got != "hello" {
		t.Errorf("TakeFlash %q, want hello", got)
	}
	if got := s.TakeFlash(); got != "" {
		t.Errorf("flash not cleared: %q", got)
	}
}

func TestMemory_Sweep(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	old := NewSession("old", nil)
	old.lastSeen = time.Now().Add(-2 * time.Hour)
	fresh := NewSession("fresh", nil)
	_ = m.Save(ctx, old)
	_ = m.Save(ctx, fresh)

	if n := m.Sweep(ctx, time.Hour); n != 1 {
		t.Errorf("Sweep removed %d, want 1", n)
	}
	if _, err := m.Get(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Error("idle session survived Sweep")
	}
	if _, err := m.Get(ctx, "fresh"); err != nil {
		t.Error("fresh session swept")
	}

	old.Touch()
	_ = m.Save(ctx, old)
	if n := m.Sweep(ctx, time.Hour); n != 0 {
		t.Errorf("Sweep after Touch removed %d", n)
	}
}

func TestMemory_Concurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i%26))
			_ = m.Save(ctx, NewSession(id, nil))
			_, _ = m.Get(ctx, id)
			m.Sweep(ctx, time.Hour)
		}(i)
	}
	wg.Wait()
}
