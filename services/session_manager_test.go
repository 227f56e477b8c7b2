package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fenilmodi00/shadowtrace-backend/models"
	"github.com/fenilmodi00/shadowtrace-backend/shared"
)

// steppingClock advances one second per reading
type steppingClock struct {
	mu      sync.Mutex
	current time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(time.Second)
	return c.current
}

func mustCreate(t *testing.T, manager *SessionManager) *SearchSession {
	t.Helper()
	session, err := manager.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return session
}

func TestSessionManagerLifecycle(t *testing.T) {
	manager := NewSessionManager(&countingLookuper{}, SessionOptions{}, 0)

	session, err := manager.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if session.ID() == "" || manager.Count() != 1 {
		t.Fatalf("unexpected session %q, count %d", session.ID(), manager.Count())
	}

	found, err := manager.Get(session.ID())
	if err != nil || found != session {
		t.Fatalf("Get: %v", err)
	}

	if err := manager.Delete(session.ID()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := manager.Get(session.ID()); !shared.HasErrorCode(err, shared.ErrCodeSessionNotFound) {
		t.Errorf("expected SESSION_NOT_FOUND after delete, got %v", err)
	}
	if err := manager.Delete(session.ID()); !shared.HasErrorCode(err, shared.ErrCodeSessionNotFound) {
		t.Errorf("expected SESSION_NOT_FOUND on double delete, got %v", err)
	}
}

func TestSessionManagerEvictsLeastRecentlyActive(t *testing.T) {
	clock := &steppingClock{current: time.Now()}
	manager := NewSessionManager(&countingLookuper{}, SessionOptions{Now: clock.Now}, 2)

	first := mustCreate(t, manager)
	second := mustCreate(t, manager)

	if _, err := first.Submit(context.Background(), "q", models.CategoryEmail); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	third := mustCreate(t, manager)
	if manager.Count() != 2 {
		t.Fatalf("count = %d, want 2", manager.Count())
	}
	if _, err := manager.Get(second.ID()); err == nil {
		t.Error("least recently active session should have been evicted")
	}
	for _, kept := range []*SearchSession{first, third} {
		if _, err := manager.Get(kept.ID()); err != nil {
			t.Errorf("session %s unexpectedly evicted", kept.ID())
		}
	}
}

func TestSessionManagerCleanupSkipsLoadingSessions(t *testing.T) {
	backend := newBlockingLookuper()
	stale := func() time.Time { return time.Now().Add(-time.Hour) }
	manager := NewSessionManager(backend, SessionOptions{Now: stale}, 10)

	idle := mustCreate(t, manager)
	busy := mustCreate(t, manager)

	done := make(chan error, 1)
	go func() {
		_, err := busy.Submit(context.Background(), "q", models.CategoryPhone)
		done <- err
	}()
	<-backend.started

	if removed := manager.CleanupIdle(30 * time.Minute); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := manager.Get(idle.ID()); err == nil {
		t.Error("idle session should have been removed")
	}
	if _, err := manager.Get(busy.ID()); err != nil {
		t.Error("loading session should be kept")
	}

	close(backend.release)
	if err := <-done; err != nil {
		t.Fatalf("Submit: %v", err)
	}
}

func TestSessionManagerRefusesCreateWhenAllSessionsBusy(t *testing.T) {
	backend := newBlockingLookuper()
	manager := NewSessionManager(backend, SessionOptions{}, 2)

	sessions := []*SearchSession{mustCreate(t, manager), mustCreate(t, manager)}
	done := make(chan error, len(sessions))
	for _, session := range sessions {
		go func(session *SearchSession) {
			_, err := session.Submit(context.Background(), "q", models.CategoryIP)
			done <- err
		}(session)
		<-backend.started
	}

	_, err := manager.Create()
	if !shared.HasErrorCode(err, shared.ErrCodeSessionLimitReached) {
		t.Fatalf("expected SESSION_LIMIT_REACHED, got %v", err)
	}
	if !shared.IsRetryableError(err) {
		t.Error("a full registry should be reported as retryable")
	}
	if manager.Count() != 2 {
		t.Errorf("count = %d, want 2", manager.Count())
	}

	close(backend.release)
	for range sessions {
		if err := <-done; err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	if _, err := manager.Create(); err != nil {
		t.Errorf("Create after lookups finished: %v", err)
	}
	if manager.Count() != 2 {
		t.Errorf("count = %d after eviction, want 2", manager.Count())
	}
}
