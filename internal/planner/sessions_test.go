package planner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions_KeepsStorePerOwner(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	sessions := NewSessions(storage, WithClock(fixedClock))

	require.NoError(t, sessions.With(ctx, "a", func(s *Store) error {
		s.Toggle(ctx, kedarnath)
		return nil
	}))
	require.NoError(t, sessions.With(ctx, "b", func(s *Store) error {
		assert.Equal(t, 0, s.Len())
		return nil
	}))

	// A failed save does not lose the plan for the rest of the session.
	storage.SaveErr = errors.New("redis down")
	require.NoError(t, sessions.With(ctx, "a", func(s *Store) error {
		s.Toggle(ctx, badrinath)
		return nil
	}))
	require.NoError(t, sessions.With(ctx, "a", func(s *Store) error {
		assert.Equal(t, 2, s.Len())
		return nil
	}))

	// Reloading from storage only sees what was saved.
	sessions.Forget("a")
	require.NoError(t, sessions.With(ctx, "a", func(s *Store) error {
		assert.Equal(t, 1, s.Len())
		return nil
	}))
}

func TestSessions_PropagatesErrors(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessions(failingLoadStorage{NewMemoryStorage()})
	err := sessions.With(ctx, "a", func(*Store) error { return nil })
	assert.Error(t, err)

	sessions = NewSessions(NewMemoryStorage())
	boom := errors.New("boom")
	assert.ErrorIs(t, sessions.With(ctx, "a", func(*Store) error { return boom }), boom)
}

func TestSessions_SerializesOwner(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessions(NewMemoryStorage(), WithClock(fixedClock))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sessions.With(ctx, "a", func(s *Store) error {
				s.Toggle(ctx, kedarnath)
				return nil
			})
		}()
	}
	wg.Wait()

	require.NoError(t, sessions.With(ctx, "a", func(s *Store) error {
		// 50 toggles cancel out pairwise
		assert.Equal(t, 0, s.Len())
		return nil
	}))
}

func TestSessions_SweepDropsIdleOwners(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	sessions := NewSessions(storage, WithClock(fixedClock))
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return now }

	touch := func(owner string) {
		require.NoError(t, sessions.With(ctx, owner, func(s *Store) error {
			if s.Len() == 0 {
				s.Toggle(ctx, kedarnath)
			}
			return nil
		}))
	}
	touch("a")
	touch("b")
	assert.Equal(t, 2, sessions.Len())

	now = now.Add(20 * time.Minute)
	touch("b")
	now = now.Add(15 * time.Minute)

	assert.Equal(t, 1, sessions.Sweep(30*time.Minute))
	assert.Equal(t, 1, sessions.Len())

	// the dropped owner is reloaded from storage
	require.NoError(t, sessions.With(ctx, "a", func(s *Store) error {
		assert.True(t, s.IsInPlan(kedarnath.ID))
		return nil
	}))
	assert.Equal(t, 2, sessions.Len())
}

func TestSessions_SweepSkipsOwnersInUse(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessions(NewMemoryStorage(), WithClock(fixedClock))
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return now }

	entered := make(chan struct{})
	finish := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- sessions.With(ctx, "a", func(*Store) error {
			close(entered)
			<-finish
			return nil
		})
	}()
	<-entered

	now = now.Add(time.Hour)
	assert.Equal(t, 0, sessions.Sweep(time.Minute))
	assert.Equal(t, 1, sessions.Len())

	close(finish)
	require.NoError(t, <-done)
}

func TestSessions_ForgetWhileInUseKeepsOneStore(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessions(NewMemoryStorage(), WithClock(fixedClock))

	entered := make(chan struct{})
	finish := make(chan struct{})
	done := make(chan error, 1)
	var first *Store
	go func() {
		done <- sessions.With(ctx, "a", func(s *Store) error {
			first = s
			close(entered)
			<-finish
			return nil
		})
	}()
	<-entered

	sessions.Forget("a")

	second := make(chan *Store, 1)
	go func() {
		_ = sessions.With(ctx, "a", func(s *Store) error {
			second <- s
			return nil
		})
	}()
	assert.Eventually(t, func() bool {
		sessions.mu.Lock()
		defer sessions.mu.Unlock()
		return sessions.entries["a"].users == 2
	}, time.Second, time.Millisecond)

	close(finish)
	require.NoError(t, <-done)
	// the waiting call reuses the Store that was in use
	assert.Same(t, first, <-second)
	assert.Eventually(t, func() bool { return sessions.Len() == 0 }, time.Second, time.Millisecond)
}

func TestSessions_RunStopsWithContext(t *testing.T) {
	sessions := NewSessions(NewMemoryStorage())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sessions.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
