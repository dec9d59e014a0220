package planner

import (
	"context"
	"sync"
	"time"
)

// Sessions keeps one loaded Store per owner so the in-memory plan stays
// authoritative even when saves fail. Calls for the same owner are
// serialized. Idle owners are dropped by Sweep and reloaded on next use.
type Sessions struct {
	storage Storage
	opts    []Option
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*session
}

// session fields other than mu and store are guarded by Sessions.mu.
type session struct {
	mu    sync.Mutex
	store *Store

	users    int
	lastUsed time.Time
	forget   bool
}

// NewSessions creates a session registry backed by storage. opts are applied
// to every Store it opens.
func NewSessions(storage Storage, opts ...Option) *Sessions {
	return &Sessions{
		storage: storage,
		opts:    opts,
		now:     time.Now,
		entries: make(map[string]*session),
	}
}

// With runs fn against owner's Store, opening it on first use.
func (s *Sessions) With(ctx context.Context, owner string, fn func(*Store) error) error {
	e := s.acquire(owner)
	defer s.release(owner, e)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store == nil {
		store, err := Open(ctx, s.storage, KeysFor(owner), s.opts...)
		if err != nil {
			return err
		}
		e.store = store
	}
	return fn(e.store)
}

func (s *Sessions) acquire(owner string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[owner]
	if !ok {
		e = &session{}
		s.entries[owner] = e
	}
	e.users++
	return e
}

func (s *Sessions) release(owner string, e *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.users--
	e.lastUsed = s.now()
	if e.users == 0 && e.forget && s.entries[owner] == e {
		delete(s.entries, owner)
	}
}

// Forget drops owner's Store so the next call reloads it from storage. A
// Store in use is dropped once its last caller returns.
func (s *Sessions) Forget(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[owner]
	if !ok {
		return
	}
	if e.users > 0 {
		e.forget = true
		return
	}
	delete(s.entries, owner)
}

// Sweep drops Stores that no call has used for longer than idle. It returns
// the number dropped.
func (s *Sessions) Sweep(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	dropped := 0
	for owner, e := range s.entries {
		if e.users == 0 && now.Sub(e.lastUsed) > idle {
			delete(s.entries, owner)
			dropped++
		}
	}
	return dropped
}

// Run sweeps Stores idle for longer than idle until ctx is done.
func (s *Sessions) Run(ctx context.Context, idle time.Duration) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(idle)
		}
	}
}

// Len returns the number of owners with a loaded Store.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
