package planner

import (
	"context"
	"sync"
)

// Storage is durable key/value storage for plan and settings documents.
type Storage interface {
	// Load returns the value stored under key. found is false when the key
	// has never been saved.
	Load(ctx context.Context, key string) (value string, found bool, err error)
	Save(ctx context.Context, key, value string) error
}

// Keys names the two documents a plan is persisted under.
type Keys struct {
	Plan     string
	Settings string
}

// KeysFor returns the storage keys of owner's plan.
func KeysFor(owner string) Keys {
	return Keys{
		Plan:     "yatra:plan:" + owner,
		Settings: "yatra:settings:" + owner,
	}
}

// MemoryStorage is an in-process Storage. SaveErr, when set, is returned by
// every Save without storing anything.
type MemoryStorage struct {
	mu      sync.Mutex
	values  map[string]string
	SaveErr error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Load(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStorage) Save(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.values[key] = value
	return nil
}

// Notice is a user-facing message raised by the store.
type Notice struct {
	Message string
	Err     error
}

// Notifier receives notices about best-effort side effects such as failed saves.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, Notice) {}
