package prefs

import (
	"context"
	"sync"
)

// MemoryStore keeps preferences in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]any
	watchers
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]any)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (any, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value any) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()

	m.fire(key, value)
	return nil
}

func (m *MemoryStore) Watch(key string, fn func(value any)) func() {
	return m.add(key, fn)
}
