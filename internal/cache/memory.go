package cache

import (
	"context"
	"sync"
)

// Memory is an in-process Cache for single-instance deployments.
// Safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.entries[key]
	if !ok {
		return nil, ErrMiss
	}
	// Copy so callers cannot mutate the stored value.
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *Memory) Set(ctx context.Context, key string, val []byte) error {
	stored := make([]byte, len(val))
	copy(stored, val)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = stored
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
