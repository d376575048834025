package store

import (
	"context"
	"sync"
)

// MemoryStore keeps values in a map. An optional quota bounds the total size
// of keys plus values, the way browser storage does.
type MemoryStore struct {
	mu       sync.RWMutex
	items    map[string][]byte
	maxBytes int
	used     int
}

type MemoryOption func(*MemoryStore)

// WithQuota limits the store to maxBytes of keys and values.
func WithQuota(maxBytes int) MemoryOption {
	return func(m *MemoryStore) { m.maxBytes = maxBytes }
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{items: make(map[string][]byte)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	used := m.used
	if old, ok := m.items[key]; ok {
		used -= len(key) + len(old)
	}
	used += len(key) + len(value)
	if m.maxBytes > 0 && used > m.maxBytes {
		return ErrQuotaExceeded
	}

	v := make([]byte, len(value))
	copy(v, value)
	m.items[key] = v
	m.used = used
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.items[key]; ok {
		m.used -= len(key) + len(old)
		delete(m.items, key)
	}
	return nil
}
