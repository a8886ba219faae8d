package compare

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Backend.Load when nothing is stored under key.
var ErrNotFound = errors.New("compare: key not found")

// Backend stores opaque values by key.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}

// MemoryBackend keeps values in process memory. The zero value is not
// usable; call NewMemoryBackend.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

// Load implements Backend.
func (m *MemoryBackend) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Save implements Backend.
func (m *MemoryBackend) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

// Close implements Backend.
func (m *MemoryBackend) Close() error { return nil }
