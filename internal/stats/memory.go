// internal/stats/memory.go
//
// In-memory implementation of the stats Store interface.
// Used in tests and when the server runs without a database.
//
// Characteristics:
//   - Stores cloned *Stats values keyed by configuration key.
//   - Concurrency-safe via RWMutex.
//   - State is lost when the process restarts.

package stats

import (
	"context"
	"sync"
)

type memory struct {
	mu    sync.RWMutex
	byKey map[string]*Stats
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{byKey: make(map[string]*Stats)}
}

// Load returns a copy of the stored stats, or (nil, nil) if absent.
func (m *memory) Load(ctx context.Context, key string) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.byKey[key]; ok {
		return s.Clone(), nil
	}
	return nil, nil
}

// Save stores a copy of s under key.
func (m *memory) Save(ctx context.Context, key string, s *Stats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byKey[key] = s.Clone()
	return nil
}
