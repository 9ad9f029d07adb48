// Package memory implements a process-local versioned key-value backend.
// It is the default storage driver and backs most tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/heartmarshall/scholarship-backend/internal/domain"
	"github.com/heartmarshall/scholarship-backend/internal/store"
)

var _ store.Backend = (*KVStore)(nil)

type entry struct {
	value   []byte
	version int64
}

// KVStore keeps values in a mutex-guarded map.
type KVStore struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// New creates an empty KVStore.
func New() *KVStore {
	return &KVStore{entries: make(map[string]entry)}
}

// Get returns a copy of the value stored under key and its version.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, 0, nil
	}
	return clone(e.value), e.version, nil
}

// Put stores value under key when expectedVersion matches the current one.
func (s *KVStore) Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.entries[key].version
	if expectedVersion != store.AnyVersion && expectedVersion != current {
		return 0, fmt.Errorf("key %s: expected version %d, have %d: %w",
			key, expectedVersion, current, domain.ErrVersionConflict)
	}

	s.entries[key] = entry{value: clone(value), version: current + 1}
	return current + 1, nil
}

// Ping always succeeds.
func (s *KVStore) Ping(context.Context) error { return nil }

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
