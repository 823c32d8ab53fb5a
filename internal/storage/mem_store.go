package storage

import (
	"context"
	"sync"
)

// MemStore is an in-memory Store for tests that never writes to disk.
type MemStore struct {
	mu   sync.Mutex
	data map[string][]byte
	sets    int
	err     error
	readErr error
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

// Get returns a copy of the stored value. It fails with the error injected by FailReads, if any.
func (m *MemStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value. It fails with the error injected by FailWrites, if any.
func (m *MemStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = append([]byte(nil), value...)
	m.sets++
	return nil
}

// Close is a no-op for in-memory stores.
func (m *MemStore) Close() error { return nil }

// Writes reports how many successful Set calls the store has seen.
func (m *MemStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

// FailWrites makes every later Set return err. Pass nil to restore normal writes.
func (m *MemStore) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// FailReads makes every later Get return err. Pass nil to restore normal reads.
func (m *MemStore) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// Ensure MemStore implements storage.Store
var _ Store = (*MemStore)(nil)
