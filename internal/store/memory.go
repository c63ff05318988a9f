package store

import (
	"context"
	"sync"
)

// MemoryStore is a map-backed Store. With a capacity it models a
// quota-limited backend: a Save that would push total stored bytes
// past the capacity fails with ErrCapacityExceeded, which is what the
// quota recovery wrapper reacts to.
type MemoryStore struct {
	mu       sync.RWMutex
	blobs    map[string][]byte
	capacity int
}

// NewMemoryStore creates an unbounded in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// NewBoundedMemoryStore creates an in-memory store that rejects writes
// once total stored bytes would exceed capacity
func NewBoundedMemoryStore(capacity int) *MemoryStore {
	return &MemoryStore{
		blobs:    make(map[string][]byte),
		capacity: capacity,
	}
}

// Load retrieves a blob by key
func (s *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Save stores a blob under key, replacing any previous value
func (s *MemoryStore) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capacity > 0 {
		total := len(data)
		for k, v := range s.blobs {
			if k != key {
				total += len(v)
			}
		}
		if total > s.capacity {
			return ErrCapacityExceeded
		}
	}

	stored := make([]byte, len(data))
	copy(stored, data)
	s.blobs[key] = stored
	return nil
}

// Delete removes a blob. Deleting an absent key is not an error.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, key)
	return nil
}

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close() error {
	return nil
}
