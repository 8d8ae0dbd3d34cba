package sessioncache

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store for single-instance deployments and
// tests. Entries live exactly as long as the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[uuid.UUID]Entry)}
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, sessionID uuid.UUID) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[sessionID]
	if !ok {
		return nil, ErrEntryNotFound
	}
	return &entry, nil
}

// Set implements Store.
func (s *MemoryStore) Set(ctx context.Context, sessionID uuid.UUID, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = *entry
	return nil
}

// Delete implements Store. Deleting a missing entry is not an error.
func (s *MemoryStore) Delete(ctx context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}
