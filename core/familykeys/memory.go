package familykeys

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MemoryStore is an in-process RecordStore for single-instance deployments
// and tests.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*FamilyKeyRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*FamilyKeyRecord)}
}

// Get implements RecordStore.
func (s *MemoryStore) Get(ctx context.Context, groupID string) (*FamilyKeyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[groupID]
	if !ok {
		return nil, ErrRecordNotFound
	}

	copied := *record
	copied.MemberKeys = maps.Clone(record.MemberKeys)
	return &copied, nil
}

// Put implements RecordStore.
func (s *MemoryStore) Put(ctx context.Context, record *FamilyKeyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *record
	copied.MemberKeys = maps.Clone(record.MemberKeys)
	s.records[record.GroupID] = &copied
	return nil
}

// AddMemberKey implements RecordStore as an in-place merge.
func (s *MemoryStore) AddMemberKey(ctx context.Context, groupID, memberID, wrappedKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[groupID]
	if !ok {
		return ErrRecordNotFound
	}
	if record.MemberKeys == nil {
		record.MemberKeys = make(map[string]string)
	}
	record.MemberKeys[memberID] = wrappedKey
	record.UpdatedAt = time.Now().UTC()
	return nil
}
