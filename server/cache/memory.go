package cache

import (
	"context"
	"sync"
	"time"
)

type (
	// MemoryStore keeps values in process memory.  Expired values are dropped when read.
	MemoryStore struct {
		mu       sync.Mutex
		entries  map[string]memoryEntry
		timeFunc func() time.Time
	}

	memoryEntry struct {
		value     []byte
		expiresAt time.Time
	}
)

// NewMemoryStore creates an empty MemoryStore using the clock.
func NewMemoryStore(timeFunc func() time.Time) *MemoryStore {
	s := MemoryStore{
		entries:  make(map[string]memoryEntry),
		timeFunc: timeFunc,
	}
	return &s
}

// Get implements the Store interface.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !s.timeFunc().Before(e.expiresAt) {
		delete(s.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set implements the Store interface.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{
		value:     value,
		expiresAt: s.timeFunc().Add(ttl),
	}
	return nil
}

// Len returns the number of entries, including expired ones that have not been read.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
