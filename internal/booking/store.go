package booking

import (
	"context"
	"sync"
	"time"
)

// PendingStore is the keyed store behind the booking state machine. The
// single-process deployment uses MemoryStore; a multi-replica deployment can
// substitute RedisStore without touching the state machine.
type PendingStore interface {
	Get(ctx context.Context, key string) (*PendingBooking, error)
	Put(ctx context.Context, key string, record *PendingBooking) error
	Delete(ctx context.Context, key string) error
	// DeletePendingOlderThan removes every record still pending whose
	// CreatedAt is before the cutoff, returning how many were removed.
	DeletePendingOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// MemoryStore is an in-process PendingStore backed by a mutex-guarded map.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*PendingBooking
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*PendingBooking)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (*PendingBooking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	clone := *record
	return &clone, nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, record *PendingBooking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *record
	s.records[key] = &clone
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

func (s *MemoryStore) DeletePendingOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, record := range s.records {
		if record.Status == StatusPending && record.CreatedAt.Before(cutoff) {
			delete(s.records, key)
			removed++
		}
	}
	return removed, nil
}
