package quota

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	generations int
	revisions   int
	resetAt     time.Time
}

// MemoryStore is the default process-local quota store. All state fits in a
// single map guarded by one mutex; read-check-mutate happens inside the
// critical section so two concurrent requests cannot both observe the last
// remaining unit.
type MemoryStore struct {
	mu      sync.Mutex
	limits  Limits
	entries map[string]*memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory quota store with the given
// limits.
func NewMemoryStore(limits Limits) *MemoryStore {
	return &MemoryStore{
		limits:  limits,
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

// Check implements Store.
func (s *MemoryStore) Check(_ context.Context, clientID string, action Action) (bool, int, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[clientID]
	if !ok {
		entry = &memoryEntry{}
		s.reset(entry, now)
		s.entries[clientID] = entry
	} else if !now.Before(entry.resetAt) {
		s.reset(entry, now)
	}

	var counter *int
	switch action {
	case ActionRevision:
		counter = &entry.revisions
	default:
		counter = &entry.generations
	}

	if *counter <= 0 {
		return false, 0, nil
	}
	*counter--
	return true, *counter, nil
}

// Status implements Store. When the window has elapsed it reports the
// would-be-reset caps without committing them; the commit is Check's job.
func (s *MemoryStore) Status(_ context.Context, clientID string) (Status, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[clientID]
	if !ok || !now.Before(entry.resetAt) {
		return Status{
			GenerationsRemaining: s.limits.DailyGenerations,
			RevisionsRemaining:   s.limits.DailyRevisions,
			ResetTime:            now.Add(s.limits.Window),
		}, nil
	}

	return Status{
		GenerationsRemaining: entry.generations,
		RevisionsRemaining:   entry.revisions,
		ResetTime:            entry.resetAt,
	}, nil
}

// SweepExpired implements Store.
func (s *MemoryStore) SweepExpired(_ context.Context) (int, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for clientID, entry := range s.entries {
		if !now.Before(entry.resetAt) {
			delete(s.entries, clientID)
			removed++
		}
	}
	return removed, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) reset(entry *memoryEntry, now time.Time) {
	entry.generations = s.limits.DailyGenerations
	entry.revisions = s.limits.DailyRevisions
	entry.resetAt = now.Add(s.limits.Window)
}
