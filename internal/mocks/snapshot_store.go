// Package mocks provides shared test doubles for the application's
// interfaces.
package mocks

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/inkforge/inkforge-api/internal/domain"
)

// MemorySnapshotStore implements store.SnapshotStore on an in-memory
// snapshot for testing. Like the real store it serializes every
// read-modify-write cycle behind one mutex and hands out deep copies, so
// tests observe the same isolation the sqlite store provides.
type MemorySnapshotStore struct {
	mu   sync.Mutex
	snap *domain.Snapshot

	// Custom behavior hooks
	LoadErr error
	SaveErr error

	// Call tracking for verification
	SaveCount int
}

// NewMemorySnapshotStore creates an empty in-memory store.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{snap: domain.NewSnapshot()}
}

// Seed replaces the current snapshot, for test arrangement.
func (s *MemorySnapshotStore) Seed(snap *domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = deepCopy(snap)
}

// Current returns a copy of the current snapshot, for test assertions.
func (s *MemorySnapshotStore) Current() *domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deepCopy(s.snap)
}

// Load implements store.SnapshotStore.
func (s *MemorySnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	return deepCopy(s.snap), nil
}

// Save implements store.SnapshotStore.
func (s *MemorySnapshotStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(snap)
}

func (s *MemorySnapshotStore) save(snap *domain.Snapshot) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.snap = deepCopy(snap)
	s.SaveCount++
	return nil
}

// Update implements store.SnapshotStore.
func (s *MemorySnapshotStore) Update(ctx context.Context, fn func(snap *domain.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return s.LoadErr
	}
	snap := deepCopy(s.snap)
	if err := fn(snap); err != nil {
		return err
	}
	return s.save(snap)
}

func deepCopy(snap *domain.Snapshot) *domain.Snapshot {
	raw, err := json.Marshal(snap)
	if err != nil {
		panic(err)
	}
	out := domain.NewSnapshot()
	if err := json.Unmarshal(raw, out); err != nil {
		panic(err)
	}
	if out.Accounts == nil {
		out.Accounts = []domain.Account{}
	}
	if out.Tasks == nil {
		out.Tasks = []domain.Task{}
	}
	return out
}
