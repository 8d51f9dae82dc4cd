package memory

import (
	"context"
	"sync"

	"github.com/aretw0/turing/pkg/domain"
)

// Store implements ports.RunStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Run
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.Run),
	}
}

// Save persists a copy of the run.
func (s *Store) Save(ctx context.Context, run *domain.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[run.ID] = *run
	return nil
}

// Load retrieves a copy of the run so callers can't mutate stored records.
func (s *Store) Load(ctx context.Context, runID string) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.data[runID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return &run, nil
}

// Delete removes the run.
func (s *Store) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, runID)
	return nil
}

// List returns all run IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
