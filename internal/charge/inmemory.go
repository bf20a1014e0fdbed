package charge

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage is a map-backed Storage. A single mutex serializes all
// mutations, which satisfies the per-id transition contract.
type MemoryStorage struct {
	mu      sync.RWMutex
	charges map[uuid.UUID]Charge
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{charges: make(map[uuid.UUID]Charge)}
}

func (s *MemoryStorage) Create(_ context.Context, c *Charge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.charges[c.ID] = *c
	return nil
}

func (s *MemoryStorage) Charge(_ context.Context, id uuid.UUID) (*Charge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.charges[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStorage) UpdateStatus(_ context.Context, id uuid.UUID, from, to Status, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.charges[id]
	if !ok {
		return ErrNotFound
	}
	if c.Status != from {
		return ErrInvalidTransition
	}

	c.Status = to
	c.StatusUpdatedAt = at
	s.charges[id] = c
	return nil
}
