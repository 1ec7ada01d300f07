package record

import (
	"context"
	"sync"

	"mintguard/internal/registry/models"
	"mintguard/pkg/domain"
	"mintguard/pkg/platform/sentinel"
)

// MemoryStore is the in-memory Store used in tests and single-node
// deployments without postgres configured.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[domain.Anchor]*models.RegistryRecord
}

func NewMemory() *MemoryStore {
	return &MemoryStore{records: make(map[domain.Anchor]*models.RegistryRecord)}
}

func (s *MemoryStore) Get(_ context.Context, anchor domain.Anchor) (*models.RegistryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[anchor]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return rec.Clone(), nil
}

func (s *MemoryStore) Create(_ context.Context, anchor domain.Anchor, rec *models.RegistryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[anchor]; exists {
		return sentinel.ErrConflict
	}
	s.records[anchor] = rec.Clone()
	return nil
}

func (s *MemoryStore) Swap(_ context.Context, anchor domain.Anchor, priorSupply uint64, rec *models.RegistryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.records[anchor]
	if !ok {
		return sentinel.ErrNotFound
	}
	if cur.Supply != priorSupply {
		return sentinel.ErrConflict
	}
	s.records[anchor] = rec.Clone()
	return nil
}
