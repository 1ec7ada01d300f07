// Package asset holds the immutable per-asset validator configurations.
// Definitions are registered once through the admin API and never change; a
// re-registration under the same anchor is a conflict, matching the
// one-time-initialization rule of the records themselves.
package asset

import (
	"context"
	"sync"
	"time"

	"mintguard/internal/registry/validator"
	"mintguard/pkg/domain"
	"mintguard/pkg/platform/sentinel"
)

// Definition binds an anchor to its validator configuration.
type Definition struct {
	ID        domain.AssetID   `json:"id"`
	Anchor    domain.Anchor    `json:"anchor"`
	Config    validator.Config `json:"-"`
	CreatedAt time.Time        `json:"created_at"`
}

type Store interface {
	Put(ctx context.Context, def *Definition) error
	Get(ctx context.Context, anchor domain.Anchor) (*Definition, error)
	List(ctx context.Context) ([]*Definition, error)
}

type MemoryStore struct {
	mu   sync.RWMutex
	defs map[domain.Anchor]*Definition
}

func NewMemory() *MemoryStore {
	return &MemoryStore{defs: make(map[domain.Anchor]*Definition)}
}

func (s *MemoryStore) Put(_ context.Context, def *Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.defs[def.Anchor]; exists {
		return sentinel.ErrConflict
	}
	s.defs[def.Anchor] = def
	return nil
}

func (s *MemoryStore) Get(_ context.Context, anchor domain.Anchor) (*Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.defs[anchor]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return def, nil
}

func (s *MemoryStore) List(_ context.Context) ([]*Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Definition, 0, len(s.defs))
	for _, def := range s.defs {
		out = append(out, def)
	}
	return out, nil
}
