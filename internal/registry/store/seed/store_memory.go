package seed

import (
	"context"
	"sync"

	"mintguard/pkg/platform/sentinel"
)

type MemoryStore struct {
	mu    sync.Mutex
	spent map[string]struct{}
}

func NewMemory() *MemoryStore {
	return &MemoryStore{spent: make(map[string]struct{})}
}

func (s *MemoryStore) Spent(_ context.Context, ref string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.spent[ref]
	return ok, nil
}

func (s *MemoryStore) Consume(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.spent[ref]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.spent[ref] = struct{}{}
	return nil
}
