// Package record persists registry records keyed by anchor. The surrounding
// ledger guarantees at most one in-flight transition per record; Swap still
// compare-and-swaps on the prior supply so a lost race is rejected, never
// merged.
package record

import (
	"context"

	"mintguard/internal/registry/models"
	"mintguard/pkg/domain"
)

type Store interface {
	// Get returns the record at anchor, or sentinel.ErrNotFound.
	Get(ctx context.Context, anchor domain.Anchor) (*models.RegistryRecord, error)
	// Create writes a fresh record; sentinel.ErrConflict if one exists.
	Create(ctx context.Context, anchor domain.Anchor, rec *models.RegistryRecord) error
	// Swap replaces the record at anchor if its current supply still equals
	// priorSupply; sentinel.ErrConflict otherwise, sentinel.ErrNotFound when
	// no record exists.
	Swap(ctx context.Context, anchor domain.Anchor, priorSupply uint64, rec *models.RegistryRecord) error
}
