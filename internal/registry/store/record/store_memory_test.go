package record

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mintguard/internal/registry/models"
	"mintguard/pkg/domain"
	"mintguard/pkg/platform/sentinel"
)

func testRecord(supply uint64) *models.RegistryRecord {
	return &models.RegistryRecord{
		Version: models.SchemaVersion,
		Identity: models.Identity{
			Kind:   string(models.VariantAggregateReserve),
			Venue:  "ethereum",
			Ticker: "aBTC",
		},
		Supply: supply,
	}
}

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	anchor := domain.DeriveAnchor("p", "ethereum", "aBTC")

	_, err := s.Get(ctx, anchor)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, s.Create(ctx, anchor, testRecord(0)))
	assert.ErrorIs(t, s.Create(ctx, anchor, testRecord(0)), sentinel.ErrConflict)

	got, err := s.Get(ctx, anchor)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.Supply)

	require.NoError(t, s.Swap(ctx, anchor, 0, testRecord(90)))
	got, err = s.Get(ctx, anchor)
	require.NoError(t, err)
	assert.Equal(t, uint64(90), got.Supply)
}

func TestMemoryStoreSwapGuards(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	anchor := domain.DeriveAnchor("p", "ethereum", "aBTC")

	assert.ErrorIs(t, s.Swap(ctx, anchor, 0, testRecord(1)), sentinel.ErrNotFound)

	require.NoError(t, s.Create(ctx, anchor, testRecord(100)))
	assert.ErrorIs(t, s.Swap(ctx, anchor, 99, testRecord(1)), sentinel.ErrConflict)
}

func TestMemoryStoreDoesNotAliasCallerMemory(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	anchor := domain.DeriveAnchor("p", "ethereum", "aBTC")

	rec := testRecord(5)
	require.NoError(t, s.Create(ctx, anchor, rec))
	rec.Supply = 999

	got, err := s.Get(ctx, anchor)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), got.Supply)
}

// Concurrent swaps against the same prior supply: exactly one wins.
func TestMemoryStoreConcurrentSwap(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	anchor := domain.DeriveAnchor("p", "ethereum", "aBTC")
	require.NoError(t, s.Create(ctx, anchor, testRecord(100)))

	const goroutines = 32
	var wg sync.WaitGroup
	var wins atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Swap(ctx, anchor, 100, testRecord(150)); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}
