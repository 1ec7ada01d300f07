//go:build integration

package seed_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"

	"mintguard/internal/registry/store/seed"
	"mintguard/pkg/platform/sentinel"
	"mintguard/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *seed.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.postgres.Migrate(s.T(), seed.Schema)
	s.store = seed.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "consumed_seeds"))
}

func (s *PostgresStoreSuite) TestConsumeOnce() {
	ctx := context.Background()

	spent, err := s.store.Spent(ctx, "seed-1")
	s.Require().NoError(err)
	s.False(spent)

	s.Require().NoError(s.store.Consume(ctx, "seed-1"))

	spent, err = s.store.Spent(ctx, "seed-1")
	s.Require().NoError(err)
	s.True(spent)
}

func (s *PostgresStoreSuite) TestSecondConsumeFails() {
	ctx := context.Background()
	s.Require().NoError(s.store.Consume(ctx, "seed-1"))
	s.ErrorIs(s.store.Consume(ctx, "seed-1"), sentinel.ErrAlreadyUsed)
}

func (s *PostgresStoreSuite) TestConcurrentConsumeExactlyOneWins() {
	ctx := context.Background()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.store.Consume(ctx, "contested"); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load())
}
