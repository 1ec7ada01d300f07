package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mintguard/pkg/platform/sentinel"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const Schema = `
CREATE TABLE IF NOT EXISTS consumed_seeds (
    ref         TEXT PRIMARY KEY,
    consumed_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

func (s *PostgresStore) Spent(ctx context.Context, ref string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM consumed_seeds WHERE ref = $1)`, ref).Scan(&exists)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("check seed: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) Consume(ctx context.Context, ref string) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO consumed_seeds (ref) VALUES ($1) ON CONFLICT (ref) DO NOTHING`, ref)
	if err != nil {
		return fmt.Errorf("consume seed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("consume seed: %w", err)
	}
	if n == 0 {
		return sentinel.ErrAlreadyUsed
	}
	return nil
}
