package record

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"mintguard/internal/registry/models"
	"mintguard/pkg/domain"
	"mintguard/pkg/platform/sentinel"
)

// PostgresStore persists registry records in PostgreSQL. Display fields ride
// in a jsonb column; everything the validator reads sits in typed columns.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema is the DDL for the registry_records table, applied by deployment
// tooling and by the integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS registry_records (
    anchor                 TEXT PRIMARY KEY,
    version                INTEGER NOT NULL,
    extra                  TEXT NOT NULL DEFAULT '',
    kind                   TEXT NOT NULL,
    venue                  TEXT NOT NULL,
    underlying             TEXT NOT NULL,
    ticker                 TEXT NOT NULL,
    decimals               SMALLINT NOT NULL,
    display                JSONB NOT NULL DEFAULT '{}',
    supply                 BIGINT NOT NULL,
    supply_after_last_mint BIGINT NOT NULL DEFAULT 0,
    last_mint_transfer_id  BYTEA,
    updated_at             TIMESTAMPTZ NOT NULL DEFAULT now()
);`

func (s *PostgresStore) Get(ctx context.Context, anchor domain.Anchor) (*models.RegistryRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT version, extra, kind, venue, underlying, ticker, decimals,
		       display, supply, supply_after_last_mint, last_mint_transfer_id
		FROM registry_records WHERE anchor = $1`, string(anchor))

	var rec models.RegistryRecord
	var display []byte
	var transferID []byte
	var supply, supplyAfterLastMint int64
	err := row.Scan(&rec.Version, &rec.Extra,
		&rec.Identity.Kind, &rec.Identity.Venue, &rec.Identity.Underlying,
		&rec.Identity.Ticker, &rec.Identity.Decimals,
		&display, &supply, &supplyAfterLastMint, &transferID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	if err := json.Unmarshal(display, &rec.Display); err != nil {
		return nil, fmt.Errorf("decode display fields: %w", err)
	}
	rec.Supply = uint64(supply)
	rec.Tracking.SupplyAfterLastMint = uint64(supplyAfterLastMint)
	rec.Tracking.LastMintTransferID = transferID
	return &rec, nil
}

func (s *PostgresStore) Create(ctx context.Context, anchor domain.Anchor, rec *models.RegistryRecord) error {
	display, err := json.Marshal(rec.Display)
	if err != nil {
		return fmt.Errorf("encode display fields: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO registry_records
			(anchor, version, extra, kind, venue, underlying, ticker, decimals,
			 display, supply, supply_after_last_mint, last_mint_transfer_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (anchor) DO NOTHING`,
		string(anchor), rec.Version, rec.Extra,
		rec.Identity.Kind, rec.Identity.Venue, rec.Identity.Underlying,
		rec.Identity.Ticker, int16(rec.Identity.Decimals),
		display, int64(rec.Supply), int64(rec.Tracking.SupplyAfterLastMint),
		rec.Tracking.LastMintTransferID)
	if err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	if n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) Swap(ctx context.Context, anchor domain.Anchor, priorSupply uint64, rec *models.RegistryRecord) error {
	display, err := json.Marshal(rec.Display)
	if err != nil {
		return fmt.Errorf("encode display fields: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE registry_records SET
			version = $3, extra = $4, display = $5, supply = $6,
			supply_after_last_mint = $7, last_mint_transfer_id = $8,
			updated_at = now()
		WHERE anchor = $1 AND supply = $2`,
		string(anchor), int64(priorSupply),
		rec.Version, rec.Extra, display, int64(rec.Supply),
		int64(rec.Tracking.SupplyAfterLastMint), rec.Tracking.LastMintTransferID)
	if err != nil {
		return fmt.Errorf("swap record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("swap record: %w", err)
	}
	if n == 1 {
		return nil
	}
	// Distinguish a missing record from a lost race.
	if _, err := s.Get(ctx, anchor); errors.Is(err, sentinel.ErrNotFound) {
		return sentinel.ErrNotFound
	}
	return sentinel.ErrConflict
}
