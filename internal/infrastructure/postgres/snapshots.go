// Package postgres stores catalog sync snapshots in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/skuprice/backend/internal/domain"
	"github.com/skuprice/backend/internal/infrastructure/logging"
)

var _ domain.SnapshotRepository = (*SnapshotRepository)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS catalog_snapshots (
	store       TEXT        NOT NULL,
	sku_id      TEXT        NOT NULL,
	product_id  TEXT        NOT NULL,
	ean         TEXT        NOT NULL DEFAULT '',
	name        TEXT        NOT NULL,
	brand       TEXT        NOT NULL DEFAULT '',
	price       NUMERIC(14, 2),
	list_price  NUMERIC(14, 2),
	available   BOOLEAN     NOT NULL DEFAULT FALSE,
	captured_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (store, sku_id)
)`

const upsertSnapshot = `
INSERT INTO catalog_snapshots (
	store, sku_id, product_id, ean, name, brand,
	price, list_price, available, captured_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (store, sku_id) DO UPDATE SET
	product_id = EXCLUDED.product_id,
	ean = EXCLUDED.ean,
	name = EXCLUDED.name,
	brand = EXCLUDED.brand,
	price = EXCLUDED.price,
	list_price = EXCLUDED.list_price,
	available = EXCLUDED.available,
	captured_at = EXCLUDED.captured_at`

// SnapshotRepository upserts catalog snapshots keyed by (store, sku_id)
type SnapshotRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSnapshotRepository wraps an open database handle. The table must already exist.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db, logger: logging.Component("postgres")}
}

// Open connects to PostgreSQL, verifies the connection and ensures the table exists
func Open(ctx context.Context, dsn string) (*SnapshotRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unavailable: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	r := NewSnapshotRepository(db)
	r.logger.Info().Msg("database is available")
	return r, nil
}

// SaveSnapshots upserts all snapshots in a single transaction
func (r *SnapshotRepository) SaveSnapshots(ctx context.Context, snapshots []domain.CatalogSnapshot) (saved int, storeErr error) {
	if len(snapshots) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin tx: %w", err)
	}

	defer func() {
		if storeErr == nil {
			if err := tx.Commit(); err != nil {
				saved, storeErr = 0, fmt.Errorf("failed to commit: %w", err)
			}
			return
		}
		if err := tx.Rollback(); err != nil {
			r.logger.Error().Err(err).Msg("failed to rollback tx")
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertSnapshot)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, s := range snapshots {
		_, err := stmt.ExecContext(ctx,
			string(s.Store), s.SkuID, s.ProductID, s.EAN, s.Name, s.Brand,
			nullFloat(s.Price), nullFloat(s.ListPrice), s.Available, s.CapturedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert %s/%s: %w", s.Store, s.SkuID, err)
		}
		saved++
	}

	return saved, nil
}

// Close closes the database handle
func (r *SnapshotRepository) Close() error {
	return r.db.Close()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
