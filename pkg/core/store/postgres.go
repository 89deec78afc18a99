package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepo stores runs in a valuation_runs table with a JSONB payload.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dbURL and creates the table when missing.
func OpenPostgres(ctx context.Context, dbURL string) (*PostgresRepo, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("database url not set")
	}
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to open database pool: %w", err)
	}
	r := &PostgresRepo{pool: pool}
	if err := r.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return r, nil
}

func (r *PostgresRepo) migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS valuation_runs (
			id             UUID PRIMARY KEY,
			created_at     TIMESTAMPTZ NOT NULL,
			company        TEXT,
			framework      TEXT,
			weighted_value DOUBLE PRECISION,
			payload        JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_valuation_runs_created ON valuation_runs(created_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate valuation_runs: %w", err)
	}
	return nil
}

// Save inserts or replaces the record.
func (r *PostgresRepo) Save(ctx context.Context, rec RunRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}
	query := `
		INSERT INTO valuation_runs (id, created_at, company, framework, weighted_value, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET
			created_at = EXCLUDED.created_at,
			company = EXCLUDED.company,
			framework = EXCLUDED.framework,
			weighted_value = EXCLUDED.weighted_value,
			payload = EXCLUDED.payload;
	`
	if _, err := r.pool.Exec(ctx, query, rec.ID, rec.CreatedAt, rec.Company, rec.Framework, rec.WeightedValue, payload); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// Load returns the record with id or ErrNotFound.
func (r *PostgresRepo) Load(ctx context.Context, id uuid.UUID) (RunRecord, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx, `SELECT payload FROM valuation_runs WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("failed to load run: %w", err)
	}
	var rec RunRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return RunRecord{}, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return rec, nil
}

// List returns the newest runs first.
func (r *PostgresRepo) List(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, created_at, company, framework, weighted_value
		FROM valuation_runs ORDER BY created_at DESC LIMIT $1`, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.Company, &s.Framework, &s.WeightedValue); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Close releases the pool.
func (r *PostgresRepo) Close() error {
	r.pool.Close()
	return nil
}

const defaultListLimit = 50

func listLimit(n int) int {
	if n <= 0 || n > 1000 {
		return defaultListLimit
	}
	return n
}
