package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRepo stores runs in a local SQLite file.
type SQLiteRepo struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and runs migrations.
func OpenSQLite(path string) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	r := &SQLiteRepo{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRepo) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS valuation_runs (
			id             TEXT PRIMARY KEY,
			created_at     INTEGER NOT NULL,
			company        TEXT,
			framework      TEXT,
			weighted_value REAL,
			payload        TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON valuation_runs(created_at)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Save inserts or replaces the record.
func (r *SQLiteRepo) Save(ctx context.Context, rec RunRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO valuation_runs (id, created_at, company, framework, weighted_value, payload)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.CreatedAt.UnixNano(), rec.Company, rec.Framework, rec.WeightedValue, string(payload))
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// Load returns the record with id or ErrNotFound.
func (r *SQLiteRepo) Load(ctx context.Context, id uuid.UUID) (RunRecord, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM valuation_runs WHERE id = ?`, id.String()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("load run: %w", err)
	}
	var rec RunRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return RunRecord{}, fmt.Errorf("unmarshal run: %w", err)
	}
	return rec, nil
}

// List returns the newest runs first.
func (r *SQLiteRepo) List(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, created_at, company, framework, weighted_value
		FROM valuation_runs ORDER BY created_at DESC LIMIT ?`, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			s  RunSummary
			id string
			ts int64
		)
		if err := rows.Scan(&id, &ts, &s.Company, &s.Framework, &s.WeightedValue); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if s.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse run id %q: %w", id, err)
		}
		s.CreatedAt = time.Unix(0, ts).UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

// Close closes the database.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}
