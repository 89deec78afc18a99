// Package store is the audit trail for valuation runs: it persists the
// input, assumptions, selection rationale, compliance notes and hybrid
// result of each run so they can be reviewed later. PostgreSQL and SQLite
// back the same Repository contract.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/camayank/StartupValuator-sub001/pkg/core/assumption"
	"github.com/camayank/StartupValuator-sub001/pkg/core/compliance"
	"github.com/camayank/StartupValuator-sub001/pkg/core/engine"
	"github.com/camayank/StartupValuator-sub001/pkg/core/hybrid"
	"github.com/camayank/StartupValuator-sub001/pkg/core/selection"
	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

// ErrNotFound is returned by Load for an unknown run ID.
var ErrNotFound = errors.New("run not found")

// RunRecord is one persisted valuation run.
type RunRecord struct {
	ID             uuid.UUID                       `json:"id"`
	CreatedAt      time.Time                       `json:"created_at"`
	Company        string                          `json:"company"`
	TablesVersion  string                          `json:"tables_version"`
	Framework      string                          `json:"framework"`
	WeightedValue  float64                         `json:"weighted_value"`
	Input          models.ValuationInput           `json:"input"`
	Assumptions    assumption.FinancialAssumptions `json:"assumptions"`
	Recommendation selection.Recommendation        `json:"recommendation"`
	Notes          []compliance.Note               `json:"notes"`
	Result         hybrid.Result                   `json:"result"`
}

// RunSummary is the listing view of a record.
type RunSummary struct {
	ID            uuid.UUID `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Company       string    `json:"company"`
	Framework     string    `json:"framework"`
	WeightedValue float64   `json:"weighted_value"`
}

// NewRunRecord captures the audit fields of a report under a fresh ID.
func NewRunRecord(r *engine.Report, now time.Time) RunRecord {
	return RunRecord{
		ID:             uuid.New(),
		CreatedAt:      now.UTC(),
		Company:        r.Input.CompanyName,
		TablesVersion:  r.TablesVersion,
		Framework:      r.Framework.ID,
		WeightedValue:  r.Hybrid.WeightedValue,
		Input:          r.Input,
		Assumptions:    r.Assumptions,
		Recommendation: r.Recommendation,
		Notes:          r.ComplianceNotes,
		Result:         r.Hybrid,
	}
}

// Repository persists run records.
type Repository interface {
	Save(ctx context.Context, rec RunRecord) error
	Load(ctx context.Context, id uuid.UUID) (RunRecord, error)
	List(ctx context.Context, limit int) ([]RunSummary, error)
	Close() error
}
