package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/camayank/StartupValuator-sub001/pkg/core/engine"
	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

func newReport(t *testing.T, name string, revenue float64) *engine.Report {
	t.Helper()
	rep, err := engine.New(engine.Config{}).Run(context.Background(), models.ValuationInput{
		CompanyName: name,
		Sector:      models.SectorFintech,
		Region:      models.RegionUK,
		Stage:       models.StageRevenueGrowth,
		Purpose:     models.PurposeExit,
		Revenue:     revenue,
		GrowthRate:  25,
		Margin:      10,
	}, engine.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return rep
}

func openTemp(t *testing.T) *SQLiteRepo {
	t.Helper()
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteSaveLoad(t *testing.T) {
	repo := openTemp(t)
	ctx := context.Background()

	rec := NewRunRecord(newReport(t, "Ledger Ltd", 3e6), time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}
	got, err := repo.Load(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Company != "Ledger Ltd" || got.Framework != "ifrs13" {
		t.Errorf("unexpected record: %s / %s", got.Company, got.Framework)
	}
	if got.WeightedValue != rec.WeightedValue {
		t.Errorf("expected weighted value %v, got %v", rec.WeightedValue, got.WeightedValue)
	}
	if got.Assumptions.DiscountRate != rec.Assumptions.DiscountRate {
		t.Errorf("expected discount %v, got %v", rec.Assumptions.DiscountRate, got.Assumptions.DiscountRate)
	}
	if len(got.Recommendation.Rationale) == 0 {
		t.Error("expected selection rationale to be persisted")
	}
}

func TestSQLiteLoadMissing(t *testing.T) {
	repo := openTemp(t)
	if _, err := repo.Load(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteListNewestFirst(t *testing.T) {
	repo := openTemp(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	older := NewRunRecord(newReport(t, "Older", 1e6), base)
	newer := NewRunRecord(newReport(t, "Newer", 2e6), base.Add(time.Hour))
	for _, rec := range []RunRecord{older, newer} {
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	list, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(list))
	}
	if list[0].ID != newer.ID || list[1].ID != older.ID {
		t.Errorf("expected newest first, got %s then %s", list[0].Company, list[1].Company)
	}
	if !list[0].CreatedAt.Equal(newer.CreatedAt) {
		t.Errorf("expected created_at %v, got %v", newer.CreatedAt, list[0].CreatedAt)
	}
}

func TestOpenPostgresRequiresURL(t *testing.T) {
	if _, err := OpenPostgres(context.Background(), ""); err == nil {
		t.Error("expected an error without a database url")
	}
}
