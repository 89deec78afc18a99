package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/camayank/StartupValuator-sub001/pkg/core/cache"
	"github.com/camayank/StartupValuator-sub001/pkg/core/rate"
	"github.com/camayank/StartupValuator-sub001/pkg/core/valuation"
	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

func exampleInput() models.ValuationInput {
	return models.ValuationInput{
		CompanyName:       "Example Tech",
		Sector:            models.SectorTechnology,
		Region:            models.RegionUS,
		Stage:             models.StageRevenueEarly,
		Purpose:           models.PurposeFundraising,
		Revenue:           1_000_000,
		GrowthRate:        30,
		Margin:            20,
		ScalabilityRating: 7,
	}
}

func TestRunExampleScenario(t *testing.T) {
	rep, err := New(Config{}).Run(context.Background(), exampleInput(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	d := rep.Assumptions.DiscountRate
	if d < 23 || d > 30 {
		t.Errorf("expected discount rate in [23, 30], got %v", d)
	}
	if d <= rep.Assumptions.TerminalGrowthRate {
		t.Errorf("expected discount above terminal growth, got %v <= %v", d, rep.Assumptions.TerminalGrowthRate)
	}
	dcf, ok := rep.Results[valuation.MethodDCF]
	if !ok || !dcf.OK() {
		t.Fatalf("expected a DCF result, got %+v", dcf)
	}
	if dcf.Value <= 0 || math.IsInf(dcf.Value, 0) || math.IsNaN(dcf.Value) {
		t.Errorf("expected positive finite DCF value, got %v", dcf.Value)
	}
	if rep.Hybrid.WeightedValue <= 0 {
		t.Errorf("expected positive weighted value, got %v", rep.Hybrid.WeightedValue)
	}
	if math.Abs(rep.Recommendation.Weights.Sum()-1) > 1e-9 {
		t.Errorf("expected weights to sum to 1, got %v", rep.Recommendation.Weights.Sum())
	}
	if rep.TablesVersion == "" {
		t.Error("expected tables version on the report")
	}
}

func TestRunRoundTripBitIdentical(t *testing.T) {
	eng := New(Config{})
	in := exampleInput()
	in.Transactions = []models.Transaction{
		{Name: "A", Sector: models.SectorTechnology, Stage: models.StageRevenueEarly, Region: models.RegionUS, Revenue: 2e6, RevenueMultiple: 9, AgeYears: 1},
		{Name: "B", Sector: models.SectorFintech, Stage: models.StageMVP, Region: models.RegionEU, Revenue: 5e5, RevenueMultiple: 14, AgeYears: 3},
	}

	first, err := eng.Run(context.Background(), in, Options{AllMethods: true})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := json.Marshal(first)
	for i := 0; i < 10; i++ {
		again, err := eng.Run(context.Background(), in, Options{AllMethods: true})
		if err != nil {
			t.Fatal(err)
		}
		if math.Float64bits(again.Hybrid.WeightedValue) != math.Float64bits(first.Hybrid.WeightedValue) {
			t.Fatalf("expected bit-identical weighted value on run %d", i)
		}
		b, _ := json.Marshal(again)
		if !bytes.Equal(a, b) {
			t.Fatalf("expected identical report on run %d", i)
		}
	}
}

func TestRunForcedRatesRejected(t *testing.T) {
	in := exampleInput()
	d, g := rate.Percent(10), rate.Percent(12)
	in.ForcedDiscountRate, in.ForcedTerminalGrowth = &d, &g

	_, err := New(Config{}).Run(context.Background(), in, Options{})
	var ia *models.InvalidAssumptionError
	if !errors.As(err, &ia) {
		t.Fatalf("expected InvalidAssumptionError, got %v", err)
	}
	if ia.DiscountRate != 10 || ia.TerminalGrowthRate != 12 {
		t.Errorf("expected offending rates 10/12, got %v/%v", ia.DiscountRate, ia.TerminalGrowthRate)
	}
}

func TestRunRejectsOutOfRangeInput(t *testing.T) {
	in := exampleInput()
	in.Revenue = -5
	_, err := New(Config{}).Run(context.Background(), in, Options{})
	var oor *models.OutOfRangeError
	if !errors.As(err, &oor) || oor.Field != "revenue" {
		t.Fatalf("expected out of range revenue, got %v", err)
	}
}

func TestRunLossMakingScenarioOrder(t *testing.T) {
	in := exampleInput()
	in.Sector = models.SectorManufacturing
	in.Stage = models.StageEstablished
	in.Purpose = models.PurposeESOP
	in.Margin = -40
	rep, err := New(Config{}).Run(context.Background(), in, Options{AllMethods: true})
	if err != nil {
		t.Fatal(err)
	}
	if dcf := rep.Results[valuation.MethodDCF]; !dcf.OK() || dcf.Value >= 0 {
		t.Fatalf("expected a negative DCF value, got %+v", dcf)
	}
	s := rep.Hybrid.Scenarios
	if !(s.Worst <= s.Base && s.Base <= s.Best) {
		t.Errorf("expected worst <= base <= best, got %+v", s)
	}
}

func TestRunPreRevenue(t *testing.T) {
	in := models.ValuationInput{
		CompanyName: "Idea Co", Sector: "saas", Region: "india", Stage: "ideation",
		TeamExperienceYears: 3, IPStatus: "none", Differentiation: "high",
	}
	rep, err := New(Config{}).Run(context.Background(), in, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := rep.Recommendation.Weights[valuation.MethodDCF]; ok {
		t.Error("expected DCF to be dropped for a pre-revenue company")
	}
	if rep.Hybrid.WeightedValue <= 0 {
		t.Errorf("expected positive qualitative value, got %v", rep.Hybrid.WeightedValue)
	}
	if rep.Framework.ID != "icai" {
		t.Errorf("expected icai for india, got %s", rep.Framework.ID)
	}
}

func TestRunAllMethods(t *testing.T) {
	rep, err := New(Config{}).Run(context.Background(), exampleInput(), Options{AllMethods: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Results) != len(valuation.AllMethods) {
		t.Errorf("expected %d results, got %d", len(valuation.AllMethods), len(rep.Results))
	}
}

func TestRunStageCrossCheck(t *testing.T) {
	in := exampleInput()
	in.Stage = models.StageEstablished
	in.StageMetrics = &models.StageMetrics{FCF: 1e6, WACC: 12, LongTermGrowth: 3}
	rep, err := New(Config{}).Run(context.Background(), in, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if rep.StageCheck == nil || rep.StageCheck.Value <= 0 {
		t.Fatalf("expected a growth cross-check, got %+v", rep.StageCheck)
	}

	in.StageMetrics = &models.StageMetrics{FCF: 1e6, WACC: 3, LongTermGrowth: 3}
	rep, err = New(Config{}).Run(context.Background(), in, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if rep.StageCheck != nil || len(rep.Warnings) != 1 {
		t.Errorf("expected the failed cross-check as a warning, got %+v / %v", rep.StageCheck, rep.Warnings)
	}

	in.Stage = models.StageIdeation
	in.StageMetrics = &models.StageMetrics{TAM: 1e6, TeamScore: 2}
	if _, err := New(Config{}).Run(context.Background(), in, Options{}); !errors.Is(err, models.ErrOutOfRangeInput) {
		t.Errorf("expected out of range stage metrics to reject the run, got %v", err)
	}
}

func TestRunStageMetricsForAnotherModel(t *testing.T) {
	in := exampleInput()
	in.Stage = models.StageMVP
	in.StageMetrics = &models.StageMetrics{TAM: 5e6, TeamScore: 0.7}
	rep, err := New(Config{}).Run(context.Background(), in, Options{})
	if err != nil {
		t.Fatalf("expected the run to succeed, got %v", err)
	}
	if rep.StageCheck != nil || len(rep.Warnings) != 1 {
		t.Errorf("expected a mismatch warning, got %+v / %v", rep.StageCheck, rep.Warnings)
	}
}

func TestRunRejectsStageMetricsBeforeDerivation(t *testing.T) {
	in := exampleInput()
	in.Stage = models.StageMVP
	in.StageMetrics = &models.StageMetrics{MRR: 500}
	in.ForcedDiscountRate = rate.Percent(10).Ptr()
	in.ForcedTerminalGrowth = rate.Percent(12).Ptr()
	_, err := New(Config{}).Run(context.Background(), in, Options{})
	var oor *models.OutOfRangeError
	if !errors.As(err, &oor) || oor.Field != "stage_metrics.mrr" {
		t.Fatalf("expected mrr out of range ahead of any assumption error, got %v", err)
	}
}

func TestRunUsesCache(t *testing.T) {
	c := cache.New[*Report](time.Hour, nil)
	eng := New(Config{Cache: c})

	first, err := eng.Run(context.Background(), exampleInput(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected one cached report, got %d", c.Len())
	}
	second, err := eng.Run(context.Background(), exampleInput(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if second.Hybrid.WeightedValue != first.Hybrid.WeightedValue {
		t.Error("expected cached report to match")
	}

	changed := exampleInput()
	changed.Revenue = 2_000_000
	if _, err := eng.Run(context.Background(), changed, Options{}); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Errorf("expected a new entry for a different input, got %d", c.Len())
	}
}

func TestRunWithSimulation(t *testing.T) {
	eng := New(Config{DefaultBatches: 4, DefaultBatchSize: 200})
	seed := uint64(99)

	a, err := eng.Run(context.Background(), exampleInput(), Options{Simulate: true, Seed: &seed})
	if err != nil {
		t.Fatal(err)
	}
	if a.Simulation == nil || a.Simulation.Summary.Trials != 800 {
		t.Fatalf("expected 800 trials, got %+v", a.Simulation)
	}
	b, err := eng.Run(context.Background(), exampleInput(), Options{Simulate: true, Seed: &seed})
	if err != nil {
		t.Fatal(err)
	}
	if a.Simulation.Summary.Mean != b.Simulation.Summary.Mean {
		t.Errorf("expected seeded simulations to match, got %v vs %v", a.Simulation.Summary.Mean, b.Simulation.Summary.Mean)
	}
	if a.Simulation.Summary.Percentiles.P50 <= 0 {
		t.Errorf("expected positive median, got %v", a.Simulation.Summary.Percentiles.P50)
	}
}

func TestRunSimulationCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep, err := New(Config{}).Run(ctx, exampleInput(), Options{Simulate: true})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if rep == nil || rep.Simulation == nil || !rep.Simulation.Cancelled {
		t.Fatal("expected the report with a cancelled simulation")
	}
	if rep.Hybrid.WeightedValue <= 0 {
		t.Error("expected the deterministic result to survive cancellation")
	}
}
