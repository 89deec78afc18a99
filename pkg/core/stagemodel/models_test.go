package stagemodel

import (
	"errors"
	"math"
	"testing"

	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

func TestPreSeedScorecard(t *testing.T) {
	res, err := Calculate(PreSeed, models.StageMetrics{TAM: 5_000_000, TeamScore: 0.8, CurrentTraction: 100_000})
	if err != nil {
		t.Fatal(err)
	}
	want := 5_000_000*0.4 + 0.8*1_000_000*0.6
	if math.Abs(res.Value-want) > 0.01 {
		t.Errorf("expected %v, got %v", want, res.Value)
	}
	if res.Methodology != "Pre-Seed Scorecard" {
		t.Errorf("expected Pre-Seed Scorecard, got %s", res.Methodology)
	}
	for name, v := range res.RiskFactors {
		if v < 0 || v > 1 {
			t.Errorf("expected risk %s in [0,1], got %v", name, v)
		}
	}
	if math.Abs(res.Confidence-0.254) > 1e-9 {
		t.Errorf("expected confidence 0.254, got %v", res.Confidence)
	}
}

func TestSeedBottomUp(t *testing.T) {
	m := models.StageMetrics{MRR: 20_000, MoMGrowth: 10, Churn: 5, CAC: 100, LTV: 1000}
	res, err := Calculate(Seed, m)
	if err != nil {
		t.Fatal(err)
	}
	want := 20_000 * math.Pow(1.1, 12) * 12 * 1.1 / 0.05
	if math.Abs(res.Value-want)/want > 1e-12 {
		t.Errorf("expected %v, got %v", want, res.Value)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("expected no CAC/LTV warning, got %v", res.Warnings)
	}

	m.CAC = 500
	flagged, err := Calculate(Seed, m)
	if err != nil {
		t.Fatal(err)
	}
	if len(flagged.Warnings) != 1 {
		t.Fatalf("expected CAC/LTV warning, got %v", flagged.Warnings)
	}
	if flagged.Confidence >= res.Confidence {
		t.Errorf("expected lower confidence with weak unit economics, got %v vs %v", flagged.Confidence, res.Confidence)
	}
}

func TestSeedRejectsSmallMRR(t *testing.T) {
	_, err := Calculate(Seed, models.StageMetrics{MRR: 5_000, Churn: 5})
	var oor *models.OutOfRangeError
	if !errors.As(err, &oor) || oor.Field != "stage_metrics.mrr" {
		t.Fatalf("expected out of range on mrr, got %v", err)
	}
}

func TestSeriesAHybrid(t *testing.T) {
	res, err := Calculate(SeriesA, models.StageMetrics{
		DCFValue: 10e6, ComparableValue: 8e6,
		EquityRatio: 80, DebtRatio: 20,
		CostOfEquity: 20, CostOfDebt: 8, TaxRate: 25,
	})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.Value-9.2e6) > 1e-6 {
		t.Errorf("expected 9.2M, got %v", res.Value)
	}
	if got := res.RiskFactors["cost_of_capital_risk"]; math.Abs(got-17.2/15) > 1e-9 {
		t.Errorf("expected WACC risk %v, got %v", 17.2/15, got)
	}
	if got := res.RiskFactors["valuation_divergence"]; math.Abs(got-0.2) > 1e-12 {
		t.Errorf("expected divergence 0.2, got %v", got)
	}
}

func TestGrowthTerminalValue(t *testing.T) {
	tests := []struct {
		region string
		mult   float64
	}{
		{"north_america", 1.0},
		{"Europe", 0.9},
		{"asia_pacific", 0.85},
		{"mars", DefaultRegionMultiplier},
	}
	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			res, err := Calculate(Growth, models.StageMetrics{FCF: 1e6, WACC: 12, LongTermGrowth: 3, MarketRegion: tt.region})
			if err != nil {
				t.Fatal(err)
			}
			want := 1e6 * 1.03 / 0.09 * tt.mult
			if math.Abs(res.Value-want)/want > 1e-12 {
				t.Errorf("expected %v, got %v", want, res.Value)
			}
		})
	}
}

func TestGrowthRejectsWACCAtGrowth(t *testing.T) {
	_, err := Calculate(Growth, models.StageMetrics{FCF: 1e6, WACC: 3, LongTermGrowth: 3})
	if !errors.Is(err, models.ErrInvalidAssumption) {
		t.Fatalf("expected ErrInvalidAssumption, got %v", err)
	}
}

func TestUnknownStage(t *testing.T) {
	if _, err := Calculate("series_z", models.StageMetrics{}); !errors.Is(err, ErrUnknownStage) {
		t.Fatalf("expected ErrUnknownStage, got %v", err)
	}
	if _, err := Rules("series_z"); !errors.Is(err, ErrUnknownStage) {
		t.Fatalf("expected ErrUnknownStage from Rules, got %v", err)
	}
}

func TestCrossCheck(t *testing.T) {
	none, err := CrossCheck(models.ValuationInput{Stage: models.StageIdeation})
	if err != nil || none != nil {
		t.Fatalf("expected nil without stage metrics, got %v, %v", none, err)
	}

	other, err := CrossCheck(models.ValuationInput{Stage: models.StageOther, StageMetrics: &models.StageMetrics{}})
	if err != nil || other != nil {
		t.Fatalf("expected nil for a stage without a model, got %v, %v", other, err)
	}

	in := models.ValuationInput{
		Stage:        models.StageEstablished,
		Region:       models.RegionUK,
		StageMetrics: &models.StageMetrics{FCF: 2e6, WACC: 10, LongTermGrowth: 2},
	}
	res, err := CrossCheck(in)
	if err != nil {
		t.Fatal(err)
	}
	want := 2e6 * 1.02 / 0.08 * 0.9
	if res.Stage != Growth || math.Abs(res.Value-want)/want > 1e-12 {
		t.Errorf("expected growth model with europe multiplier (%v), got %+v", want, res)
	}
	if in.StageMetrics.MarketRegion != "" {
		t.Error("expected caller metrics to stay untouched")
	}
}

func TestCrossCheckMismatchedMetrics(t *testing.T) {
	in := models.ValuationInput{
		Stage:        models.StageMVP,
		StageMetrics: &models.StageMetrics{TAM: 5e6, TeamScore: 0.7, CurrentTraction: 1e4},
	}
	if err := ValidateInput(in); err != nil {
		t.Fatalf("expected metrics for another model to pass validation, got %v", err)
	}
	res, err := CrossCheck(in)
	if !errors.Is(err, ErrMetricsMismatch) || res != nil {
		t.Errorf("expected ErrMetricsMismatch, got %v, %v", res, err)
	}
}

func TestValidateInputChecksMatchingModel(t *testing.T) {
	in := models.ValuationInput{
		Stage:        models.StageMVP,
		StageMetrics: &models.StageMetrics{MRR: 20_000, MoMGrowth: 10},
	}
	var oor *models.OutOfRangeError
	if err := ValidateInput(in); !errors.As(err, &oor) || oor.Field != "stage_metrics.churn" {
		t.Fatalf("expected churn out of range, got %v", err)
	}
	if err := ValidateInput(models.ValuationInput{Stage: models.StageMVP}); err != nil {
		t.Errorf("expected nil without stage metrics, got %v", err)
	}
}
