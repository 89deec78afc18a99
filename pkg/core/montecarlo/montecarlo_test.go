package montecarlo

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/camayank/StartupValuator-sub001/pkg/core/assumption"
	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

func seed(v uint64) *uint64 { return &v }

// convergenceRequest has a closed-form mean:
// base × 1.10 × 1.20 × (50/100) / 1.10 = 0.6 × base.
func convergenceRequest(batches, size int) Request {
	return Request{
		BaseValue: 1000,
		Variables: Variables{
			Revenue:    AmountDistribution{Mean: 50},
			MarketSize: AmountDistribution{Mean: 100},
			Growth:     RateDistribution{Mean: 10, Std: 5},
			Margin:     RateDistribution{Mean: 20, Std: 2},
			Discount:   RateDistribution{Mean: 10},
		},
		NumBatches: batches,
		BatchSize:  size,
		Seed:       seed(42),
	}
}

func TestSimulateConvergesToAnalyticMean(t *testing.T) {
	eng := New(Config{Workers: 4}, nil)
	res, err := eng.Simulate(context.Background(), convergenceRequest(20, 500))
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.Trials != 10000 {
		t.Fatalf("expected 10000 trials, got %d", res.Summary.Trials)
	}

	want := 600.0
	se := res.Summary.StdDev / math.Sqrt(float64(res.Summary.Trials))
	if math.Abs(res.Summary.Mean-want) > 5*se {
		t.Errorf("expected mean within 5 SE of %v, got %v (SE %v)", want, res.Summary.Mean, se)
	}
	if res.Summary.MeanCI95.Low > want || res.Summary.MeanCI95.High < want {
		t.Logf("95%% CI %+v does not cover %v", res.Summary.MeanCI95, want)
	}
}

func TestConfidenceIntervalShrinksWithTrials(t *testing.T) {
	eng := New(Config{Workers: 2}, nil)
	small, err := eng.Simulate(context.Background(), convergenceRequest(2, 500))
	if err != nil {
		t.Fatal(err)
	}
	large, err := eng.Simulate(context.Background(), convergenceRequest(32, 500))
	if err != nil {
		t.Fatal(err)
	}
	ws := small.Summary.MeanCI95.High - small.Summary.MeanCI95.Low
	wl := large.Summary.MeanCI95.High - large.Summary.MeanCI95.Low
	if wl >= ws {
		t.Errorf("expected CI to shrink, got %v then %v", ws, wl)
	}
}

func TestSimulateReproducibleAcrossWorkerCounts(t *testing.T) {
	req := convergenceRequest(12, 100)
	req.Variables.Discount.Std = 2
	req.Variables.Revenue = AmountDistribution{Type: DistLognormal, Mean: 50, Std: 10}

	a, err := New(Config{Workers: 1}, nil).Simulate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(Config{Workers: 8}, nil).Simulate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Trials) != len(b.Trials) {
		t.Fatalf("expected equal trial counts, got %d and %d", len(a.Trials), len(b.Trials))
	}
	for i := range a.Trials {
		if math.Float64bits(a.Trials[i].Value) != math.Float64bits(b.Trials[i].Value) {
			t.Fatalf("trial %d differs: %v vs %v", i, a.Trials[i].Value, b.Trials[i].Value)
		}
	}
	if a.Seed != 42 {
		t.Errorf("expected seed 42, got %d", a.Seed)
	}
}

func TestSimulateReportsDrawnSeed(t *testing.T) {
	req := convergenceRequest(2, 50)
	req.Seed = nil
	res, err := New(Config{}, nil).Simulate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	req.Seed = seed(res.Seed)
	again, err := New(Config{}, nil).Simulate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if again.Summary.Mean != res.Summary.Mean {
		t.Errorf("expected replay with reported seed to match, got %v vs %v", again.Summary.Mean, res.Summary.Mean)
	}
}

func TestSimulateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(Config{Workers: 2}, nil).Simulate(ctx, convergenceRequest(50, 100))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res == nil || !res.Cancelled {
		t.Fatal("expected a partial result marked cancelled")
	}
	if res.CompletedBatches >= 50 {
		t.Errorf("expected fewer than 50 completed batches, got %d", res.CompletedBatches)
	}
	if len(res.Trials) != res.CompletedBatches*100 {
		t.Errorf("expected trials to match completed batches, got %d", len(res.Trials))
	}
}

func TestSimulateCapsTrials(t *testing.T) {
	res, err := New(Config{Workers: 2, MaxTrials: 1000}, nil).Simulate(context.Background(), convergenceRequest(10, 500))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Capped {
		t.Error("expected Capped")
	}
	if len(res.Trials) != 1000 || res.CompletedBatches != 2 {
		t.Errorf("expected 2 batches of 500, got %d batches / %d trials", res.CompletedBatches, len(res.Trials))
	}
}

func TestSimulateValidation(t *testing.T) {
	eng := New(Config{}, nil)
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero batches", func(r *Request) { r.NumBatches = 0 }},
		{"negative batch size", func(r *Request) { r.BatchSize = -1 }},
		{"nan base", func(r *Request) { r.BaseValue = math.NaN() }},
		{"bad triangular", func(r *Request) {
			r.Variables.Growth = RateDistribution{Type: DistTriangular, Min: 10, Mode: 5, Max: 20}
		}},
		{"unknown type", func(r *Request) { r.Variables.Revenue.Type = "cauchy" }},
		{"lognormal non-positive mean", func(r *Request) {
			r.Variables.MarketSize = AmountDistribution{Type: DistLognormal, Mean: 0, Std: 1}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := convergenceRequest(1, 10)
			tt.mutate(&req)
			if _, err := eng.Simulate(context.Background(), req); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAttributionSigns(t *testing.T) {
	req := convergenceRequest(10, 500)
	req.Variables.Discount.Std = 3
	res, err := New(Config{}, nil).Simulate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	attr := res.Summary.Attribution
	if attr["growth"] <= 0 {
		t.Errorf("expected positive growth attribution, got %v", attr["growth"])
	}
	if attr["discount"] >= 0 {
		t.Errorf("expected negative discount attribution, got %v", attr["discount"])
	}
	if attr["revenue"] != 0 {
		t.Errorf("expected zero attribution for a fixed driver, got %v", attr["revenue"])
	}
}

func TestSummaryPercentilesOrdered(t *testing.T) {
	res, err := New(Config{}, nil).Simulate(context.Background(), convergenceRequest(4, 250))
	if err != nil {
		t.Fatal(err)
	}
	p := res.Summary.Percentiles
	seq := []float64{res.Summary.Min, p.P5, p.P10, p.P25, p.P50, p.P75, p.P90, p.P95, res.Summary.Max}
	for i := 1; i < len(seq); i++ {
		if seq[i] < seq[i-1] {
			t.Fatalf("expected non-decreasing percentiles, got %v", seq)
		}
	}
	if res.Summary.CI95.Low > res.Summary.CI90.Low || res.Summary.CI95.High < res.Summary.CI90.High {
		t.Errorf("expected CI95 to contain CI90, got %+v and %+v", res.Summary.CI95, res.Summary.CI90)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Trials != 0 || s.Mean != 0 {
		t.Errorf("expected zero summary, got %+v", s)
	}
}

func TestTrialValue(t *testing.T) {
	if v := TrialValue(100, 50, 0, 0, 0, 0); v != 100 {
		t.Errorf("expected capacity 1 without market size, got %v", v)
	}
	if v := TrialValue(100, 200, 100, 0, 0, 0); v != 100 {
		t.Errorf("expected capacity capped at 1, got %v", v)
	}
	if v := TrialValue(100, -5, 100, 0, 0, 0); v != 0 {
		t.Errorf("expected capacity floored at 0, got %v", v)
	}
	if v := TrialValue(100, 50, 100, 0.1, 0.2, 0.1); math.Abs(v-60) > 1e-9 {
		t.Errorf("expected 60, got %v", v)
	}
}

func TestDistributionSampling(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	uni := AmountDistribution{Type: DistUniform, Min: 2, Max: 4}
	tri := AmountDistribution{Type: DistTriangular, Min: 0, Mode: 1, Max: 5}
	logn := AmountDistribution{Type: DistLognormal, Mean: 10, Std: 3}

	const n = 20000
	var sumTri, sumLog float64
	for i := 0; i < n; i++ {
		u := uni.Sample(r)
		if u < 2 || u > 4 {
			t.Fatalf("uniform sample out of range: %v", u)
		}
		x := tri.Sample(r)
		if x < 0 || x > 5 {
			t.Fatalf("triangular sample out of range: %v", x)
		}
		sumTri += x
		l := logn.Sample(r)
		if l <= 0 {
			t.Fatalf("lognormal sample not positive: %v", l)
		}
		sumLog += l
	}
	if math.Abs(sumTri/n-tri.Expected()) > 0.05 {
		t.Errorf("expected triangular mean near %v, got %v", tri.Expected(), sumTri/n)
	}
	if math.Abs(sumLog/n-10) > 0.15 {
		t.Errorf("expected lognormal mean near 10, got %v", sumLog/n)
	}
}

func TestDefaultVariables(t *testing.T) {
	in := models.ValuationInput{Revenue: 1e6}
	a := assumption.FinancialAssumptions{GrowthRate: 40, Margin: 5}
	v := DefaultVariables(in, a)

	if v.Revenue.Std != 150000 {
		t.Errorf("expected revenue std 150000, got %v", v.Revenue.Std)
	}
	if v.Growth.Std != 10 || v.Growth.Mean != 0 {
		t.Errorf("expected growth shock N(0,10), got %+v", v.Growth)
	}
	if v.Margin.Std != MinMarginShock {
		t.Errorf("expected margin shock floor, got %v", v.Margin.Std)
	}
	if v.MarketSize.Mean != 1e6 || v.MarketSize.Std != 0 {
		t.Errorf("expected market size pinned at revenue, got %+v", v.MarketSize)
	}

	req := DefaultRequest(5e6, in, a, seed(7))
	if _, err := New(Config{}, nil).Simulate(context.Background(), req); err != nil {
		t.Errorf("expected default request to run, got %v", err)
	}
}
