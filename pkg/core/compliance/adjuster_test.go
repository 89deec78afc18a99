package compliance

import (
	"testing"

	"github.com/camayank/StartupValuator-sub001/pkg/core/assumption"
	"github.com/camayank/StartupValuator-sub001/pkg/core/benchmark"
	"github.com/camayank/StartupValuator-sub001/pkg/core/rate"
	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

func baseAssumptions(discount, terminal rate.Percent) assumption.FinancialAssumptions {
	a := assumption.FinancialAssumptions{
		Revenue:           1_000_000,
		Margin:            20,
		GrowthRate:        30,
		ProjectionYears:   5,
		FinalYearCashFlow: 742_586,
	}
	out, err := a.WithRates(discount, terminal)
	if err != nil {
		panic(err)
	}
	return out
}

func TestForContext(t *testing.T) {
	tables := benchmark.Default()
	tests := []struct {
		region  models.Region
		purpose models.Purpose
		want    string
	}{
		{models.RegionUS, models.PurposeESOP, benchmark.Framework409A},
		{models.RegionUS, models.PurposeFundraising, benchmark.FrameworkIVS},
		{models.RegionIndia, models.PurposeESOP, benchmark.FrameworkICAI},
		{models.RegionUK, models.PurposeExit, benchmark.FrameworkIFRS13},
		{models.RegionEU, models.PurposeOther, benchmark.FrameworkIFRS13},
		{models.RegionGlobal, models.PurposeESOP, benchmark.FrameworkIVS},
	}
	for _, tt := range tests {
		got := ForContext(tt.region, tt.purpose, tables)
		if got.ID != tt.want {
			t.Errorf("%s/%s: expected %s, got %s", tt.region, tt.purpose, tt.want, got.ID)
		}
	}
}

func TestApplyRaisesDiscountToFloor(t *testing.T) {
	f, _ := benchmark.Default().Framework(benchmark.Framework409A)
	in := baseAssumptions(15, 3)

	out, notes, err := NewAdjuster(nil).Apply(f, in)
	if err != nil {
		t.Fatal(err)
	}
	if out.DiscountRate != 20 {
		t.Errorf("expected discount 20, got %v", out.DiscountRate)
	}
	v := Violations(notes)
	if len(v) != 1 || v[0].Field != "discount_rate" || v[0].From != 15 || v[0].To != 20 {
		t.Errorf("expected one discount note 15->20, got %+v", v)
	}
	if out.TerminalValue >= in.TerminalValue {
		t.Errorf("expected terminal value to drop, got %v vs %v", out.TerminalValue, in.TerminalValue)
	}
	if len(notes)-len(v) != len(f.Disclosures) {
		t.Errorf("expected %d disclosures, got %d", len(f.Disclosures), len(notes)-len(v))
	}
}

func TestApplyCapsTerminalGrowth(t *testing.T) {
	f, _ := benchmark.Default().Framework(benchmark.FrameworkIFRS13)
	in := baseAssumptions(25, 6)

	out, notes, err := NewAdjuster(nil).Apply(f, in)
	if err != nil {
		t.Fatal(err)
	}
	if out.TerminalGrowthRate != 4 {
		t.Errorf("expected terminal growth 4, got %v", out.TerminalGrowthRate)
	}
	if out.DiscountRate != 25 {
		t.Errorf("expected discount unchanged, got %v", out.DiscountRate)
	}
	if len(Violations(notes)) != 1 {
		t.Errorf("expected a single violation note, got %+v", notes)
	}
}

func TestApplyZeroTerminalGrowthCap(t *testing.T) {
	f := Framework{ID: "flat", Name: "Flat", MaxTerminalGrowth: rate.Percent(0).Ptr(), MinSpread: 3}
	out, notes, err := NewAdjuster(nil).Apply(f, baseAssumptions(25, 3))
	if err != nil {
		t.Fatal(err)
	}
	if out.TerminalGrowthRate != 0 {
		t.Errorf("expected terminal growth capped at 0, got %v", out.TerminalGrowthRate)
	}
	if v := Violations(notes); len(v) != 1 || v[0].Field != "terminal_growth_rate" {
		t.Errorf("expected one terminal growth note, got %+v", v)
	}

	f.MaxTerminalGrowth = nil
	out, _, err = NewAdjuster(nil).Apply(f, baseAssumptions(25, 3))
	if err != nil {
		t.Fatal(err)
	}
	if out.TerminalGrowthRate != 3 {
		t.Errorf("expected uncapped terminal growth 3, got %v", out.TerminalGrowthRate)
	}
}

func TestApplyEnforcesSpread(t *testing.T) {
	f := Framework{ID: "custom", Name: "Custom", MinSpread: 3}
	in := baseAssumptions(6, 4)

	out, notes, err := NewAdjuster(nil).Apply(f, in)
	if err != nil {
		t.Fatal(err)
	}
	if out.DiscountRate != 7 {
		t.Errorf("expected discount raised to 7, got %v", out.DiscountRate)
	}
	if len(notes) != 1 {
		t.Errorf("expected one note, got %d", len(notes))
	}
}

func TestApplyKeepsDiscountAboveTerminalForAllContexts(t *testing.T) {
	tables := benchmark.Default()
	calc := assumption.NewCalculator()
	adj := NewAdjuster(nil)
	for _, region := range models.AllRegions {
		for _, purpose := range models.AllPurposes {
			for _, stage := range models.AllStages {
				for _, sector := range models.AllSectors {
					in := models.ValuationInput{
						Sector: sector, Region: region, Stage: stage, Purpose: purpose,
						Revenue: 500_000, GrowthRate: 40, Margin: 10, TeamExperienceYears: 20,
						IPStatus: models.IPRegistered, Differentiation: models.DifferentiationHigh,
					}
					a, err := calc.Derive(in, tables)
					if err != nil {
						t.Fatalf("%s/%s/%s/%s: %v", region, purpose, stage, sector, err)
					}
					out, _, err := adj.Apply(ForContext(region, purpose, tables), a)
					if err != nil {
						t.Fatalf("%s/%s/%s/%s: %v", region, purpose, stage, sector, err)
					}
					if out.DiscountRate <= out.TerminalGrowthRate {
						t.Fatalf("%s/%s/%s/%s: discount %v not above terminal %v",
							region, purpose, stage, sector, out.DiscountRate, out.TerminalGrowthRate)
					}
				}
			}
		}
	}
}

func TestApplyNoChangeNoViolation(t *testing.T) {
	f, _ := benchmark.Default().Framework(benchmark.FrameworkIVS)
	in := baseAssumptions(25, 3)
	out, notes, err := NewAdjuster(nil).Apply(f, in)
	if err != nil {
		t.Fatal(err)
	}
	if out.DiscountRate != in.DiscountRate || out.TerminalGrowthRate != in.TerminalGrowthRate {
		t.Error("expected rates unchanged")
	}
	if len(Violations(notes)) != 0 {
		t.Errorf("expected no violations, got %+v", notes)
	}
}
