package assumption

import (
	"fmt"

	"github.com/camayank/StartupValuator-sub001/pkg/core/benchmark"
	"github.com/camayank/StartupValuator-sub001/pkg/core/rate"
	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

const (
	// DefaultHorizon is the explicit projection period in years.
	DefaultHorizon = 5
	// DefaultTerminalSpread is how far terminal growth sits below the risk-free rate.
	DefaultTerminalSpread rate.Percent = 1.5
	// DefaultGrowth applies when neither the input nor the tables give a growth rate.
	DefaultGrowth rate.Percent = 30
)

// Calculator derives FinancialAssumptions. The zero value is not usable; use NewCalculator.
type Calculator struct {
	Horizon        int
	TerminalSpread rate.Percent
	DefaultGrowth  rate.Percent
}

// NewCalculator returns a calculator with the standard horizon and spreads.
func NewCalculator() *Calculator {
	return &Calculator{
		Horizon:        DefaultHorizon,
		TerminalSpread: DefaultTerminalSpread,
		DefaultGrowth:  DefaultGrowth,
	}
}

// Derive validates the input and computes the assumptions for one run.
// Failures are *models.OutOfRangeError or *models.InvalidAssumptionError.
func (c *Calculator) Derive(in models.ValuationInput, tables *benchmark.Tables) (FinancialAssumptions, error) {
	in = in.Normalize()
	if err := Validate(in); err != nil {
		return FinancialAssumptions{}, err
	}

	rf := tables.RiskFreeRate(in.Region)
	mrp := tables.MarketPremium(in.Region)
	beta := tables.Beta(in.Sector, in.Region)
	breakdown := CompanyRiskPremium(in)

	a := FinancialAssumptions{
		ProjectionYears:            c.Horizon,
		Beta:                       beta,
		RiskFreeRate:               rf,
		MarketRiskPremium:          mrp,
		CompanySpecificRiskPremium: breakdown.Total(),
		RiskPremium:                breakdown,
		Revenue:                    in.Revenue,
		Margin:                     in.Margin,
		IndustryMultiple:           tables.IndustryMultiple(in.Sector),
		IndustryDataQuality:        benchmark.QualityLow,
	}
	a.DiscountRate = a.CostOfEquity() + a.CompanySpecificRiskPremium
	a.TerminalGrowthRate = rf - c.TerminalSpread
	a.GrowthRate, a.GrowthSource = c.growth(in, tables)

	if peers, ok := tables.PeerGroup(in.Sector); ok {
		p := peers
		a.Peers = &p
		a.IndustryDataQuality = peers.DataQuality
	}

	if in.ForcedDiscountRate != nil {
		a.DiscountRate = *in.ForcedDiscountRate
		a.DiscountForced = true
	}
	if in.ForcedTerminalGrowth != nil {
		a.TerminalGrowthRate = *in.ForcedTerminalGrowth
		a.TerminalForced = true
	}

	a.FinalYearCashFlow = CashFlow(in.Revenue, a.GrowthRate, in.Margin, c.Horizon)
	tv, err := TerminalValue(a.FinalYearCashFlow, a.DiscountRate, a.TerminalGrowthRate)
	if err != nil {
		return FinancialAssumptions{}, err
	}
	a.TerminalValue = tv
	return a, nil
}

func (c *Calculator) growth(in models.ValuationInput, tables *benchmark.Tables) (rate.Percent, GrowthSource) {
	if in.GrowthRate != 0 {
		return in.GrowthRate, GrowthFromInput
	}
	if g, ok := tables.GrowthBenchmark(in.Sector, in.Stage); ok {
		return g, GrowthFromBenchmark
	}
	return c.DefaultGrowth, GrowthFromDefault
}

// CashFlow projects revenue × (1+g)^year × margin.
func CashFlow(revenue float64, growth, margin rate.Percent, year int) float64 {
	return revenue * growth.Ratio().Compound(year) * margin.Ratio().Float()
}

// TerminalValue applies the Gordon Growth Model to the final-year cash flow.
// The spread check runs before the division.
func TerminalValue(finalYearCashFlow float64, discount, terminal rate.Percent) (float64, error) {
	if err := models.CheckSpread("terminal value", discount, terminal); err != nil {
		return 0, err
	}
	d := discount.Ratio().Float()
	g := terminal.Ratio().Float()
	return finalYearCashFlow * (1 + g) / (d - g), nil
}

// =============================================================================
// INPUT VALIDATION
// =============================================================================

// Validate rejects inputs outside the ranges the engine accepts.
func Validate(in models.ValuationInput) error {
	checks := []struct {
		field    string
		v        float64
		min, max float64
	}{
		{"revenue", in.Revenue, 0, 1e15},
		{"margin", in.Margin.Float(), -100, 100},
		{"growth_rate", in.GrowthRate.Float(), -100, 1000},
		{"scalability_rating", in.ScalabilityRating, 0, 10},
		{"team_experience_years", in.TeamExperienceYears, 0, 60},
		{"target_market_size", in.TargetMarketSize, 0, 1e16},
		{"rd_intensity", in.RDIntensity.Float(), 0, 100},
	}
	for _, ch := range checks {
		if err := models.CheckRange(ch.field, ch.v, ch.min, ch.max); err != nil {
			return err
		}
	}

	if in.Scorecard != nil {
		if err := checkRatings("scorecard", in.Scorecard.Values()); err != nil {
			return err
		}
	}
	if in.Berkus != nil {
		if err := checkRatings("berkus", in.Berkus.Values()); err != nil {
			return err
		}
	}
	if in.RiskFactors != nil {
		for i, v := range in.RiskFactors.Values() {
			field := "risk_factors." + models.RiskFactorNames[i]
			if err := models.CheckRange(field, float64(v), -2, 2); err != nil {
				return err
			}
		}
	}
	for i, tx := range in.Transactions {
		prefix := fmt.Sprintf("transactions[%d].", i)
		if err := models.CheckRange(prefix+"revenue_multiple", tx.RevenueMultiple, 0, 1000); err != nil {
			return err
		}
		if err := models.CheckRange(prefix+"revenue", tx.Revenue, 0, 1e15); err != nil {
			return err
		}
		if err := models.CheckRange(prefix+"age_years", tx.AgeYears, 0, 50); err != nil {
			return err
		}
	}
	return nil
}

func checkRatings(group string, values []float64) error {
	for i, v := range values {
		if err := models.CheckRange(fmt.Sprintf("%s[%d]", group, i), v, 0, 10); err != nil {
			return err
		}
	}
	return nil
}
