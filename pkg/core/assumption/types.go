// Package assumption derives the financial assumptions for one valuation run:
// discount rate (CAPM plus a company-specific premium), growth, terminal
// growth, terminal value and the peer benchmarks later methods read.
package assumption

import (
	"github.com/camayank/StartupValuator-sub001/pkg/core/benchmark"
	"github.com/camayank/StartupValuator-sub001/pkg/core/rate"
)

// GrowthSource records where the growth rate came from.
type GrowthSource string

const (
	GrowthFromInput     GrowthSource = "input"
	GrowthFromBenchmark GrowthSource = "benchmark"
	GrowthFromDefault   GrowthSource = "default"
	GrowthForced        GrowthSource = "forced"
)

// =============================================================================
// FINANCIAL ASSUMPTIONS
// =============================================================================

// FinancialAssumptions is owned by a single run and never shared.
type FinancialAssumptions struct {
	DiscountRate       rate.Percent `json:"discount_rate"`
	GrowthRate         rate.Percent `json:"growth_rate"`
	GrowthSource       GrowthSource `json:"growth_source"`
	TerminalGrowthRate rate.Percent `json:"terminal_growth_rate"`
	TerminalValue      float64      `json:"terminal_value"`
	FinalYearCashFlow  float64      `json:"final_year_cash_flow"`
	ProjectionYears    int          `json:"projection_years"`

	Beta                       float64      `json:"beta"`
	RiskFreeRate               rate.Percent `json:"risk_free_rate"`
	MarketRiskPremium          rate.Percent `json:"market_risk_premium"`
	CompanySpecificRiskPremium rate.Percent `json:"company_specific_risk_premium"`
	RiskPremium                Breakdown    `json:"risk_premium_breakdown"`

	Revenue          float64      `json:"revenue"`
	Margin           rate.Percent `json:"margin"`
	IndustryMultiple float64      `json:"industry_multiple"`

	// Peers is nil when the sector has no peer table.
	Peers               *benchmark.PeerMetrics `json:"peers,omitempty"`
	IndustryDataQuality benchmark.Quality      `json:"industry_data_quality"`

	DiscountForced bool `json:"discount_forced,omitempty"`
	TerminalForced bool `json:"terminal_forced,omitempty"`
}

// Breakdown itemizes the company-specific risk premium.
type Breakdown struct {
	Stage           rate.Percent `json:"stage"`
	IP              rate.Percent `json:"ip"`
	Differentiation rate.Percent `json:"differentiation"`
	Team            rate.Percent `json:"team"`
}

// Total sums the four penalty terms.
func (b Breakdown) Total() rate.Percent {
	return b.Stage + b.IP + b.Differentiation + b.Team
}

// CostOfEquity is the CAPM part of the discount rate, before the company premium.
func (a FinancialAssumptions) CostOfEquity() rate.Percent {
	return a.RiskFreeRate + rate.Percent(a.Beta*a.MarketRiskPremium.Float())
}

// WithRates returns a copy using the given discount and terminal growth rates,
// with the terminal value recomputed. It fails when discount <= terminal growth.
func (a FinancialAssumptions) WithRates(discount, terminal rate.Percent) (FinancialAssumptions, error) {
	tv, err := TerminalValue(a.FinalYearCashFlow, discount, terminal)
	if err != nil {
		return a, err
	}
	a.DiscountRate = discount
	a.TerminalGrowthRate = terminal
	a.TerminalValue = tv
	return a, nil
}

// WithGrowth returns a copy projected at a different growth rate.
func (a FinancialAssumptions) WithGrowth(growth rate.Percent) (FinancialAssumptions, error) {
	a.GrowthRate = growth
	a.FinalYearCashFlow = CashFlow(a.Revenue, growth, a.Margin, a.ProjectionYears)
	tv, err := TerminalValue(a.FinalYearCashFlow, a.DiscountRate, a.TerminalGrowthRate)
	if err != nil {
		return a, err
	}
	a.TerminalValue = tv
	return a, nil
}
