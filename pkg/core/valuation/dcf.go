package valuation

import (
	"fmt"

	"github.com/camayank/StartupValuator-sub001/pkg/core/assumption"
	"github.com/camayank/StartupValuator-sub001/pkg/core/rate"
	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

// DCFInput encapsulates all inputs required for a Discounted Cash Flow valuation
type DCFInput struct {
	Revenue        float64
	Growth         rate.Percent
	Margin         rate.Percent
	DiscountRate   rate.Percent
	TerminalGrowth rate.Percent
	Years          int
}

// DCFResult holds the valuation outputs
type DCFResult struct {
	EnterpriseValue float64
	PVCashFlows     float64
	TerminalValue   float64
	PVTerminal      float64
	CashFlows       []float64
	DiscountFactors []float64
	ImpliedMultiple float64 // EV / current revenue
}

// CalculateDCF projects cash flow as revenue × (1+g)^t × margin for each year,
// discounts at (1+d)^t and adds the discounted Gordon terminal value.
func CalculateDCF(input DCFInput) (DCFResult, error) {
	if err := models.CheckSpread("dcf", input.DiscountRate, input.TerminalGrowth); err != nil {
		return DCFResult{}, err
	}
	years := input.Years
	if years <= 0 {
		years = assumption.DefaultHorizon
	}

	d := input.DiscountRate.Ratio()
	res := DCFResult{
		CashFlows:       make([]float64, years),
		DiscountFactors: make([]float64, years),
	}
	for t := 1; t <= years; t++ {
		cf := assumption.CashFlow(input.Revenue, input.Growth, input.Margin, t)
		df := d.Discount(t)
		res.CashFlows[t-1] = cf
		res.DiscountFactors[t-1] = df
		res.PVCashFlows += cf * df
	}

	// Terminal Value (Gordon Growth) on the final projected year
	tv, err := assumption.TerminalValue(res.CashFlows[years-1], input.DiscountRate, input.TerminalGrowth)
	if err != nil {
		return DCFResult{}, err
	}
	res.TerminalValue = tv
	res.PVTerminal = tv * res.DiscountFactors[years-1]
	res.EnterpriseValue = res.PVCashFlows + res.PVTerminal
	if input.Revenue != 0 {
		res.ImpliedMultiple = res.EnterpriseValue / input.Revenue
	}
	return res, nil
}

func dcfInput(a assumption.FinancialAssumptions) DCFInput {
	return DCFInput{
		Revenue:        a.Revenue,
		Growth:         a.GrowthRate,
		Margin:         a.Margin,
		DiscountRate:   a.DiscountRate,
		TerminalGrowth: a.TerminalGrowthRate,
		Years:          a.ProjectionYears,
	}
}

// DCF is the method adapter over CalculateDCF.
func DCF(ctx Context) Result {
	a := ctx.Assumptions
	if a.Revenue <= 0 {
		return failure(MethodDCF, fmt.Errorf("dcf: %w", ErrNoRevenue))
	}
	in := dcfInput(a)
	res, err := CalculateDCF(in)
	if err != nil {
		return failure(MethodDCF, err)
	}

	out := Result{
		Method:      MethodDCF,
		Value:       res.EnterpriseValue,
		Methodology: MethodDCF.Label(),
		Assumptions: map[string]float64{
			"discount_rate":        a.DiscountRate.Float(),
			"growth_rate":          a.GrowthRate.Float(),
			"terminal_growth_rate": a.TerminalGrowthRate.Float(),
			"margin":               a.Margin.Float(),
			"projection_years":     float64(len(res.CashFlows)),
		},
		Sensitivity: DCFSensitivity(in),
		Breakdown: map[string]float64{
			"pv_cash_flows":     res.PVCashFlows,
			"terminal_value":    res.TerminalValue,
			"pv_terminal_value": res.PVTerminal,
			"implied_multiple":  res.ImpliedMultiple,
		},
		Confidence: dcfConfidence(ctx.Input.Stage),
		Status:     StatusOK,
	}
	for i, cf := range res.CashFlows {
		out.Breakdown[fmt.Sprintf("cash_flow_y%d", i+1)] = cf
		out.Breakdown[fmt.Sprintf("discount_factor_y%d", i+1)] = res.DiscountFactors[i]
	}
	if a.Margin <= 0 {
		out.Warnings = append(out.Warnings, "non-positive margin produces non-positive cash flows")
		out.Confidence *= 0.7
	}
	if res.EnterpriseValue > 0 && res.PVTerminal/res.EnterpriseValue > 0.85 {
		out.Warnings = append(out.Warnings, "terminal value exceeds 85% of enterprise value")
	}
	return out
}

func dcfConfidence(stage models.Stage) float64 {
	switch stage {
	case models.StageEstablished:
		return 0.85
	case models.StageRevenueGrowth:
		return 0.75
	case models.StageRevenueEarly:
		return 0.6
	case models.StageIdeation, models.StageMVP:
		return 0.35
	default:
		return 0.55
	}
}
