package valuation

import "github.com/camayank/StartupValuator-sub001/pkg/core/rate"

// WACCInput parameters for calculating Cost of Capital
type WACCInput struct {
	UnleveredBeta     float64
	RiskFreeRate      rate.Percent
	MarketRiskPremium rate.Percent
	CostOfEquity      rate.Percent // when set, replaces the CAPM estimate
	PreTaxCostOfDebt  rate.Percent
	TaxRate           rate.Percent
	DebtToEquityRatio float64 // Target Leverage (D/E)
}

// WACCResult holds the calculated rates
type WACCResult struct {
	LeveredBeta  float64
	CostOfEquity rate.Percent
	CostOfDebt   rate.Percent // After-tax
	WACC         rate.Percent
	WeightDebt   float64
	WeightEquity float64
}

// CalculateWACC computes the Weighted Average Cost of Capital using CAPM and Hamada Equation
func CalculateWACC(input WACCInput) WACCResult {
	t := input.TaxRate.Ratio().Float()

	// Re-lever Beta (Hamada): BetaL = BetaU * (1 + (1-t)*(D/E))
	leveredBeta := input.UnleveredBeta * (1 + (1-t)*input.DebtToEquityRatio)

	// Cost of Equity (CAPM): Ke = Rf + BetaL * ERP
	ke := input.CostOfEquity
	if ke == 0 {
		ke = input.RiskFreeRate + rate.Percent(leveredBeta*input.MarketRiskPremium.Float())
	}

	kd := rate.Percent(input.PreTaxCostOfDebt.Float() * (1 - t))

	// D/E = x -> Wd = x/(1+x), We = 1/(1+x)
	wd := input.DebtToEquityRatio / (1 + input.DebtToEquityRatio)
	we := 1.0 / (1 + input.DebtToEquityRatio)

	return WACCResult{
		LeveredBeta:  leveredBeta,
		CostOfEquity: ke,
		CostOfDebt:   kd,
		WACC:         rate.Percent(ke.Float()*we + kd.Float()*wd),
		WeightDebt:   wd,
		WeightEquity: we,
	}
}
