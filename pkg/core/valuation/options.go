package valuation

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Real-option parameters.
const (
	optionStrikeRatio     = 0.8
	optionYears           = 5.0
	volatilityPerBeta     = 0.45
	minVolatility         = 0.2
	maxVolatility         = 1.2
	preRevenueProxyFactor = 0.1
)

// BlackScholesInput parameters for a European call.
type BlackScholesInput struct {
	Underlying float64
	Strike     float64
	Volatility float64 // annualized, fraction
	Years      float64
	RiskFree   float64 // fraction
}

// BlackScholesResult holds the call value and the intermediate terms.
type BlackScholesResult struct {
	CallValue float64
	D1        float64
	D2        float64
}

// CalculateBlackScholes prices a European call option.
func CalculateBlackScholes(in BlackScholesInput) BlackScholesResult {
	if in.Underlying <= 0 || in.Strike <= 0 || in.Volatility <= 0 || in.Years <= 0 {
		return BlackScholesResult{CallValue: math.Max(in.Underlying-in.Strike, 0)}
	}
	sqrtT := math.Sqrt(in.Years)
	d1 := (math.Log(in.Underlying/in.Strike) + (in.RiskFree+in.Volatility*in.Volatility/2)*in.Years) / (in.Volatility * sqrtT)
	d2 := d1 - in.Volatility*sqrtT
	call := in.Underlying*distuv.UnitNormal.CDF(d1) - in.Strike*math.Exp(-in.RiskFree*in.Years)*distuv.UnitNormal.CDF(d2)
	return BlackScholesResult{CallValue: call, D1: d1, D2: d2}
}

// RealOptions treats the growth opportunity as a call on the revenue-multiple
// value of the business, struck at the follow-on investment.
func RealOptions(ctx Context) Result {
	a := ctx.Assumptions
	var warnings []string

	underlying := a.Revenue * a.IndustryMultiple
	if a.Revenue <= 0 {
		if a.Peers == nil {
			return missing(MethodRealOptions, "peer_metrics", string(ctx.Input.Sector))
		}
		underlying = preRevenueProxyFactor * a.Peers.AverageRevenue * a.IndustryMultiple
		warnings = append(warnings, "pre-revenue: underlying proxied from 10% of peer average revenue")
	}

	sigma := clamp(a.Beta*volatilityPerBeta, minVolatility, maxVolatility)
	in := BlackScholesInput{
		Underlying: underlying,
		Strike:     optionStrikeRatio * underlying,
		Volatility: sigma,
		Years:      optionYears,
		RiskFree:   a.RiskFreeRate.Ratio().Float(),
	}
	bs := CalculateBlackScholes(in)

	confidence := 0.5
	if ctx.Input.Sector.IsResearchDriven() {
		confidence = 0.6
	}
	return Result{
		Method:      MethodRealOptions,
		Value:       bs.CallValue,
		Methodology: MethodRealOptions.Label(),
		Assumptions: map[string]float64{
			"risk_free_rate":    a.RiskFreeRate.Float(),
			"industry_multiple": a.IndustryMultiple,
			"beta":              a.Beta,
		},
		Sensitivity: map[string]float64{},
		Breakdown: map[string]float64{
			"underlying": in.Underlying,
			"strike":     in.Strike,
			"volatility": in.Volatility,
			"years":      in.Years,
			"d1":         bs.D1,
			"d2":         bs.D2,
		},
		Confidence: confidence,
		Status:     StatusOK,
		Warnings:   warnings,
	}
}
