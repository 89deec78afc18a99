package montecarlo

import (
	"math"

	"github.com/camayank/StartupValuator-sub001/pkg/core/assumption"
	"github.com/camayank/StartupValuator-sub001/pkg/core/rate"
	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

// Default shock widths. Rate drivers are shocks around the base valuation,
// so their means are zero.
const (
	RevenueSpread    = 0.15
	MinGrowthShock   = 5.0
	GrowthShockShare = 0.25
	MinMarginShock   = 2.0
	MarginShockShare = 0.2
	DiscountShock    = 2.0
	DefaultBatches   = 20
	DefaultBatchSize = 500
)

// DefaultVariables derives driver distributions from a run's input and
// assumptions. Market size sits at expected revenue with no spread, so
// revenue above plan is capped and a shortfall scales the value down.
func DefaultVariables(in models.ValuationInput, a assumption.FinancialAssumptions) Variables {
	revenue := math.Max(in.Revenue, 0)
	growth := math.Max(MinGrowthShock, GrowthShockShare*math.Abs(a.GrowthRate.Float()))
	margin := math.Max(MinMarginShock, MarginShockShare*math.Abs(a.Margin.Float()))

	return Variables{
		Revenue:    AmountDistribution{Type: DistNormal, Mean: revenue, Std: RevenueSpread * revenue},
		MarketSize: AmountDistribution{Type: DistNormal, Mean: revenue},
		Growth:     RateDistribution{Type: DistNormal, Std: rate.Percent(growth)},
		Margin:     RateDistribution{Type: DistNormal, Std: rate.Percent(margin)},
		Discount:   RateDistribution{Type: DistNormal, Std: DiscountShock},
	}
}

// DefaultRequest builds a request around a base value with the default
// variables and batch layout.
func DefaultRequest(base float64, in models.ValuationInput, a assumption.FinancialAssumptions, seed *uint64) Request {
	return Request{
		BaseValue:  base,
		Variables:  DefaultVariables(in, a),
		NumBatches: DefaultBatches,
		BatchSize:  DefaultBatchSize,
		Seed:       seed,
	}
}
