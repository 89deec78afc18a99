package valuation

import (
	"fmt"
	"sort"
)

// MultiplesInput holds the target's metrics and its peer-group averages.
type MultiplesInput struct {
	Revenue    float64
	Growth     float64 // percentage points
	Margin     float64 // percentage points
	PeerMult   float64
	PeerGrowth float64
	PeerMargin float64
	PeerRev    float64
}

// MultiplesResult holds the adjusted multiple and the three factors.
type MultiplesResult struct {
	GrowthFactor     float64
	MarginFactor     float64
	ScaleFactor      float64
	AdjustedMultiple float64
	Value            float64
}

// CalculateMultiples applies growth, margin and scale factors to the peer multiple.
func CalculateMultiples(in MultiplesInput) MultiplesResult {
	res := MultiplesResult{
		GrowthFactor: relativeFactor(ratioTo(in.Growth, in.PeerGrowth)),
		MarginFactor: relativeFactor(ratioTo(in.Margin, in.PeerMargin)),
		ScaleFactor:  relativeFactor(ratioTo(in.Revenue, in.PeerRev)),
	}
	res.AdjustedMultiple = in.PeerMult * res.GrowthFactor * res.MarginFactor * res.ScaleFactor
	res.Value = in.Revenue * res.AdjustedMultiple
	return res
}

// relativeFactor maps a company/peer ratio to 1.1-1.3 at or above peer,
// 0.7-0.9 below.
func relativeFactor(rel float64) float64 {
	if rel >= 1 {
		return 1.1 + 0.2*clamp(rel-1, 0, 1)
	}
	return 0.9 - 0.2*clamp(1-rel, 0, 1)
}

func ratioTo(v, peer float64) float64 {
	if peer <= 0 {
		return 1
	}
	return v / peer
}

// MarketMultiples values the company off its sector peer group.
func MarketMultiples(ctx Context) Result {
	a := ctx.Assumptions
	if a.Peers == nil {
		return missing(MethodMarketMultiples, "peer_metrics", string(ctx.Input.Sector))
	}
	if a.Revenue <= 0 {
		return failure(MethodMarketMultiples, fmt.Errorf("market multiples: %w", ErrNoRevenue))
	}
	p := a.Peers
	res := CalculateMultiples(MultiplesInput{
		Revenue:    a.Revenue,
		Growth:     a.GrowthRate.Float(),
		Margin:     a.Margin.Float(),
		PeerMult:   p.RevenueMultiple,
		PeerGrowth: p.AverageGrowth.Float(),
		PeerMargin: p.AverageMargin.Float(),
		PeerRev:    p.AverageRevenue,
	})
	return Result{
		Method:      MethodMarketMultiples,
		Value:       res.Value,
		Methodology: MethodMarketMultiples.Label(),
		Assumptions: map[string]float64{
			"peer_multiple":        p.RevenueMultiple,
			"peer_average_growth":  p.AverageGrowth.Float(),
			"peer_average_margin":  p.AverageMargin.Float(),
			"peer_average_revenue": p.AverageRevenue,
		},
		Sensitivity: map[string]float64{},
		Breakdown: map[string]float64{
			"growth_factor":     res.GrowthFactor,
			"margin_factor":     res.MarginFactor,
			"scale_factor":      res.ScaleFactor,
			"adjusted_multiple": res.AdjustedMultiple,
		},
		Confidence: p.DataQuality.Score(),
		Status:     StatusOK,
	}
}

// weightedQuantile returns the q-quantile of values under the given weights.
// Ties on value are broken by input order so the result is deterministic.
func weightedQuantile(values, weights []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return values[idx[i]] < values[idx[j]] })

	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return values[idx[len(idx)/2]]
	}
	target := q * total
	var cum float64
	for _, i := range idx {
		cum += weights[i]
		if cum >= target {
			return values[i]
		}
	}
	return values[idx[len(idx)-1]]
}
