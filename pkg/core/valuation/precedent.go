package valuation

import (
	"fmt"
	"math"

	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

// Similarity weights and adjustment factors for comparable deals.
const (
	similaritySector = 0.4
	similarityStage  = 0.2
	similarityRegion = 0.2
	similaritySize   = 0.2

	annualDecay = 0.85
)

// DealScore is one comparable after similarity and adjustment.
type DealScore struct {
	Name             string
	Similarity       float64
	Weight           float64
	AdjustedMultiple float64
}

// ScoreDeal rates a comparable deal against the target company.
func ScoreDeal(in models.ValuationInput, tx models.Transaction) DealScore {
	var sim float64
	if tx.Sector == in.Sector {
		sim += similaritySector
	}
	if tx.Stage == in.Stage {
		sim += similarityStage
	}
	if tx.Region == in.Region {
		sim += similarityRegion
	}
	if tx.Revenue > 0 && in.Revenue > 0 {
		r := tx.Revenue / in.Revenue
		sim += similaritySize * math.Min(r, 1/r)
	}
	return DealScore{
		Name:             tx.Name,
		Similarity:       sim,
		Weight:           sim * math.Pow(annualDecay, tx.AgeYears),
		AdjustedMultiple: tx.RevenueMultiple * conditionFactor(tx.Condition),
	}
}

// conditionFactor deflates multiples struck in hot markets and inflates cold ones.
func conditionFactor(c models.MarketCondition) float64 {
	switch c {
	case models.MarketHot:
		return 0.9
	case models.MarketCold:
		return 1.1
	default:
		return 1.0
	}
}

// PrecedentTransactions values the company at the similarity-weighted median
// deal multiple. Caller-supplied deals take precedence over the sector table.
func PrecedentTransactions(ctx Context) Result {
	in := ctx.Input
	deals := in.Transactions
	fromTables := false
	if len(deals) == 0 {
		deals = ctx.Tables.Deals(in.Sector)
		fromTables = true
	}
	if len(deals) == 0 {
		return missing(MethodPrecedent, "precedent_transactions", string(in.Sector))
	}
	if in.Revenue <= 0 {
		return failure(MethodPrecedent, fmt.Errorf("precedent transactions: %w", ErrNoRevenue))
	}

	var multiples, weights []float64
	var simSum, weightSum float64
	for _, tx := range deals {
		s := ScoreDeal(in, tx)
		if s.Weight <= 0 || s.AdjustedMultiple <= 0 {
			continue
		}
		multiples = append(multiples, s.AdjustedMultiple)
		weights = append(weights, s.Weight)
		simSum += s.Similarity * s.Weight
		weightSum += s.Weight
	}
	if len(multiples) == 0 {
		return missing(MethodPrecedent, "precedent_transactions", "no deal with positive similarity")
	}

	median := weightedQuantile(multiples, weights, 0.5)
	low := weightedQuantile(multiples, weights, 0.25)
	high := weightedQuantile(multiples, weights, 0.75)
	avgSim := simSum / weightSum

	res := Result{
		Method:      MethodPrecedent,
		Value:       median * in.Revenue,
		Methodology: MethodPrecedent.Label(),
		Assumptions: map[string]float64{
			"deal_count":     float64(len(multiples)),
			"annual_decay":   annualDecay,
			"avg_similarity": avgSim,
		},
		Sensitivity: map[string]float64{},
		Breakdown: map[string]float64{
			"median_multiple": median,
			"p25_multiple":    low,
			"p75_multiple":    high,
		},
		Scenarios: &Scenarios{
			Worst: low * in.Revenue,
			Base:  median * in.Revenue,
			Best:  high * in.Revenue,
		},
		Confidence: math.Min(0.85, 0.4+0.4*avgSim),
		Status:     StatusOK,
	}
	if fromTables {
		res.Warnings = append(res.Warnings, "no comparable deals supplied; using sector benchmark deals")
		res.Confidence *= 0.85
	}
	return res
}
