package valuation

import (
	"fmt"
	"sort"

	"github.com/camayank/StartupValuator-sub001/pkg/core/assumption"
	"github.com/camayank/StartupValuator-sub001/pkg/core/benchmark"
	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

// Calculate runs a single method.
func Calculate(m Method, ctx Context) Result {
	switch m {
	case MethodDCF:
		return DCF(ctx)
	case MethodMarketMultiples:
		return MarketMultiples(ctx)
	case MethodAssetBased:
		return AssetBased(ctx)
	case MethodRealOptions:
		return RealOptions(ctx)
	case MethodPrecedent:
		return PrecedentTransactions(ctx)
	case MethodScorecard:
		return Scorecard(ctx)
	case MethodBerkus:
		return Berkus(ctx)
	case MethodRiskFactor:
		return RiskFactorSummation(ctx)
	default:
		return failure(m, fmt.Errorf("unknown valuation method %q", m))
	}
}

// Run executes each requested method once, in canonical order. Method
// failures are carried on their Result; Run itself never fails.
func Run(methods []Method, in models.ValuationInput, a assumption.FinancialAssumptions, tables *benchmark.Tables) map[Method]Result {
	ordered := Canonical(methods)
	ctx := Context{Input: in, Assumptions: a, Tables: tables}

	results := make(map[Method]Result, len(ordered))
	for _, m := range ordered {
		results[m] = Calculate(m, ctx)
	}
	return results
}

// Canonical de-duplicates methods and sorts them into AllMethods order.
func Canonical(methods []Method) []Method {
	seen := make(map[Method]bool, len(methods))
	out := make([]Method, 0, len(methods))
	for _, m := range methods {
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank() < out[j].Rank() })
	return out
}
