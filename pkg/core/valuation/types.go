// Package valuation implements the individual valuation methods. Each method
// is a pure function of the input, the run's assumptions and the benchmark
// tables; failures are reported on the Result, never by panicking.
package valuation

import (
	"errors"

	"github.com/camayank/StartupValuator-sub001/pkg/core/assumption"
	"github.com/camayank/StartupValuator-sub001/pkg/core/benchmark"
	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

// Method names a valuation methodology.
type Method string

const (
	MethodDCF             Method = "dcf"
	MethodMarketMultiples Method = "market_multiples"
	MethodAssetBased      Method = "asset_based"
	MethodRealOptions     Method = "real_options"
	MethodPrecedent       Method = "precedent_transactions"
	MethodScorecard       Method = "scorecard"
	MethodBerkus          Method = "berkus"
	MethodRiskFactor      Method = "risk_factor_summation"
)

// AllMethods is the canonical order. Anything that iterates over methods
// uses this order so repeated runs produce identical output.
var AllMethods = []Method{
	MethodDCF, MethodMarketMultiples, MethodAssetBased, MethodRealOptions,
	MethodPrecedent, MethodScorecard, MethodBerkus, MethodRiskFactor,
}

// Label is the human-readable methodology name.
func (m Method) Label() string {
	switch m {
	case MethodDCF:
		return "Discounted Cash Flow"
	case MethodMarketMultiples:
		return "Market Multiples"
	case MethodAssetBased:
		return "Asset-Based"
	case MethodRealOptions:
		return "Real Options (Black-Scholes)"
	case MethodPrecedent:
		return "Precedent Transactions"
	case MethodScorecard:
		return "Scorecard"
	case MethodBerkus:
		return "Berkus"
	case MethodRiskFactor:
		return "Risk Factor Summation"
	default:
		return string(m)
	}
}

// Rank is the position of m in AllMethods, or len(AllMethods) if unknown.
func (m Method) Rank() int {
	for i, x := range AllMethods {
		if x == m {
			return i
		}
	}
	return len(AllMethods)
}

// ParseMethod resolves a method name; ok is false for unknown names.
func ParseMethod(s string) (Method, bool) {
	for _, m := range AllMethods {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Status is the outcome of one method.
type Status string

const (
	StatusOK          Status = "ok"
	StatusFailed      Status = "failed"
	StatusMissingData Status = "missing_data"
)

// ErrNoRevenue marks revenue-driven methods run against a zero-revenue input.
var ErrNoRevenue = errors.New("method requires positive revenue")

// Scenarios are worst/base/best values.
type Scenarios struct {
	Worst float64 `json:"worst"`
	Base  float64 `json:"base"`
	Best  float64 `json:"best"`
}

// Result is the output of one method for one run.
type Result struct {
	Method      Method             `json:"method"`
	Value       float64            `json:"value"`
	Methodology string             `json:"methodology"`
	Assumptions map[string]float64 `json:"assumptions,omitempty"`
	Sensitivity map[string]float64 `json:"sensitivity"`
	Breakdown   map[string]float64 `json:"breakdown,omitempty"`
	Scenarios   *Scenarios         `json:"scenarios,omitempty"`
	Confidence  float64            `json:"confidence"`
	Status      Status             `json:"status"`
	Err         error              `json:"-"`
	Error       string             `json:"error,omitempty"`
	Warnings    []string           `json:"warnings,omitempty"`
}

// OK reports whether the result may enter an aggregate.
func (r Result) OK() bool { return r.Status == StatusOK }

// Context bundles what every method reads.
type Context struct {
	Input       models.ValuationInput
	Assumptions assumption.FinancialAssumptions
	Tables      *benchmark.Tables
}

func failure(m Method, err error) Result {
	status := StatusFailed
	if errors.Is(err, models.ErrMissingBenchmarkData) {
		status = StatusMissingData
	}
	return Result{
		Method:      m,
		Methodology: m.Label(),
		Sensitivity: map[string]float64{},
		Status:      status,
		Err:         err,
		Error:       err.Error(),
	}
}

func missing(m Method, table, key string) Result {
	return failure(m, &models.MissingBenchmarkError{Method: string(m), Table: table, Key: key})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
