// Package hybrid combines per-method valuation results into one weighted
// value with scenario bands, a merged sensitivity table and a confidence score.
package hybrid

import (
	"errors"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/camayank/StartupValuator-sub001/pkg/core/valuation"
)

// ErrNoUsableMethods is returned when every weighted method is missing or failed.
var ErrNoUsableMethods = errors.New("no usable valuation method")

const (
	// ScenarioOffset is the relative band used when a method has no explicit scenarios.
	ScenarioOffset = 0.15
	// DegradedPenalty scales confidence when any weighted method was skipped.
	DegradedPenalty = 0.8
)

// Skipped records a weighted method that did not enter the aggregate.
type Skipped struct {
	Method valuation.Method `json:"method"`
	Reason string           `json:"reason"`
}

// Contribution is one method's share of the weighted value.
type Contribution struct {
	Method   valuation.Method `json:"method"`
	Weight   float64          `json:"weight"` // after renormalization
	Value    float64          `json:"value"`
	Weighted float64          `json:"weighted"`
}

// Result is the hybrid valuation for one run.
type Result struct {
	WeightedValue float64             `json:"weighted_value"`
	Scenarios     valuation.Scenarios `json:"scenarios"`
	Sensitivity   map[string]float64  `json:"sensitivity"`
	Methods       []valuation.Method  `json:"methods"`
	Contributions []Contribution      `json:"contributions"`
	Skipped       []Skipped           `json:"skipped,omitempty"`
	Degraded      bool                `json:"degraded"`
	Confidence    float64             `json:"confidence"`
}

// Aggregator is safe for concurrent use; it holds only a logger.
type Aggregator struct {
	logger *zap.Logger
}

// NewAggregator builds an Aggregator; a nil logger disables logging.
func NewAggregator(logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{logger: logger}
}

type usable struct {
	method valuation.Method
	weight float64
	result valuation.Result
}

// Aggregate weights the usable results. Methods with weight but no usable
// result are skipped and the remaining weights are renormalized.
func (a *Aggregator) Aggregate(results map[valuation.Method]valuation.Result, weights map[valuation.Method]float64) (Result, error) {
	var out Result
	var used []usable
	var total float64

	for _, m := range valuation.AllMethods {
		w := weights[m]
		if w <= 0 {
			continue
		}
		r, ok := results[m]
		switch {
		case !ok:
			a.logger.Warn("weighted method has no result", zap.String("method", string(m)), zap.Float64("weight", w))
			out.Skipped = append(out.Skipped, Skipped{Method: m, Reason: "no result produced"})
			continue
		case !r.OK():
			a.logger.Info("method excluded from aggregate",
				zap.String("method", string(m)),
				zap.String("status", string(r.Status)),
				zap.String("error", r.Error))
			out.Skipped = append(out.Skipped, Skipped{Method: m, Reason: string(r.Status) + ": " + r.Error})
			continue
		case math.IsNaN(r.Value) || math.IsInf(r.Value, 0):
			out.Skipped = append(out.Skipped, Skipped{Method: m, Reason: "non-finite value"})
			continue
		}
		used = append(used, usable{method: m, weight: w, result: r})
		total += w
	}

	if len(used) == 0 || total <= 0 {
		return Result{Skipped: out.Skipped, Degraded: true}, ErrNoUsableMethods
	}
	out.Degraded = len(out.Skipped) > 0

	for i := range used {
		used[i].weight /= total
	}

	for _, u := range used {
		v := u.result.Value
		out.WeightedValue += u.weight * v
		out.Confidence += u.weight * u.result.Confidence
		out.Methods = append(out.Methods, u.method)
		out.Contributions = append(out.Contributions, Contribution{
			Method: u.method, Weight: u.weight, Value: v, Weighted: u.weight * v,
		})

		s := scenariosFor(u.result)
		out.Scenarios.Worst += u.weight * s.Worst
		out.Scenarios.Base += u.weight * s.Base
		out.Scenarios.Best += u.weight * s.Best
	}
	if out.Degraded {
		out.Confidence *= DegradedPenalty
	}
	out.Sensitivity = mergeSensitivity(used)

	a.logger.Debug("hybrid aggregate",
		zap.Float64("weighted_value", out.WeightedValue),
		zap.Int("methods", len(out.Methods)),
		zap.Int("skipped", len(out.Skipped)))
	return out, nil
}

// scenariosFor returns the method's bands with Worst <= Base <= Best. The
// default band is offset by |value| so negative values keep that order.
func scenariosFor(r valuation.Result) valuation.Scenarios {
	if r.Scenarios != nil {
		s := *r.Scenarios
		lo := math.Min(s.Worst, math.Min(s.Base, s.Best))
		hi := math.Max(s.Worst, math.Max(s.Base, s.Best))
		return valuation.Scenarios{Worst: lo, Base: s.Base, Best: hi}
	}
	off := ScenarioOffset * math.Abs(r.Value)
	return valuation.Scenarios{
		Worst: r.Value - off,
		Base:  r.Value,
		Best:  r.Value + off,
	}
}

// mergeSensitivity weights each method's table; a method without a key
// contributes its base value for that key.
func mergeSensitivity(used []usable) map[string]float64 {
	keySet := map[string]bool{}
	for _, u := range used {
		for k := range u.result.Sensitivity {
			keySet[k] = true
		}
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	merged := make(map[string]float64, len(keys))
	for _, k := range keys {
		var v float64
		for _, u := range used {
			if pv, ok := u.result.Sensitivity[k]; ok {
				v += u.weight * pv
			} else {
				v += u.weight * u.result.Value
			}
		}
		merged[k] = v
	}
	return merged
}
