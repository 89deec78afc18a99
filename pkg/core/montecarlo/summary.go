package montecarlo

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Interval is a [Low, High] band.
type Interval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Percentiles of the trial values.
type Percentiles struct {
	P5  float64 `json:"p5"`
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
}

// Summary describes the simulated distribution.
type Summary struct {
	Trials      int                `json:"trials"`
	Mean        float64            `json:"mean"`
	StdDev      float64            `json:"std_dev"`
	Min         float64            `json:"min"`
	Max         float64            `json:"max"`
	Percentiles Percentiles        `json:"percentiles"`
	CI90        Interval           `json:"ci_90"`
	CI95        Interval           `json:"ci_95"`
	MeanCI95    Interval           `json:"mean_ci_95"`
	Attribution map[string]float64 `json:"attribution"`
}

// Summarize computes moments, quantiles and per-driver correlation.
func Summarize(trials []Trial) Summary {
	s := Summary{Trials: len(trials), Attribution: map[string]float64{}}
	if len(trials) == 0 {
		return s
	}

	values := make([]float64, len(trials))
	for i, t := range trials {
		values[i] = t.Value
	}
	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	if len(values) < 2 {
		s.StdDev = 0
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	s.Min, s.Max = sorted[0], sorted[len(sorted)-1]
	q := func(p float64) float64 { return stat.Quantile(p, stat.Empirical, sorted, nil) }
	s.Percentiles = Percentiles{
		P5: q(0.05), P10: q(0.10), P25: q(0.25), P50: q(0.50),
		P75: q(0.75), P90: q(0.90), P95: q(0.95),
	}
	s.CI90 = Interval{Low: q(0.05), High: q(0.95)}
	s.CI95 = Interval{Low: q(0.025), High: q(0.975)}

	se := s.StdDev / math.Sqrt(float64(len(values)))
	s.MeanCI95 = Interval{Low: s.Mean - 1.96*se, High: s.Mean + 1.96*se}

	deltas := make([]float64, len(trials))
	for v, name := range VariableNames {
		for i, t := range trials {
			deltas[i] = t.Deltas[v]
		}
		c := stat.Correlation(deltas, values, nil)
		if math.IsNaN(c) {
			c = 0
		}
		s.Attribution[name] = c
	}
	return s
}
