package montecarlo

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/camayank/StartupValuator-sub001/pkg/core/rate"
)

// DistributionType for Monte Carlo simulation
type DistributionType string

const (
	DistNormal     DistributionType = "normal"
	DistTriangular DistributionType = "triangular"
	DistUniform    DistributionType = "uniform"
	DistLognormal  DistributionType = "lognormal"
)

// AmountDistribution describes a monetary driver such as revenue.
// Normal and lognormal use Mean/Std; uniform uses Min/Max; triangular adds Mode.
type AmountDistribution struct {
	Type DistributionType `json:"type,omitempty"`
	Mean float64          `json:"mean"`
	Std  float64          `json:"std"`
	Min  float64          `json:"min,omitempty"`
	Max  float64          `json:"max,omitempty"`
	Mode float64          `json:"mode,omitempty"`
}

// RateDistribution describes a rate driver in percentage points.
type RateDistribution struct {
	Type DistributionType `json:"type,omitempty"`
	Mean rate.Percent     `json:"mean"`
	Std  rate.Percent     `json:"std"`
	Min  rate.Percent     `json:"min,omitempty"`
	Max  rate.Percent     `json:"max,omitempty"`
	Mode rate.Percent     `json:"mode,omitempty"`
}

// Fractions converts the rate distribution into fractional terms for sampling.
func (r RateDistribution) Fractions() AmountDistribution {
	return AmountDistribution{
		Type: r.Type,
		Mean: r.Mean.Ratio().Float(),
		Std:  r.Std.Ratio().Float(),
		Min:  r.Min.Ratio().Float(),
		Max:  r.Max.Ratio().Float(),
		Mode: r.Mode.Ratio().Float(),
	}
}

// Validate checks the parameters the chosen type reads.
func (d AmountDistribution) Validate(name string) error {
	switch d.kind() {
	case DistNormal:
		if d.Std < 0 {
			return fmt.Errorf("%s: negative standard deviation", name)
		}
	case DistLognormal:
		if d.Mean <= 0 || d.Std < 0 {
			return fmt.Errorf("%s: lognormal needs a positive mean and non-negative std", name)
		}
	case DistUniform:
		if d.Max < d.Min {
			return fmt.Errorf("%s: uniform max below min", name)
		}
	case DistTriangular:
		if d.Min > d.Mode || d.Mode > d.Max {
			return fmt.Errorf("%s: triangular needs min <= mode <= max", name)
		}
	default:
		return fmt.Errorf("%s: unknown distribution %q", name, d.Type)
	}
	return nil
}

func (d AmountDistribution) kind() DistributionType {
	if d.Type == "" {
		return DistNormal
	}
	return d.Type
}

// Expected returns the analytic mean of the distribution.
func (d AmountDistribution) Expected() float64 {
	switch d.kind() {
	case DistUniform:
		return (d.Min + d.Max) / 2
	case DistTriangular:
		return (d.Min + d.Mode + d.Max) / 3
	default:
		return d.Mean
	}
}

// Sample draws one value.
func (d AmountDistribution) Sample(r *rand.Rand) float64 {
	switch d.kind() {
	case DistLognormal:
		s2 := math.Log(1 + (d.Std*d.Std)/(d.Mean*d.Mean))
		mu := math.Log(d.Mean) - s2/2
		return math.Exp(mu + math.Sqrt(s2)*boxMuller(r))
	case DistUniform:
		return d.Min + r.Float64()*(d.Max-d.Min)
	case DistTriangular:
		return triangular(r.Float64(), d.Min, d.Mode, d.Max)
	default:
		return d.Mean + d.Std*boxMuller(r)
	}
}

// boxMuller returns a standard normal variate.
func boxMuller(r *rand.Rand) float64 {
	u1 := 1 - r.Float64() // (0, 1]
	u2 := r.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

func triangular(u, lo, mode, hi float64) float64 {
	if hi == lo {
		return lo
	}
	c := (mode - lo) / (hi - lo)
	if u < c {
		return lo + math.Sqrt(u*(hi-lo)*(mode-lo))
	}
	return hi - math.Sqrt((1-u)*(hi-lo)*(hi-mode))
}
