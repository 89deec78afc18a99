// Package rate separates percentage-point rates from fractional ratios.
// Everything the engine stores is a Percent; a Ratio only exists at the point
// where a rate enters arithmetic such as (1 + r)^n.
package rate

import (
	"fmt"
	"math"
)

// Percent is a rate in percentage points: 15 means 15%.
type Percent float64

// Ratio is a rate as a fraction: 0.15 means 15%.
type Ratio float64

// Ratio converts percentage points to a fraction.
func (p Percent) Ratio() Ratio { return Ratio(float64(p) / 100) }

// Ptr returns a pointer to a copy of p, for optional bounds.
func (p Percent) Ptr() *Percent { return &p }

// Float returns the raw percentage-point value.
func (p Percent) Float() float64 { return float64(p) }

// Add shifts the rate by a number of percentage points.
func (p Percent) Add(pp float64) Percent { return p + Percent(pp) }

func (p Percent) String() string { return fmt.Sprintf("%.2f%%", float64(p)) }

// Percent converts a fraction to percentage points.
func (r Ratio) Percent() Percent { return Percent(float64(r) * 100) }

// Float returns the raw fractional value.
func (r Ratio) Float() float64 { return float64(r) }

// Factor returns 1 + r, the one-period growth or discount factor.
func (r Ratio) Factor() float64 { return 1 + float64(r) }

// Compound returns (1 + r)^years.
func (r Ratio) Compound(years int) float64 {
	return math.Pow(r.Factor(), float64(years))
}

// Discount returns 1 / (1 + r)^years.
func (r Ratio) Discount(years int) float64 {
	return 1 / r.Compound(years)
}
