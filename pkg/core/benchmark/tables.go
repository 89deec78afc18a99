// Package benchmark holds the versioned reference tables the engine reads:
// regional rates, sector betas and multiples, peer metrics, stage baselines,
// comparable deals and compliance frameworks. Tables are read-only once built.
package benchmark

import (
	"github.com/camayank/StartupValuator-sub001/pkg/core/rate"
	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

// Quality flags how trustworthy a peer table is for confidence scoring.
type Quality string

const (
	QualityHigh   Quality = "HIGH"
	QualityMedium Quality = "MEDIUM"
	QualityLow    Quality = "LOW"
)

// Score maps a quality flag onto a 0-1 confidence contribution.
func (q Quality) Score() float64 {
	switch q {
	case QualityHigh:
		return 0.85
	case QualityMedium:
		return 0.7
	default:
		return 0.55
	}
}

// PeerMetrics are sector averages for comparable companies.
type PeerMetrics struct {
	AverageRevenue  float64      `json:"average_revenue" yaml:"average_revenue"`
	AverageGrowth   rate.Percent `json:"average_growth" yaml:"average_growth"`
	AverageMargin   rate.Percent `json:"average_margin" yaml:"average_margin"`
	RevenueMultiple float64      `json:"revenue_multiple" yaml:"revenue_multiple"`
	DataQuality     Quality      `json:"data_quality" yaml:"data_quality"`
}

// Framework is a named compliance ruleset bounding assumptions.
type Framework struct {
	ID                string       `json:"id" yaml:"id"`
	Name              string       `json:"name" yaml:"name"`
	Jurisdiction      string       `json:"jurisdiction" yaml:"jurisdiction"`
	MinDiscount       rate.Percent `json:"min_discount" yaml:"min_discount"`
	MaxDiscount       rate.Percent `json:"max_discount" yaml:"max_discount"`
	MinTerminalGrowth rate.Percent `json:"min_terminal_growth" yaml:"min_terminal_growth"`
	MaxTerminalGrowth *rate.Percent `json:"max_terminal_growth,omitempty" yaml:"max_terminal_growth"` // nil: uncapped
	MinSpread         rate.Percent `json:"min_spread" yaml:"min_spread"` // discount - terminal growth
	Disclosures       []string     `json:"disclosures" yaml:"disclosures"`
}

// Tables is the complete reference dataset for one engine version.
type Tables struct {
	Version string

	RiskFree             map[models.Region]rate.Percent
	MarketRiskPremium    map[models.Region]rate.Percent
	SectorBeta           map[models.Sector]float64
	RegionBetaMultiplier map[models.Region]float64
	GrowthBenchmarks     map[models.Sector]map[models.Stage]rate.Percent
	IndustryMultiples    map[models.Sector]float64
	Peers                map[models.Sector]PeerMetrics

	StageBaseline    map[models.Stage]float64
	RegionScale      map[models.Region]float64
	BerkusElementCap float64
	RFSStep          float64

	PrecedentDeals map[models.Sector][]models.Transaction
	Frameworks     []Framework
}

// RiskFreeRate returns the regional risk-free rate, falling back to global.
func (t *Tables) RiskFreeRate(r models.Region) rate.Percent {
	if v, ok := t.RiskFree[r]; ok {
		return v
	}
	return t.RiskFree[models.RegionGlobal]
}

// MarketPremium returns the regional equity risk premium, falling back to global.
func (t *Tables) MarketPremium(r models.Region) rate.Percent {
	if v, ok := t.MarketRiskPremium[r]; ok {
		return v
	}
	return t.MarketRiskPremium[models.RegionGlobal]
}

// Beta returns the sector beta scaled by the regional multiplier.
func (t *Tables) Beta(s models.Sector, r models.Region) float64 {
	beta, ok := t.SectorBeta[s]
	if !ok {
		beta = t.SectorBeta[models.SectorOther]
	}
	mult, ok := t.RegionBetaMultiplier[r]
	if !ok {
		mult = 1.0
	}
	return beta * mult
}

// GrowthBenchmark returns the sector×stage growth benchmark if one exists.
func (t *Tables) GrowthBenchmark(s models.Sector, st models.Stage) (rate.Percent, bool) {
	byStage, ok := t.GrowthBenchmarks[s]
	if !ok {
		return 0, false
	}
	g, ok := byStage[st]
	return g, ok
}

// IndustryMultiple returns the sector revenue multiple, falling back to other.
func (t *Tables) IndustryMultiple(s models.Sector) float64 {
	if m, ok := t.IndustryMultiples[s]; ok {
		return m
	}
	return t.IndustryMultiples[models.SectorOther]
}

// PeerGroup returns the sector peer metrics if the sector is covered.
func (t *Tables) PeerGroup(s models.Sector) (PeerMetrics, bool) {
	p, ok := t.Peers[s]
	return p, ok
}

// Baseline returns the stage baseline valuation scaled to the region.
func (t *Tables) Baseline(st models.Stage, r models.Region) float64 {
	base, ok := t.StageBaseline[st]
	if !ok {
		base = t.StageBaseline[models.StageOther]
	}
	return base * t.Scale(r)
}

// Scale returns the regional valuation scale (1.0 for the US).
func (t *Tables) Scale(r models.Region) float64 {
	if s, ok := t.RegionScale[r]; ok {
		return s
	}
	if s, ok := t.RegionScale[models.RegionGlobal]; ok {
		return s
	}
	return 1.0
}

// Deals returns the benchmark comparable transactions for a sector.
func (t *Tables) Deals(s models.Sector) []models.Transaction {
	return t.PrecedentDeals[s]
}

// Framework looks up a compliance framework by ID.
func (t *Tables) Framework(id string) (Framework, bool) {
	for _, f := range t.Frameworks {
		if f.ID == id {
			return f, true
		}
	}
	return Framework{}, false
}
