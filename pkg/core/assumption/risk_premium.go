package assumption

import (
	"github.com/camayank/StartupValuator-sub001/pkg/core/rate"
	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

// Penalty tables for the company-specific risk premium, in percentage points.
var (
	stagePenalty = map[models.Stage]rate.Percent{
		models.StageIdeation:      12,
		models.StageMVP:           10,
		models.StageRevenueEarly:  6,
		models.StageRevenueGrowth: 4,
		models.StageEstablished:   2,
	}
	ipPenalty = map[models.IPStatus]rate.Percent{
		models.IPNone:       3,
		models.IPPending:    2,
		models.IPRegistered: 1,
	}
	differentiationPenalty = map[models.Differentiation]rate.Percent{
		models.DifferentiationLow:    3,
		models.DifferentiationMedium: 1.5,
		models.DifferentiationHigh:   0.5,
	}
)

// Default penalties for categories outside the tables.
const (
	DefaultStagePenalty           rate.Percent = 8
	DefaultIPPenalty              rate.Percent = 2.5
	DefaultDifferentiationPenalty rate.Percent = 2
)

// CompanyRiskPremium sums the stage, IP, differentiation and team penalties.
func CompanyRiskPremium(in models.ValuationInput) Breakdown {
	b := Breakdown{
		Stage:           DefaultStagePenalty,
		IP:              DefaultIPPenalty,
		Differentiation: DefaultDifferentiationPenalty,
		Team:            teamPenalty(in.TeamExperienceYears),
	}
	if p, ok := stagePenalty[in.Stage]; ok {
		b.Stage = p
	}
	if p, ok := ipPenalty[in.IPStatus]; ok {
		b.IP = p
	}
	if p, ok := differentiationPenalty[in.Differentiation]; ok {
		b.Differentiation = p
	}
	return b
}

func teamPenalty(years float64) rate.Percent {
	switch {
	case years < 2:
		return 3
	case years < 5:
		return 2
	case years < 10:
		return 1
	default:
		return 0.5
	}
}
