package valuation

import (
	"math"

	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

// ===== SCORECARD =====

// ScorecardWeights follows the order of models.ScorecardRatings.Values.
var ScorecardWeights = []float64{0.30, 0.25, 0.15, 0.10, 0.10, 0.05, 0.05}

var scorecardLabels = []string{"team", "opportunity_size", "product", "competition", "channels", "capital_efficiency", "partnerships"}

// ScorecardMultiplier converts 0-10 ratings into a multiplier on the baseline.
// A rating of 5 contributes exactly zero, so all-5 yields exactly 1.0.
func ScorecardMultiplier(r models.ScorecardRatings) float64 {
	adj := 0.0
	for i, v := range r.Values() {
		adj += ScorecardWeights[i] * (v - 5) / 5
	}
	return 1 + adj
}

// Scorecard scales the stage baseline by the weighted rating multiplier.
func Scorecard(ctx Context) Result {
	in := ctx.Input
	ratings, derived := scorecardRatings(in)
	baseline := ctx.Tables.Baseline(in.Stage, in.Region)
	mult := ScorecardMultiplier(ratings)

	res := Result{
		Method:      MethodScorecard,
		Value:       baseline * mult,
		Methodology: MethodScorecard.Label(),
		Assumptions: map[string]float64{"baseline_valuation": baseline},
		Sensitivity: map[string]float64{},
		Breakdown:   map[string]float64{"multiplier": mult},
		Confidence:  qualitativeConfidence(derived),
		Status:      StatusOK,
	}
	for i, v := range ratings.Values() {
		res.Breakdown["rating_"+scorecardLabels[i]] = v
	}
	if derived {
		res.Warnings = append(res.Warnings, "scorecard ratings derived from company attributes")
	}
	return res
}

// ===== BERKUS =====

var berkusLabels = []string{"sound_idea", "prototype", "quality_team", "strategic_relationships", "product_rollout"}

// Berkus credits each of five value drivers up to the per-element cap.
func Berkus(ctx Context) Result {
	in := ctx.Input
	ratings, derived := berkusRatings(in)
	elementCap := ctx.Tables.BerkusElementCap * ctx.Tables.Scale(in.Region)

	res := Result{
		Method:      MethodBerkus,
		Methodology: MethodBerkus.Label(),
		Assumptions: map[string]float64{"element_cap": elementCap},
		Sensitivity: map[string]float64{},
		Breakdown:   map[string]float64{},
		Confidence:  qualitativeConfidence(derived),
		Status:      StatusOK,
	}
	for i, v := range ratings.Values() {
		credit := v / 10 * elementCap
		res.Breakdown[berkusLabels[i]] = credit
		res.Value += credit
	}
	if derived {
		res.Warnings = append(res.Warnings, "berkus ratings derived from company attributes")
	}
	return res
}

// ===== RISK FACTOR SUMMATION =====

// RiskFactorSummation moves the stage baseline one step per risk-score point.
func RiskFactorSummation(ctx Context) Result {
	in := ctx.Input
	scores, derived := riskScores(in)
	baseline := ctx.Tables.Baseline(in.Stage, in.Region)
	step := ctx.Tables.RFSStep * ctx.Tables.Scale(in.Region)

	res := Result{
		Method:      MethodRiskFactor,
		Methodology: MethodRiskFactor.Label(),
		Assumptions: map[string]float64{"baseline_valuation": baseline, "step": step},
		Sensitivity: map[string]float64{},
		Breakdown:   map[string]float64{},
		Confidence:  qualitativeConfidence(derived),
		Status:      StatusOK,
	}
	total := 0
	for i, s := range scores.Values() {
		res.Breakdown[models.RiskFactorNames[i]] = float64(s) * step
		total += s
	}
	res.Breakdown["net_score"] = float64(total)
	res.Value = math.Max(0, baseline+float64(total)*step)
	if derived {
		res.Warnings = append(res.Warnings, "risk factor scores derived from company attributes")
	}
	return res
}

func qualitativeConfidence(derived bool) float64 {
	if derived {
		return 0.4
	}
	return 0.55
}

// ===== RATINGS DERIVED FROM ATTRIBUTES =====

func scorecardRatings(in models.ValuationInput) (models.ScorecardRatings, bool) {
	if in.Scorecard != nil {
		return *in.Scorecard, false
	}
	return models.ScorecardRatings{
		Team:              teamRating(in.TeamExperienceYears),
		OpportunitySize:   opportunityRating(in.TargetMarketSize),
		Product:           differentiationRating(in.Differentiation),
		Competition:       ipRating(in.IPStatus),
		Channels:          scalabilityRating(in.ScalabilityRating),
		CapitalEfficiency: clamp(5+in.Margin.Float()/10, 0, 10),
		Partnerships:      regulatoryRating(in.RegulatoryStatus),
	}, true
}

func berkusRatings(in models.ValuationInput) (models.BerkusRatings, bool) {
	if in.Berkus != nil {
		return *in.Berkus, false
	}
	rollout := 2.0
	if in.Revenue > 0 {
		rollout = clamp(5+2.5*math.Log10(in.Revenue/1e5), 0, 10)
	}
	return models.BerkusRatings{
		SoundIdea:              differentiationRating(in.Differentiation) + 1,
		Prototype:              prototypeRating(in.Stage),
		QualityTeam:            teamRating(in.TeamExperienceYears),
		StrategicRelationships: regulatoryRating(in.RegulatoryStatus),
		ProductRollout:         rollout,
	}, true
}

func riskScores(in models.ValuationInput) (models.RiskFactorScores, bool) {
	if in.RiskFactors != nil {
		return *in.RiskFactors, false
	}
	s := models.RiskFactorScores{}
	switch {
	case in.TeamExperienceYears < 2:
		s.Management = -1
	case in.TeamExperienceYears >= 10:
		s.Management = 2
	case in.TeamExperienceYears >= 5:
		s.Management = 1
	}
	switch in.Stage {
	case models.StageIdeation:
		s.StageOfBiz = -2
	case models.StageMVP:
		s.StageOfBiz = -1
	case models.StageRevenueGrowth:
		s.StageOfBiz = 1
	case models.StageEstablished:
		s.StageOfBiz = 2
	}
	switch in.RegulatoryStatus {
	case models.ComplianceCompliant:
		s.Legislation = 1
	case models.ComplianceNonCompliant:
		s.Legislation = -2
	}
	if in.Sector.IsAssetHeavy() {
		s.Manufacturing = -1
	}
	switch {
	case in.Revenue <= 0:
		s.SalesMarketing = -1
	case in.GrowthRate >= 50:
		s.SalesMarketing = 1
	}
	switch in.Differentiation {
	case models.DifferentiationHigh:
		s.Competition = 1
	case models.DifferentiationLow:
		s.Competition = -1
	}
	switch in.IPStatus {
	case models.IPRegistered:
		s.Technology = 1
	case models.IPNone:
		s.Technology = -1
	}
	if in.Sector.IsResearchDriven() {
		s.ExitPotential = 1
	}
	return s, true
}

func teamRating(years float64) float64 {
	return clamp(2+0.8*years, 0, 10)
}

func opportunityRating(marketSize float64) float64 {
	if marketSize <= 0 {
		return 5
	}
	return clamp(5+2*(math.Log10(marketSize)-9), 0, 10)
}

func differentiationRating(d models.Differentiation) float64 {
	switch d {
	case models.DifferentiationHigh:
		return 8
	case models.DifferentiationMedium:
		return 6
	case models.DifferentiationLow:
		return 3
	default:
		return 5
	}
}

func ipRating(ip models.IPStatus) float64 {
	switch ip {
	case models.IPRegistered:
		return 7
	case models.IPPending:
		return 6
	case models.IPNone:
		return 3
	default:
		return 5
	}
}

func scalabilityRating(v float64) float64 {
	if v <= 0 {
		return 5
	}
	return clamp(v, 0, 10)
}

func regulatoryRating(c models.ComplianceStatus) float64 {
	switch c {
	case models.ComplianceCompliant:
		return 7
	case models.ComplianceNonCompliant:
		return 2
	default:
		return 5
	}
}

func prototypeRating(st models.Stage) float64 {
	switch st {
	case models.StageIdeation:
		return 2
	case models.StageMVP:
		return 6
	case models.StageRevenueEarly:
		return 8
	case models.StageRevenueGrowth:
		return 9
	case models.StageEstablished:
		return 10
	default:
		return 5
	}
}
