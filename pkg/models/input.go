package models

import (
	"github.com/camayank/StartupValuator-sub001/pkg/core/rate"
)

// ValuationInput is the immutable snapshot of business facts for one
// valuation request. Rates are percentage points.
type ValuationInput struct {
	CompanyName string `json:"company_name" yaml:"company_name"`

	Sector   Sector  `json:"sector" yaml:"sector"`
	Industry string  `json:"industry,omitempty" yaml:"industry"`
	Region   Region  `json:"region" yaml:"region"`
	Stage    Stage   `json:"stage" yaml:"stage"`
	Purpose  Purpose `json:"purpose" yaml:"purpose"`
	Currency string  `json:"currency,omitempty" yaml:"currency"`

	Revenue    float64      `json:"revenue" yaml:"revenue"`
	GrowthRate rate.Percent `json:"growth_rate" yaml:"growth_rate"` // 0 = not provided
	Margin     rate.Percent `json:"margin" yaml:"margin"`

	TeamExperienceYears float64          `json:"team_experience_years" yaml:"team_experience_years"`
	IPStatus            IPStatus         `json:"ip_status" yaml:"ip_status"`
	Differentiation     Differentiation  `json:"differentiation" yaml:"differentiation"`
	RegulatoryStatus    ComplianceStatus `json:"regulatory_status" yaml:"regulatory_status"`
	ScalabilityRating   float64          `json:"scalability_rating" yaml:"scalability_rating"` // 0-10

	TargetMarketSize float64      `json:"target_market_size,omitempty" yaml:"target_market_size"`
	RDIntensity      rate.Percent `json:"rd_intensity,omitempty" yaml:"rd_intensity"` // R&D spend as % of revenue

	Scorecard    *ScorecardRatings `json:"scorecard,omitempty" yaml:"scorecard"`
	Berkus       *BerkusRatings    `json:"berkus,omitempty" yaml:"berkus"`
	RiskFactors  *RiskFactorScores `json:"risk_factors,omitempty" yaml:"risk_factors"`
	Transactions []Transaction     `json:"transactions,omitempty" yaml:"transactions"`
	StageMetrics *StageMetrics     `json:"stage_metrics,omitempty" yaml:"stage_metrics"`

	// Caller-forced rates replace the derived ones and are validated the same way.
	ForcedDiscountRate   *rate.Percent `json:"forced_discount_rate,omitempty" yaml:"forced_discount_rate"`
	ForcedTerminalGrowth *rate.Percent `json:"forced_terminal_growth,omitempty" yaml:"forced_terminal_growth"`
}

// Normalize returns a copy with every categorical field mapped onto its
// closed set. Slices and pointers are copied so the caller's value is never
// shared with a run.
func (in ValuationInput) Normalize() ValuationInput {
	out := in
	out.Sector = ParseSector(string(in.Sector))
	out.Region = ParseRegion(string(in.Region))
	out.Stage = ParseStage(string(in.Stage))
	out.Purpose = ParsePurpose(string(in.Purpose))
	out.IPStatus = ParseIPStatus(string(in.IPStatus))
	out.Differentiation = ParseDifferentiation(string(in.Differentiation))
	out.RegulatoryStatus = ParseComplianceStatus(string(in.RegulatoryStatus))
	if out.Currency == "" {
		out.Currency = "USD"
	}

	if in.Scorecard != nil {
		sc := *in.Scorecard
		out.Scorecard = &sc
	}
	if in.Berkus != nil {
		b := *in.Berkus
		out.Berkus = &b
	}
	if in.RiskFactors != nil {
		rf := *in.RiskFactors
		out.RiskFactors = &rf
	}
	if in.StageMetrics != nil {
		sm := *in.StageMetrics
		out.StageMetrics = &sm
	}
	if in.ForcedDiscountRate != nil {
		d := *in.ForcedDiscountRate
		out.ForcedDiscountRate = &d
	}
	if in.ForcedTerminalGrowth != nil {
		g := *in.ForcedTerminalGrowth
		out.ForcedTerminalGrowth = &g
	}
	if len(in.Transactions) > 0 {
		out.Transactions = make([]Transaction, len(in.Transactions))
		for i, tx := range in.Transactions {
			tx.Sector = ParseSector(string(tx.Sector))
			tx.Stage = ParseStage(string(tx.Stage))
			tx.Region = ParseRegion(string(tx.Region))
			out.Transactions[i] = tx
		}
	}
	return out
}

// ScorecardRatings are 0-10 ratings; 5 is the neutral peer-average score.
type ScorecardRatings struct {
	Team              float64 `json:"team" yaml:"team"`
	OpportunitySize   float64 `json:"opportunity_size" yaml:"opportunity_size"`
	Product           float64 `json:"product" yaml:"product"`
	Competition       float64 `json:"competition" yaml:"competition"`
	Channels          float64 `json:"channels" yaml:"channels"`
	CapitalEfficiency float64 `json:"capital_efficiency" yaml:"capital_efficiency"`
	Partnerships      float64 `json:"partnerships" yaml:"partnerships"`
}

// Values returns the ratings in weight-table order.
func (s ScorecardRatings) Values() []float64 {
	return []float64{s.Team, s.OpportunitySize, s.Product, s.Competition, s.Channels, s.CapitalEfficiency, s.Partnerships}
}

// BerkusRatings are 0-10 ratings for the five Berkus value drivers.
type BerkusRatings struct {
	SoundIdea              float64 `json:"sound_idea" yaml:"sound_idea"`
	Prototype              float64 `json:"prototype" yaml:"prototype"`
	QualityTeam            float64 `json:"quality_team" yaml:"quality_team"`
	StrategicRelationships float64 `json:"strategic_relationships" yaml:"strategic_relationships"`
	ProductRollout         float64 `json:"product_rollout" yaml:"product_rollout"`
}

// Values returns the ratings in element order.
func (b BerkusRatings) Values() []float64 {
	return []float64{b.SoundIdea, b.Prototype, b.QualityTeam, b.StrategicRelationships, b.ProductRollout}
}

// RiskFactorScores holds the twelve risk-factor-summation scores, each -2..+2
// where positive means lower risk than a typical peer.
type RiskFactorScores struct {
	Management     int `json:"management" yaml:"management"`
	StageOfBiz     int `json:"stage_of_business" yaml:"stage_of_business"`
	Legislation    int `json:"legislation" yaml:"legislation"`
	Manufacturing  int `json:"manufacturing" yaml:"manufacturing"`
	SalesMarketing int `json:"sales_marketing" yaml:"sales_marketing"`
	Funding        int `json:"funding" yaml:"funding"`
	Competition    int `json:"competition" yaml:"competition"`
	Technology     int `json:"technology" yaml:"technology"`
	Litigation     int `json:"litigation" yaml:"litigation"`
	International  int `json:"international" yaml:"international"`
	Reputation     int `json:"reputation" yaml:"reputation"`
	ExitPotential  int `json:"exit_potential" yaml:"exit_potential"`
}

// Values returns the scores in a fixed order.
func (r RiskFactorScores) Values() []int {
	return []int{
		r.Management, r.StageOfBiz, r.Legislation, r.Manufacturing, r.SalesMarketing, r.Funding,
		r.Competition, r.Technology, r.Litigation, r.International, r.Reputation, r.ExitPotential,
	}
}

// RiskFactorNames matches the order of RiskFactorScores.Values.
var RiskFactorNames = []string{
	"management", "stage_of_business", "legislation", "manufacturing", "sales_marketing", "funding",
	"competition", "technology", "litigation", "international", "reputation", "exit_potential",
}

// MarketCondition describes the deal environment when a transaction closed.
type MarketCondition string

const (
	MarketHot     MarketCondition = "hot"
	MarketNeutral MarketCondition = "neutral"
	MarketCold    MarketCondition = "cold"
)

// Transaction is a comparable private-market deal.
type Transaction struct {
	Name            string          `json:"name" yaml:"name"`
	Sector          Sector          `json:"sector" yaml:"sector"`
	Stage           Stage           `json:"stage" yaml:"stage"`
	Region          Region          `json:"region" yaml:"region"`
	Revenue         float64         `json:"revenue" yaml:"revenue"`
	RevenueMultiple float64         `json:"revenue_multiple" yaml:"revenue_multiple"`
	AgeYears        float64         `json:"age_years" yaml:"age_years"`
	Condition       MarketCondition `json:"market_condition" yaml:"market_condition"`
}

// StageMetrics carries the stage-specific operating metrics used by the
// stage cross-check models. Rates are percentage points.
type StageMetrics struct {
	// Pre-seed
	TAM             float64 `json:"tam,omitempty" yaml:"tam"`
	TeamScore       float64 `json:"team_score,omitempty" yaml:"team_score"` // 0-1
	CurrentTraction float64 `json:"current_traction,omitempty" yaml:"current_traction"`

	// Seed
	MRR       float64      `json:"mrr,omitempty" yaml:"mrr"`
	MoMGrowth rate.Percent `json:"mom_growth,omitempty" yaml:"mom_growth"`
	Churn     rate.Percent `json:"churn,omitempty" yaml:"churn"`
	CAC       float64      `json:"cac,omitempty" yaml:"cac"`
	LTV       float64      `json:"ltv,omitempty" yaml:"ltv"`

	// Series A
	DCFValue        float64      `json:"dcf_value,omitempty" yaml:"dcf_value"`
	ComparableValue float64      `json:"comparable_value,omitempty" yaml:"comparable_value"`
	EquityRatio     rate.Percent `json:"equity_ratio,omitempty" yaml:"equity_ratio"`
	DebtRatio       rate.Percent `json:"debt_ratio,omitempty" yaml:"debt_ratio"`
	CostOfEquity    rate.Percent `json:"cost_of_equity,omitempty" yaml:"cost_of_equity"`
	CostOfDebt      rate.Percent `json:"cost_of_debt,omitempty" yaml:"cost_of_debt"`
	TaxRate         rate.Percent `json:"tax_rate,omitempty" yaml:"tax_rate"`

	// Growth
	FCF            float64      `json:"fcf,omitempty" yaml:"fcf"`
	WACC           rate.Percent `json:"wacc,omitempty" yaml:"wacc"`
	LongTermGrowth rate.Percent `json:"long_term_growth,omitempty" yaml:"long_term_growth"`
	MarketRegion   string       `json:"market_region,omitempty" yaml:"market_region"`
}
