// Package stagemodel holds the stage-keyed cross-check models: a pre-seed
// scorecard, a seed bottom-up revenue model, a series A DCF/comparables
// blend and a growth-stage terminal value. They read StageMetrics only and
// run beside the main method library, never inside the hybrid aggregate.
package stagemodel

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/camayank/StartupValuator-sub001/pkg/core/valuation"
	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

// Kind names a cross-check model.
type Kind string

const (
	PreSeed Kind = "pre_seed"
	Seed    Kind = "seed"
	SeriesA Kind = "series_a"
	Growth  Kind = "growth"
)

// Kinds lists the models in stage order.
var Kinds = []Kind{PreSeed, Seed, SeriesA, Growth}

// ErrUnknownStage is returned for a Kind outside Kinds.
var ErrUnknownStage = errors.New("unsupported stage model")

// ErrMetricsMismatch is returned when the stage metrics set none of the
// fields the stage's model reads.
var ErrMetricsMismatch = errors.New("stage metrics do not match the stage model")

// Result of one cross-check.
type Result struct {
	Stage       Kind               `json:"stage"`
	Value       float64            `json:"value"`
	Confidence  float64            `json:"confidence"`
	Methodology string             `json:"methodology"`
	RiskFactors map[string]float64 `json:"risk_factors"`
	Warnings    []string           `json:"warnings,omitempty"`
}

// ForStage maps a company stage onto its cross-check model.
func ForStage(s models.Stage) (Kind, bool) {
	switch s {
	case models.StageIdeation:
		return PreSeed, true
	case models.StageMVP:
		return Seed, true
	case models.StageRevenueEarly:
		return SeriesA, true
	case models.StageRevenueGrowth, models.StageEstablished:
		return Growth, true
	default:
		return "", false
	}
}

// ValidateInput range-checks the stage metrics against the model for the
// input's stage. Metrics that match no field of that model are left to
// CrossCheck, which reports ErrMetricsMismatch.
func ValidateInput(in models.ValuationInput) error {
	k, m, ok := modelFor(in)
	if !ok || !Matches(k, m) {
		return nil
	}
	return Validate(k, m)
}

// CrossCheck runs the model for the input's stage. It returns nil when the
// input carries no stage metrics or the stage has no model.
func CrossCheck(in models.ValuationInput) (*Result, error) {
	k, m, ok := modelFor(in)
	if !ok {
		return nil, nil
	}
	if !Matches(k, m) {
		return nil, fmt.Errorf("%w: %s model reads %s", ErrMetricsMismatch, k, strings.Join(fieldNames(k), ", "))
	}
	if k == Growth && m.MarketRegion == "" {
		m.MarketRegion = MarketRegionFor(in.Region)
	}
	res, err := Calculate(k, m)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func modelFor(in models.ValuationInput) (Kind, models.StageMetrics, bool) {
	if in.StageMetrics == nil {
		return "", models.StageMetrics{}, false
	}
	k, ok := ForStage(in.Stage)
	if !ok {
		return "", models.StageMetrics{}, false
	}
	return k, *in.StageMetrics, true
}

// Matches reports whether m sets any field the model for k reads.
func Matches(k Kind, m models.StageMetrics) bool {
	values := fieldValues(m)
	for _, r := range rules[k] {
		if values[r.Field] != 0 {
			return true
		}
	}
	return false
}

func fieldNames(k Kind) []string {
	names := make([]string, 0, len(rules[k]))
	for _, r := range rules[k] {
		names = append(names, r.Field)
	}
	return names
}

// Calculate validates the metrics for k and runs its model.
func Calculate(k Kind, m models.StageMetrics) (Result, error) {
	if err := Validate(k, m); err != nil {
		return Result{}, err
	}
	switch k {
	case PreSeed:
		return preSeed(m), nil
	case Seed:
		return seed(m), nil
	case SeriesA:
		return seriesA(m), nil
	case Growth:
		return growth(m)
	}
	return Result{}, fmt.Errorf("%w: %q", ErrUnknownStage, k)
}

// ===== Field rules =====

// Rule bounds one StageMetrics field.
type Rule struct {
	Field       string  `json:"field"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Description string  `json:"description"`
}

const maxAmount = 1e15

var rules = map[Kind][]Rule{
	PreSeed: {
		{"tam", 0, maxAmount, "Total addressable market"},
		{"team_score", 0, 1, "Team score, 0-1"},
		{"current_traction", 0, maxAmount, "Current revenue or users"},
	},
	Seed: {
		{"mrr", 10_000, maxAmount, "Monthly recurring revenue"},
		{"mom_growth", 0, 100, "Month-over-month growth, percent"},
		{"churn", 1, 100, "Monthly churn, percent"},
		{"cac", 0, maxAmount, "Customer acquisition cost"},
		{"ltv", 0, maxAmount, "Customer lifetime value"},
	},
	SeriesA: {
		{"dcf_value", 0, maxAmount, "DCF valuation"},
		{"comparable_value", 0, maxAmount, "Comparables valuation"},
		{"equity_ratio", 1, 100, "Equity share of capital, percent"},
		{"debt_ratio", 0, 99, "Debt share of capital, percent"},
		{"cost_of_equity", 0, 100, "Cost of equity, percent"},
		{"cost_of_debt", 0, 100, "Pre-tax cost of debt, percent"},
		{"tax_rate", 0, 100, "Tax rate, percent"},
	},
	Growth: {
		{"fcf", 0, maxAmount, "Free cash flow"},
		{"wacc", 0.1, 100, "Weighted average cost of capital, percent"},
		{"long_term_growth", -50, 100, "Long-term growth, percent"},
	},
}

// Rules returns the field rules for k.
func Rules(k Kind) ([]Rule, error) {
	r, ok := rules[k]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, k)
	}
	return append([]Rule(nil), r...), nil
}

// Validate checks every field the model for k reads.
func Validate(k Kind, m models.StageMetrics) error {
	rs, err := Rules(k)
	if err != nil {
		return err
	}
	values := fieldValues(m)
	for _, r := range rs {
		if err := models.CheckRange("stage_metrics."+r.Field, values[r.Field], r.Min, r.Max); err != nil {
			return err
		}
	}
	return nil
}

func fieldValues(m models.StageMetrics) map[string]float64 {
	return map[string]float64{
		"tam":              m.TAM,
		"team_score":       m.TeamScore,
		"current_traction": m.CurrentTraction,
		"mrr":              m.MRR,
		"mom_growth":       m.MoMGrowth.Float(),
		"churn":            m.Churn.Float(),
		"cac":              m.CAC,
		"ltv":              m.LTV,
		"dcf_value":        m.DCFValue,
		"comparable_value": m.ComparableValue,
		"equity_ratio":     m.EquityRatio.Float(),
		"debt_ratio":       m.DebtRatio.Float(),
		"cost_of_equity":   m.CostOfEquity.Float(),
		"cost_of_debt":     m.CostOfDebt.Float(),
		"tax_rate":         m.TaxRate.Float(),
		"fcf":              m.FCF,
		"wacc":             m.WACC.Float(),
		"long_term_growth": m.LongTermGrowth.Float(),
	}
}

// ===== Pre-seed scorecard =====

const (
	tamWeight  = 0.4
	teamWeight = 0.6
	teamScale  = 1e6
)

func preSeed(m models.StageMetrics) Result {
	value := m.TAM*tamWeight + m.TeamScore*teamScale*teamWeight

	marketRisk := 1.0
	if m.TAM > 0 {
		marketRisk = 1 - math.Min(1, m.CurrentTraction/m.TAM)
	}
	return Result{
		Stage:       PreSeed,
		Value:       value,
		Confidence:  clamp01(0.7*(1-marketRisk) + 0.3*m.TeamScore),
		Methodology: "Pre-Seed Scorecard",
		RiskFactors: map[string]float64{
			"market_risk":    marketRisk,
			"execution_risk": 1 - m.TeamScore,
		},
	}
}

// ===== Seed bottom-up =====

const (
	mrrMultiple  = 12
	maxCACToLTV  = 0.3
	seedBaseConf = 0.8
)

func seed(m models.StageMetrics) Result {
	g := m.MoMGrowth.Ratio().Float()
	churn := m.Churn.Ratio().Float()

	annual := m.MRR * math.Pow(1+g, 12)
	value := annual * mrrMultiple * (1 + g) / churn

	unit := 1.0
	if m.LTV > 0 {
		unit = m.CAC / m.LTV
	}
	risks := map[string]float64{
		"churn_risk":            math.Min(1, churn*12),
		"growth_sustainability": 1 / (1 + g),
		"unit_economics":        unit,
	}

	res := Result{Stage: Seed, Value: value, Methodology: "Seed Bottom-up Revenue", RiskFactors: risks}
	conf := seedBaseConf
	if m.LTV <= 0 || unit > maxCACToLTV {
		conf *= 0.8
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("CAC/LTV ratio %.2f exceeds recommended maximum of %.1f", unit, maxCACToLTV))
	}
	res.Confidence = clamp01(conf * (1 - mean(risks)))
	return res
}

// ===== Series A hybrid =====

const (
	dcfWeight        = 0.6
	comparableWeight = 0.4
	highWACC         = 15.0
	seriesABaseConf  = 0.9
)

func seriesA(m models.StageMetrics) Result {
	w := valuation.CalculateWACC(valuation.WACCInput{
		CostOfEquity:      m.CostOfEquity,
		PreTaxCostOfDebt:  m.CostOfDebt,
		TaxRate:           m.TaxRate,
		DebtToEquityRatio: m.DebtRatio.Float() / m.EquityRatio.Float(),
	})

	divergence := 0.0
	if hi := math.Max(m.DCFValue, m.ComparableValue); hi > 0 {
		divergence = math.Abs(m.DCFValue-m.ComparableValue) / hi
	}
	risks := map[string]float64{
		"capital_structure_risk": m.DebtRatio.Ratio().Float(),
		"cost_of_capital_risk":   w.WACC.Float() / highWACC,
		"valuation_divergence":   divergence,
	}
	return Result{
		Stage:       SeriesA,
		Value:       m.DCFValue*dcfWeight + m.ComparableValue*comparableWeight,
		Confidence:  clamp01(seriesABaseConf * (1 - mean(risks))),
		Methodology: fmt.Sprintf("Series A Hybrid (WACC %s)", w.WACC),
		RiskFactors: risks,
	}
}

// ===== Growth terminal value =====

// DefaultRegionMultiplier applies to market regions without an entry.
const DefaultRegionMultiplier = 0.8

// RegionMultipliers scale the growth-stage terminal value by market region.
var RegionMultipliers = map[string]float64{
	"north_america": 1.0,
	"europe":        0.9,
	"asia_pacific":  0.85,
	"latin_america": 0.8,
	"africa":        0.75,
}

// MarketRegionFor maps a company region onto a market region.
func MarketRegionFor(r models.Region) string {
	switch r {
	case models.RegionUS:
		return "north_america"
	case models.RegionUK, models.RegionEU:
		return "europe"
	case models.RegionIndia, models.RegionSingapore:
		return "asia_pacific"
	default:
		return "global"
	}
}

func regionMultiplier(region string) float64 {
	if m, ok := RegionMultipliers[strings.ToLower(strings.TrimSpace(region))]; ok {
		return m
	}
	return DefaultRegionMultiplier
}

const growthBaseConf = 0.85

func growth(m models.StageMetrics) (Result, error) {
	if err := models.CheckSpread("growth terminal value", m.WACC, m.LongTermGrowth); err != nil {
		return Result{}, err
	}
	wacc := m.WACC.Ratio()
	g := m.LongTermGrowth.Ratio()
	tv := m.FCF * g.Factor() / (wacc.Float() - g.Float())
	mult := regionMultiplier(m.MarketRegion)

	risks := map[string]float64{
		"growth_risk": g.Float() / wacc.Float(),
		"region_risk": 1 - mult,
		"scale_risk":  1 / (1 + m.FCF/1e6),
	}
	return Result{
		Stage:       Growth,
		Value:       tv * mult,
		Confidence:  clamp01(growthBaseConf * (1 - mean(risks))),
		Methodology: "Growth Terminal Value",
		RiskFactors: risks,
	}, nil
}

// mean sums in key order so repeated runs agree to the bit.
func mean(m map[string]float64) float64 {
	if len(m) == 0 {
		return 0
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var s float64
	for _, k := range keys {
		s += m[k]
	}
	return s / float64(len(m))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
