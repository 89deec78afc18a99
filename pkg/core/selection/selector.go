// Package selection decides which valuation methods apply to a company and
// how much weight each carries. It is pure decision logic over the input.
package selection

import (
	"fmt"
	"sort"

	"github.com/camayank/StartupValuator-sub001/pkg/core/benchmark"
	"github.com/camayank/StartupValuator-sub001/pkg/core/compliance"
	"github.com/camayank/StartupValuator-sub001/pkg/core/valuation"
	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

// =============================================================================
// MODEL SELECTOR
// Purpose picks the base table; stage, sector and data availability refine it.
// =============================================================================

// Weights maps each method to its share of the hybrid value.
type Weights map[valuation.Method]float64

// Sum adds the weights in canonical order.
func (w Weights) Sum() float64 {
	var s float64
	for _, m := range valuation.AllMethods {
		s += w[m]
	}
	return s
}

// Methods lists the methods with positive weight in canonical order.
func (w Weights) Methods() []valuation.Method {
	var out []valuation.Method
	for _, m := range valuation.AllMethods {
		if w[m] > 0 {
			out = append(out, m)
		}
	}
	return out
}

// Recommendation is the selector's output for one run.
type Recommendation struct {
	PrimaryModel    valuation.Method `json:"primary_model"`
	SecondaryModel  valuation.Method `json:"secondary_model,omitempty"`
	Weights         Weights          `json:"weights"`
	Rationale       []string         `json:"rationale"`
	ComplianceNotes []string         `json:"compliance_notes"`
	Framework       string           `json:"framework"`
}

var purposeBase = map[models.Purpose]Weights{
	models.PurposeFundraising: {
		valuation.MethodDCF: 0.30, valuation.MethodMarketMultiples: 0.30,
		valuation.MethodScorecard: 0.20, valuation.MethodBerkus: 0.10, valuation.MethodRiskFactor: 0.10,
	},
	models.PurposeExit: {
		valuation.MethodDCF: 0.35, valuation.MethodMarketMultiples: 0.25,
		valuation.MethodPrecedent: 0.30, valuation.MethodAssetBased: 0.10,
	},
	models.PurposeESOP: {
		valuation.MethodDCF: 0.50, valuation.MethodMarketMultiples: 0.30, valuation.MethodAssetBased: 0.20,
	},
}

var defaultBase = Weights{
	valuation.MethodDCF: 0.40, valuation.MethodMarketMultiples: 0.40, valuation.MethodAssetBased: 0.20,
}

var revenueMethods = []valuation.Method{
	valuation.MethodDCF, valuation.MethodMarketMultiples, valuation.MethodAssetBased, valuation.MethodPrecedent,
}

var qualitativeMethods = []valuation.Method{
	valuation.MethodScorecard, valuation.MethodBerkus, valuation.MethodRiskFactor,
}

// rdHeavyIntensity is the R&D share of revenue above which option value counts.
const rdHeavyIntensity = 15

// Selector is stateless apart from the tables it reads compliance notes from.
type Selector struct {
	tables *benchmark.Tables
}

// NewSelector builds a Selector over the given tables.
func NewSelector(tables *benchmark.Tables) *Selector {
	return &Selector{tables: tables}
}

// Select returns normalized weights plus the rationale behind them.
func (s *Selector) Select(in models.ValuationInput) Recommendation {
	in = in.Normalize()
	rec := Recommendation{}

	base, ok := purposeBase[in.Purpose]
	if !ok {
		base = defaultBase
		rec.Rationale = append(rec.Rationale, fmt.Sprintf("purpose %q has no dedicated table; using the general DCF/market/asset mix", in.Purpose))
	} else {
		rec.Rationale = append(rec.Rationale, fmt.Sprintf("purpose %s sets the base weights", in.Purpose))
	}
	w := make(Weights, len(valuation.AllMethods))
	for m, v := range base {
		w[m] = v
	}

	if in.Stage.IsPreRevenue() {
		w[valuation.MethodDCF] *= 0.25
		w[valuation.MethodScorecard] += 0.20
		w[valuation.MethodBerkus] += 0.15
		w[valuation.MethodRiskFactor] += 0.10
		rec.Rationale = append(rec.Rationale, fmt.Sprintf("%s stage: DCF cut to a quarter, weight shifted to scorecard, Berkus and risk-factor summation", in.Stage))
	}

	if in.Stage.IsEarly() {
		switch {
		case in.Sector.IsResearchDriven():
			w[valuation.MethodRealOptions] += 0.15
			rec.Rationale = append(rec.Rationale, fmt.Sprintf("early-stage %s: real options capture the value of follow-on R&D", in.Sector))
		case in.RDIntensity >= rdHeavyIntensity:
			w[valuation.MethodRealOptions] += 0.10
			rec.Rationale = append(rec.Rationale, fmt.Sprintf("R&D intensity %s: real options added", in.RDIntensity))
		}
	}

	if in.Stage == models.StageEstablished {
		if in.Sector.IsAssetHeavy() {
			w[valuation.MethodAssetBased] += 0.20
			rec.Rationale = append(rec.Rationale, fmt.Sprintf("established %s business: balance-sheet value boosts asset-based weight", in.Sector))
		}
		w[valuation.MethodDCF] += 0.10
		rec.Rationale = append(rec.Rationale, "established stage: cash flows are reliable enough to lift DCF")
		if in.Revenue > 0 {
			for _, m := range qualitativeMethods {
				delete(w, m)
			}
			rec.Rationale = append(rec.Rationale, "established stage: qualitative early-stage methods dropped")
		}
	}

	if len(in.Transactions) > 0 && w[valuation.MethodPrecedent] == 0 {
		w[valuation.MethodPrecedent] = 0.10
		rec.Rationale = append(rec.Rationale, fmt.Sprintf("%d comparable deals supplied: precedent transactions added", len(in.Transactions)))
	}

	if in.Revenue <= 0 {
		dropped := false
		for _, m := range revenueMethods {
			if w[m] > 0 {
				delete(w, m)
				dropped = true
			}
		}
		if dropped {
			rec.Rationale = append(rec.Rationale, "no revenue: revenue-driven methods removed")
		}
	}

	rec.Weights = normalize(w)
	if len(rec.Weights) == 0 {
		if in.Revenue > 0 {
			rec.Weights = Weights{valuation.MethodDCF: 0.5, valuation.MethodMarketMultiples: 0.5}
			rec.Rationale = append(rec.Rationale, "no rule produced a usable method; falling back to DCF and market multiples")
		} else {
			rec.Weights = Weights{valuation.MethodScorecard: 0.5, valuation.MethodRiskFactor: 0.5}
			rec.Rationale = append(rec.Rationale, "no rule produced a usable method and there is no revenue; falling back to scorecard and risk-factor summation")
		}
	}

	ranked := rank(rec.Weights)
	rec.PrimaryModel = ranked[0]
	if len(ranked) > 1 {
		rec.SecondaryModel = ranked[1]
	}
	for _, m := range ranked {
		rec.Rationale = append(rec.Rationale, fmt.Sprintf("%s weighted %.1f%%", m.Label(), rec.Weights[m]*100))
	}

	fw := compliance.ForContext(in.Region, in.Purpose, s.tables)
	rec.Framework = fw.ID
	rec.ComplianceNotes = complianceNotes(in, fw)
	return rec
}

// normalize scales positive weights to sum to 1 and drops the rest.
func normalize(w Weights) Weights {
	var total float64
	for _, m := range valuation.AllMethods {
		if w[m] > 0 {
			total += w[m]
		}
	}
	out := Weights{}
	if total <= 0 {
		return out
	}
	for _, m := range valuation.AllMethods {
		if w[m] > 0 {
			out[m] = w[m] / total
		}
	}
	return out
}

// rank orders methods by weight, heaviest first, ties in canonical order.
func rank(w Weights) []valuation.Method {
	methods := w.Methods()
	sort.SliceStable(methods, func(i, j int) bool { return w[methods[i]] > w[methods[j]] })
	return methods
}

func complianceNotes(in models.ValuationInput, fw compliance.Framework) []string {
	notes := []string{fmt.Sprintf("%s region: valuation documented under %s", in.Region, fw.Name)}
	for _, d := range fw.Disclosures {
		notes = append(notes, fmt.Sprintf("%s: %s", fw.ID, d))
	}
	if in.Purpose == models.PurposeESOP && in.Region != models.RegionUS {
		notes = append(notes, "ESOP grants outside the US: confirm local fair-value rules for option pricing")
	}
	if in.RegulatoryStatus == models.ComplianceNonCompliant {
		notes = append(notes, "company reports regulatory non-compliance; disclose as a material risk")
	}
	return notes
}
