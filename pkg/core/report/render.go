// Package report renders an engine report as Markdown and HTML for people.
// Amounts are rounded with decimal arithmetic here, at the edge; the engine
// itself never formats currency.
package report

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/camayank/StartupValuator-sub001/pkg/core/engine"
	"github.com/camayank/StartupValuator-sub001/pkg/core/valuation"
)

// MethodRow is one line of the method table.
type MethodRow struct {
	Label      string
	Weight     string
	Value      string
	Confidence string
	Status     string
}

// View is the template model.
type View struct {
	Company      string
	Sector       string
	Stage        string
	Region       string
	Currency     string
	Framework    string
	Weighted     string
	Worst        string
	Base         string
	Best         string
	Confidence   string
	Degraded     bool
	Discount     string
	Terminal     string
	Growth       string
	Methods      []MethodRow
	Skipped      []string
	Rationale    []string
	Notes        []string
	Warnings     []string
	StageCheck   string
	HasSim       bool
	SimTrials    int
	SimMean      string
	SimP5        string
	SimP50       string
	SimP95       string
	SimCancelled bool
}

const markdownTemplate = `# Valuation: {{.Company}}

{{.Sector}} · {{.Stage}} · {{.Region}} · {{.Framework}}

## Result

**Weighted value:** {{.Weighted}}

| Scenario | Value |
|---|---|
| Worst | {{.Worst}} |
| Base | {{.Base}} |
| Best | {{.Best}} |

Confidence {{.Confidence}}{{if .Degraded}} (degraded){{end}}

## Assumptions

- Discount rate: {{.Discount}}
- Terminal growth: {{.Terminal}}
- Growth: {{.Growth}}

## Methods

| Method | Weight | Value | Confidence | Status |
|---|---|---|---|---|
{{range .Methods}}| {{.Label}} | {{.Weight}} | {{.Value}} | {{.Confidence}} | {{.Status}} |
{{end}}
{{- if .Skipped}}
Skipped:
{{range .Skipped}}
- {{.}}{{end}}
{{end}}
{{- if .Rationale}}
## Rationale
{{range .Rationale}}
- {{.}}{{end}}
{{end}}
{{- if .Notes}}
## Compliance
{{range .Notes}}
- {{.}}{{end}}
{{end}}
{{- if .StageCheck}}
## Stage cross-check

{{.StageCheck}}
{{end}}
{{- if .Warnings}}
## Warnings
{{range .Warnings}}
- {{.}}{{end}}
{{end}}
{{- if .HasSim}}
## Monte Carlo

{{.SimTrials}} trials{{if .SimCancelled}} (cancelled){{end}}: mean {{.SimMean}}, P5 {{.SimP5}}, P50 {{.SimP50}}, P95 {{.SimP95}}
{{end}}`

var tmpl = template.Must(template.New("report").Parse(markdownTemplate))

// Markdown renders the report summary.
func Markdown(r *engine.Report) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, NewView(r)); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// HTML renders the Markdown summary with GitHub-flavoured tables.
func HTML(r *engine.Report) (string, error) {
	md, err := Markdown(r)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	conv := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := conv.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

// NewView flattens a report into display strings.
func NewView(r *engine.Report) View {
	cur := r.Input.Currency
	a := r.Assumptions
	h := r.Hybrid
	v := View{
		Company:    r.Input.CompanyName,
		Sector:     string(r.Input.Sector),
		Stage:      string(r.Input.Stage),
		Region:     string(r.Input.Region),
		Currency:   cur,
		Framework:  r.Framework.Name,
		Weighted:   Amount(h.WeightedValue, cur),
		Worst:      Amount(h.Scenarios.Worst, cur),
		Base:       Amount(h.Scenarios.Base, cur),
		Best:       Amount(h.Scenarios.Best, cur),
		Confidence: Percent(h.Confidence * 100),
		Degraded:   h.Degraded,
		Discount:   Percent(a.DiscountRate.Float()),
		Terminal:   Percent(a.TerminalGrowthRate.Float()),
		Growth:     fmt.Sprintf("%s (%s)", Percent(a.GrowthRate.Float()), a.GrowthSource),
		Rationale:  r.Recommendation.Rationale,
		Warnings:   r.Warnings,
	}
	if v.Company == "" {
		v.Company = "Unnamed company"
	}

	for _, m := range valuation.AllMethods {
		res, ok := r.Results[m]
		if !ok {
			continue
		}
		row := MethodRow{
			Label:      m.Label(),
			Weight:     Percent(r.Recommendation.Weights[m] * 100),
			Value:      "-",
			Confidence: Percent(res.Confidence * 100),
			Status:     string(res.Status),
		}
		if res.OK() {
			row.Value = Amount(res.Value, cur)
		}
		v.Methods = append(v.Methods, row)
	}
	for _, s := range h.Skipped {
		v.Skipped = append(v.Skipped, fmt.Sprintf("%s: %s", s.Method.Label(), s.Reason))
	}
	for _, n := range r.ComplianceNotes {
		v.Notes = append(v.Notes, n.String())
	}
	if sc := r.StageCheck; sc != nil {
		v.StageCheck = fmt.Sprintf("%s: %s (confidence %s)", sc.Methodology, Amount(sc.Value, cur), Percent(sc.Confidence*100))
	}
	if sim := r.Simulation; sim != nil {
		s := sim.Summary
		v.HasSim = true
		v.SimTrials = s.Trials
		v.SimCancelled = sim.Cancelled
		v.SimMean = Amount(s.Mean, cur)
		v.SimP5 = Amount(s.Percentiles.P5, cur)
		v.SimP50 = Amount(s.Percentiles.P50, cur)
		v.SimP95 = Amount(s.Percentiles.P95, cur)
	}
	return v
}

// Amount rounds to whole units and groups thousands: "USD 1,234,568".
func Amount(v float64, currency string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	d := decimal.NewFromFloat(v).Round(0)
	s := group(d.Abs().StringFixed(0))
	if d.IsNegative() {
		s = "-" + s
	}
	if currency == "" {
		return s
	}
	return currency + " " + s
}

// Percent rounds percentage points to two places: "25.15%".
func Percent(pp float64) string {
	if math.IsNaN(pp) || math.IsInf(pp, 0) {
		return "n/a"
	}
	return decimal.NewFromFloat(pp).Round(2).StringFixed(2) + "%"
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
