package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/camayank/StartupValuator-sub001/pkg/core/compliance"
	"github.com/camayank/StartupValuator-sub001/pkg/core/engine"
	"github.com/camayank/StartupValuator-sub001/pkg/core/montecarlo"
	"github.com/camayank/StartupValuator-sub001/pkg/core/report"
	"github.com/camayank/StartupValuator-sub001/pkg/core/valuation"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(0, 2)

	valueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	labelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9CA3AF")).
		Width(22)

	warnStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F59E0B"))

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	mutedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))
)

func line(label, value string) string {
	return labelStyle.Render(label) + value
}

func renderReport(w io.Writer, rep *engine.Report) {
	cur := rep.Input.Currency
	h := rep.Hybrid

	summary := []string{
		line("Weighted value", valueStyle.Render(report.Amount(h.WeightedValue, cur))),
		line("Scenarios", fmt.Sprintf("%s / %s / %s",
			report.Amount(h.Scenarios.Worst, cur), report.Amount(h.Scenarios.Base, cur), report.Amount(h.Scenarios.Best, cur))),
		line("Confidence", fmt.Sprintf("%.0f%%", h.Confidence*100)),
		line("Framework", rep.Framework.Name),
		line("Discount rate", rep.Assumptions.DiscountRate.String()),
		line("Terminal growth", rep.Assumptions.TerminalGrowthRate.String()),
	}
	if h.Degraded {
		summary = append(summary, warnStyle.Render("degraded: one or more weighted methods were skipped"))
	}

	var methods []string
	for _, m := range valuation.AllMethods {
		res, ok := rep.Results[m]
		if !ok {
			continue
		}
		val := report.Amount(res.Value, cur)
		if !res.OK() {
			val = errorStyle.Render(string(res.Status))
		}
		weight := rep.Recommendation.Weights[m]
		methods = append(methods, line(string(m), fmt.Sprintf("%-18s weight %.2f", val, weight)))
	}

	fmt.Fprintln(w, titleStyle.Render("Valuation: "+rep.Input.CompanyName))
	fmt.Fprintln(w, boxStyle.Render(strings.Join(summary, "\n")))
	fmt.Fprintln(w, boxStyle.Render(strings.Join(methods, "\n")))
	for _, msg := range rep.Warnings {
		fmt.Fprintln(w, warnStyle.Render("! "+msg))
	}
	if rep.Simulation != nil {
		renderSimulation(w, rep.Input.CompanyName, cur, rep.Simulation)
	}
}

func renderSimulation(w io.Writer, company, cur string, res *montecarlo.SimulationResult) {
	s := res.Summary
	rows := []string{
		line("Trials", fmt.Sprintf("%d (seed %d)", s.Trials, res.Seed)),
		line("Mean", valueStyle.Render(report.Amount(s.Mean, cur))),
		line("Std dev", report.Amount(s.StdDev, cur)),
		line("P5 / P50 / P95", fmt.Sprintf("%s / %s / %s",
			report.Amount(s.Percentiles.P5, cur), report.Amount(s.Percentiles.P50, cur), report.Amount(s.Percentiles.P95, cur))),
		line("95% interval", fmt.Sprintf("%s - %s", report.Amount(s.CI95.Low, cur), report.Amount(s.CI95.High, cur))),
	}
	for _, name := range montecarlo.VariableNames {
		if c, ok := s.Attribution[name]; ok {
			rows = append(rows, line("corr "+name, fmt.Sprintf("%+.3f", c)))
		}
	}
	if res.Capped {
		rows = append(rows, warnStyle.Render("trial count capped by max_trials"))
	}
	if res.Cancelled {
		rows = append(rows, errorStyle.Render("cancelled: partial result"))
	}
	fmt.Fprintln(w, titleStyle.Render("Monte Carlo: "+company))
	fmt.Fprintln(w, boxStyle.Render(strings.Join(rows, "\n")))
}

func renderFrameworks(w io.Writer, version string, frameworks []compliance.Framework) {
	fmt.Fprintln(w, titleStyle.Render("Compliance frameworks"), mutedStyle.Render("tables "+version))
	for _, f := range frameworks {
		maxTerminal := "uncapped"
		if f.MaxTerminalGrowth != nil {
			maxTerminal = f.MaxTerminalGrowth.String()
		}
		rows := []string{
			valueStyle.Render(f.Name) + mutedStyle.Render(" ("+f.ID+", "+f.Jurisdiction+")"),
			line("Discount", fmt.Sprintf("%s - %s", f.MinDiscount, f.MaxDiscount)),
			line("Terminal growth", fmt.Sprintf("%s - %s", f.MinTerminalGrowth, maxTerminal)),
			line("Min spread", f.MinSpread.String()),
		}
		fmt.Fprintln(w, boxStyle.Render(strings.Join(rows, "\n")))
	}
}
