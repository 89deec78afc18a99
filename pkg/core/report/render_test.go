package report

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/camayank/StartupValuator-sub001/pkg/core/engine"
	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

func sampleReport(t *testing.T, simulate bool) *engine.Report {
	t.Helper()
	seed := uint64(1)
	in := models.ValuationInput{
		CompanyName: "Acme Analytics",
		Sector:      models.SectorTechnology,
		Region:      models.RegionUS,
		Stage:       models.StageRevenueGrowth,
		Purpose:     models.PurposeESOP,
		Revenue:     4_000_000,
		GrowthRate:  45,
		Margin:      12,
	}
	eng := engine.New(engine.Config{DefaultBatches: 2, DefaultBatchSize: 100})
	rep, err := eng.Run(context.Background(), in, engine.Options{Simulate: simulate, Seed: &seed})
	if err != nil {
		t.Fatal(err)
	}
	return rep
}

func TestAmount(t *testing.T) {
	tests := []struct {
		v    float64
		cur  string
		want string
	}{
		{1234567.891, "USD", "USD 1,234,568"},
		{999.4, "", "999"},
		{-2500000, "INR", "INR -2,500,000"},
		{0, "USD", "USD 0"},
		{math.NaN(), "USD", "n/a"},
	}
	for _, tt := range tests {
		if got := Amount(tt.v, tt.cur); got != tt.want {
			t.Errorf("Amount(%v, %q): expected %q, got %q", tt.v, tt.cur, tt.want, got)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(25.149999); got != "25.15%" {
		t.Errorf("expected 25.15%%, got %s", got)
	}
}

func TestMarkdownSections(t *testing.T) {
	md, err := Markdown(sampleReport(t, false))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# Valuation: Acme Analytics", "## Methods", "## Compliance", "Discount rate:"} {
		if !strings.Contains(md, want) {
			t.Errorf("expected markdown to contain %q", want)
		}
	}
	if strings.Contains(md, "## Monte Carlo") {
		t.Error("expected no simulation section without a simulation")
	}
}

func TestHTMLTables(t *testing.T) {
	rep := sampleReport(t, true)
	html, err := HTML(rep)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(doc.Find("h1").First().Text()); got != "Valuation: Acme Analytics" {
		t.Errorf("expected title, got %q", got)
	}
	tables := doc.Find("table")
	if tables.Length() != 2 {
		t.Fatalf("expected scenario and method tables, got %d", tables.Length())
	}
	rows := tables.Eq(1).Find("tbody tr").Length()
	if rows != len(rep.Results) {
		t.Errorf("expected %d method rows, got %d", len(rep.Results), rows)
	}
	found := false
	doc.Find("h2").Each(func(_ int, s *goquery.Selection) {
		if s.Text() == "Monte Carlo" {
			found = true
		}
	})
	if !found {
		t.Error("expected a Monte Carlo section")
	}
}
