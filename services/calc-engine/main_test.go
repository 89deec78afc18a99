package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

const payload = `{"company_name": "Example Tech", "sector": "technology", "region": "us",
	"stage": "revenue_early", "purpose": "fundraising",
	"revenue": 1000000, "growth_rate": 30, "margin": 20, "scalability_rating": 7}`

func TestCheckMode(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), &out, "check", payload); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "Success: discount 25.15%") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestCheckModeForcedRates(t *testing.T) {
	bad := strings.Replace(payload, `"margin": 20`, `"margin": 20, "forced_discount_rate": 10, "forced_terminal_growth": 12`, 1)
	err := run(context.Background(), &bytes.Buffer{}, "check", bad)
	if !errors.Is(err, models.ErrInvalidAssumption) {
		t.Fatalf("expected ErrInvalidAssumption, got %v", err)
	}
}

func TestCalculateMode(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), &out, "calculate", payload); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"weighted_value"`) {
		t.Error("expected a JSON report")
	}
}

func TestRunErrors(t *testing.T) {
	if err := run(context.Background(), &bytes.Buffer{}, "check", ""); err == nil {
		t.Error("expected an error without data")
	}
	if err := run(context.Background(), &bytes.Buffer{}, "audit", payload); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}
