package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/camayank/StartupValuator-sub001/pkg/core/montecarlo"
)

const acmeYAML = `company_name: Acme Robotics
sector: technology
region: us
stage: revenue_early
purpose: fundraising
revenue: 1000000
growth_rate: 30
margin: 20
scalability_rating: 7
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "acme.yaml")
	if err := os.WriteFile(inputPath, []byte(acmeYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	for i, a := range args {
		args[i] = strings.ReplaceAll(a, "$INPUT", inputPath)
	}
	args = append(args, "--config", filepath.Join(dir, "none.yaml"))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValueText(t *testing.T) {
	out, err := runCLI(t, "value", "$INPUT")
	if err != nil {
		t.Fatalf("value failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Valuation: Acme Robotics", "Weighted value", "International Valuation Standards"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestValueMarkdown(t *testing.T) {
	out, err := runCLI(t, "value", "$INPUT", "--format", "markdown")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "# Valuation: Acme Robotics") {
		t.Errorf("expected markdown, got %.60q", out)
	}
}

func TestValueUnknownFormat(t *testing.T) {
	if _, err := runCLI(t, "value", "$INPUT", "--format", "pdf"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestSimulateJSONSeeded(t *testing.T) {
	args := []string{"simulate", "$INPUT", "--format", "json", "--seed", "42", "--batches", "2", "--batch-size", "100"}
	first, err := runCLI(t, append([]string(nil), args...)...)
	if err != nil {
		t.Fatal(err)
	}
	var res montecarlo.SimulationResult
	if err := json.Unmarshal([]byte(first), &res); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if res.Summary.Trials != 200 || res.Seed != 42 {
		t.Errorf("expected 200 trials with seed 42, got %d with %d", res.Summary.Trials, res.Seed)
	}

	second, err := runCLI(t, append([]string(nil), args...)...)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("expected identical output for the same seed")
	}
}

func TestFrameworks(t *testing.T) {
	out, err := runCLI(t, "frameworks")
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"409a", "icai", "ifrs13", "ivs"} {
		if !strings.Contains(out, id) {
			t.Errorf("expected framework %s", id)
		}
	}
}

func TestSaveWithoutStore(t *testing.T) {
	if _, err := runCLI(t, "value", "$INPUT", "--save"); err == nil {
		t.Error("expected --save to fail without a configured store")
	}
}
