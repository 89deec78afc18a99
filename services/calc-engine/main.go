package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/camayank/StartupValuator-sub001/pkg/core/assumption"
	"github.com/camayank/StartupValuator-sub001/pkg/core/benchmark"
	"github.com/camayank/StartupValuator-sub001/pkg/core/compliance"
	"github.com/camayank/StartupValuator-sub001/pkg/core/engine"
	"github.com/camayank/StartupValuator-sub001/pkg/core/input"
	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

func main() {
	mode := flag.String("mode", "calculate", "Mode: check or calculate")
	dataStr := flag.String("data", "", "JSON data payload")
	flag.Parse()

	if err := run(context.Background(), os.Stdout, *mode, *dataStr); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, w io.Writer, mode, data string) error {
	if data == "" {
		return fmt.Errorf("no data provided")
	}
	in, _, err := input.Decode([]byte(data))
	if err != nil {
		return err
	}

	switch mode {
	case "check":
		return runChecks(w, in)
	case "calculate":
		return runCalculations(ctx, w, in)
	default:
		return fmt.Errorf("unknown mode: %s", mode)
	}
}

// runChecks validates the input and confirms the adjusted rates keep
// discount above terminal growth.
func runChecks(w io.Writer, in models.ValuationInput) error {
	in = in.Normalize()
	tables := benchmark.Default()
	a, err := assumption.NewCalculator().Derive(in, tables)
	if err != nil {
		return err
	}
	f := compliance.ForContext(in.Region, in.Purpose, tables)
	adjusted, notes, err := compliance.NewAdjuster(nil).Apply(f, a)
	if err != nil {
		return err
	}
	if err := models.CheckSpread("check", adjusted.DiscountRate, adjusted.TerminalGrowthRate); err != nil {
		return err
	}
	fmt.Fprintf(w, "Success: discount %s > terminal growth %s under %s (%d notes)\n",
		adjusted.DiscountRate, adjusted.TerminalGrowthRate, f.ID, len(notes))
	return nil
}

func runCalculations(ctx context.Context, w io.Writer, in models.ValuationInput) error {
	rep, err := engine.New(engine.Config{}).Run(ctx, in, engine.Options{})
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
