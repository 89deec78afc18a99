// Package compliance applies framework floors and caps to derived assumptions.
// Every change is reported as a Note; nothing is clamped silently.
package compliance

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/camayank/StartupValuator-sub001/pkg/core/assumption"
	"github.com/camayank/StartupValuator-sub001/pkg/core/benchmark"
	"github.com/camayank/StartupValuator-sub001/pkg/core/rate"
	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

// Framework is read-only reference data owned by the benchmark tables.
type Framework = benchmark.Framework

// NoteKind separates adjustments from standing disclosure requirements.
type NoteKind string

const (
	NoteViolation  NoteKind = "violation"
	NoteDisclosure NoteKind = "disclosure"
)

// Note is one human-readable compliance record.
type Note struct {
	Kind      NoteKind     `json:"kind"`
	Framework string       `json:"framework"`
	Field     string       `json:"field,omitempty"`
	From      rate.Percent `json:"from,omitempty"`
	To        rate.Percent `json:"to,omitempty"`
	Message   string       `json:"message"`
}

func (n Note) String() string {
	return fmt.Sprintf("[%s] %s", n.Framework, n.Message)
}

// floorSpread keeps discount strictly above terminal growth even when a
// framework sets no spread of its own.
const floorSpread rate.Percent = 1

// ForContext picks the framework that governs a region and purpose.
func ForContext(region models.Region, purpose models.Purpose, tables *benchmark.Tables) Framework {
	id := benchmark.FrameworkIVS
	switch region {
	case models.RegionUS:
		if purpose == models.PurposeESOP {
			id = benchmark.Framework409A
		}
	case models.RegionIndia:
		id = benchmark.FrameworkICAI
	case models.RegionUK, models.RegionEU:
		id = benchmark.FrameworkIFRS13
	}
	if f, ok := tables.Framework(id); ok {
		return f
	}
	if f, ok := tables.Framework(benchmark.FrameworkIVS); ok {
		return f
	}
	return Framework{ID: "none", Name: "No framework", MinSpread: floorSpread}
}

// Adjuster applies a Framework to FinancialAssumptions.
type Adjuster struct {
	logger *zap.Logger
}

// NewAdjuster builds an Adjuster; a nil logger disables logging.
func NewAdjuster(logger *zap.Logger) *Adjuster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adjuster{logger: logger}
}

// Apply clamps discount and terminal growth into the framework bounds, then
// raises the discount until the required spread over terminal growth holds.
// The terminal value is recomputed from the adjusted rates.
func (a *Adjuster) Apply(f Framework, in assumption.FinancialAssumptions) (assumption.FinancialAssumptions, []Note, error) {
	var notes []Note
	discount := in.DiscountRate
	terminal := in.TerminalGrowthRate

	record := func(field string, from, to rate.Percent, reason string) {
		notes = append(notes, Note{
			Kind: NoteViolation, Framework: f.ID, Field: field, From: from, To: to,
			Message: fmt.Sprintf("%s adjusted from %s to %s: %s", field, from, to, reason),
		})
		a.logger.Debug("compliance adjustment",
			zap.String("framework", f.ID),
			zap.String("field", field),
			zap.Float64("from", from.Float()),
			zap.Float64("to", to.Float()))
	}

	if f.MinDiscount > 0 && discount < f.MinDiscount {
		record("discount_rate", discount, f.MinDiscount, fmt.Sprintf("%s requires a discount rate of at least %s", f.Name, f.MinDiscount))
		discount = f.MinDiscount
	}
	if f.MaxDiscount > 0 && discount > f.MaxDiscount {
		record("discount_rate", discount, f.MaxDiscount, fmt.Sprintf("%s caps the discount rate at %s", f.Name, f.MaxDiscount))
		discount = f.MaxDiscount
	}
	if hi := f.MaxTerminalGrowth; hi != nil && terminal > *hi {
		record("terminal_growth_rate", terminal, *hi, fmt.Sprintf("%s caps terminal growth at %s", f.Name, *hi))
		terminal = *hi
	}
	if terminal < f.MinTerminalGrowth {
		record("terminal_growth_rate", terminal, f.MinTerminalGrowth, fmt.Sprintf("%s floors terminal growth at %s", f.Name, f.MinTerminalGrowth))
		terminal = f.MinTerminalGrowth
	}

	spread := f.MinSpread
	if spread < floorSpread {
		spread = floorSpread
	}
	if discount-terminal < spread {
		to := terminal + spread
		record("discount_rate", discount, to, fmt.Sprintf("discount must exceed terminal growth by at least %s", spread))
		discount = to
	}

	out, err := in.WithRates(discount, terminal)
	if err != nil {
		return in, notes, fmt.Errorf("apply %s: %w", f.ID, err)
	}

	for _, d := range f.Disclosures {
		notes = append(notes, Note{Kind: NoteDisclosure, Framework: f.ID, Message: d})
	}
	return out, notes, nil
}

// Violations filters the notes that record an adjustment.
func Violations(notes []Note) []Note {
	var out []Note
	for _, n := range notes {
		if n.Kind == NoteViolation {
			out = append(out, n)
		}
	}
	return out
}
