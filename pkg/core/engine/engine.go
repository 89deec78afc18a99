// Package engine runs one valuation end to end: input → assumptions →
// compliance → selection → methods → hybrid aggregate, with an optional
// Monte Carlo pass over the aggregate value.
package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/camayank/StartupValuator-sub001/pkg/core/assumption"
	"github.com/camayank/StartupValuator-sub001/pkg/core/benchmark"
	"github.com/camayank/StartupValuator-sub001/pkg/core/cache"
	"github.com/camayank/StartupValuator-sub001/pkg/core/compliance"
	"github.com/camayank/StartupValuator-sub001/pkg/core/hybrid"
	"github.com/camayank/StartupValuator-sub001/pkg/core/montecarlo"
	"github.com/camayank/StartupValuator-sub001/pkg/core/selection"
	"github.com/camayank/StartupValuator-sub001/pkg/core/stagemodel"
	"github.com/camayank/StartupValuator-sub001/pkg/core/valuation"
	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

// Report is the full output of one run. Reports served from the cache share
// their maps and slices with the cached entry and must be treated as read-only.
type Report struct {
	Input           models.ValuationInput                 `json:"input"`
	TablesVersion   string                                `json:"tables_version"`
	BaseAssumptions assumption.FinancialAssumptions       `json:"base_assumptions"`
	Assumptions     assumption.FinancialAssumptions       `json:"assumptions"`
	Framework       compliance.Framework                  `json:"framework"`
	ComplianceNotes []compliance.Note                     `json:"compliance_notes"`
	Recommendation  selection.Recommendation              `json:"recommendation"`
	Results         map[valuation.Method]valuation.Result `json:"results"`
	Hybrid          hybrid.Result                         `json:"hybrid"`
	StageCheck      *stagemodel.Result                    `json:"stage_check,omitempty"`
	Warnings        []string                              `json:"warnings,omitempty"`
	Simulation      *montecarlo.SimulationResult          `json:"simulation,omitempty"`
}

// Options tune a single run.
type Options struct {
	// AllMethods computes every method for the breakdown; only weighted
	// methods enter the aggregate.
	AllMethods bool
	// Simulate requests a Monte Carlo pass over the weighted value.
	Simulate bool
	// Simulation overrides the default request. A zero BaseValue is
	// replaced by the weighted value.
	Simulation *montecarlo.Request
	Seed       *uint64
	// NoCache bypasses the report cache for this run.
	NoCache bool
}

// Config wires an Engine. Nil fields get defaults.
type Config struct {
	Tables     *benchmark.Tables
	Calculator *assumption.Calculator
	Cache      *cache.Cache[*Report]
	Simulator  *montecarlo.Engine
	Logger     *zap.Logger

	DefaultBatches   int
	DefaultBatchSize int
}

// Engine is safe for concurrent use. Its only mutable state is the
// optional cache it was given.
type Engine struct {
	tables     *benchmark.Tables
	calc       *assumption.Calculator
	adjuster   *compliance.Adjuster
	selector   *selection.Selector
	aggregator *hybrid.Aggregator
	simulator  *montecarlo.Engine
	cache      *cache.Cache[*Report]
	logger     *zap.Logger

	batches   int
	batchSize int
}

// New builds an Engine from cfg.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tables := cfg.Tables
	if tables == nil {
		tables = benchmark.Default()
	}
	calc := cfg.Calculator
	if calc == nil {
		calc = assumption.NewCalculator()
	}
	sim := cfg.Simulator
	if sim == nil {
		sim = montecarlo.New(montecarlo.Config{}, logger.Named("montecarlo"))
	}
	e := &Engine{
		tables:     tables,
		calc:       calc,
		adjuster:   compliance.NewAdjuster(logger.Named("compliance")),
		selector:   selection.NewSelector(tables),
		aggregator: hybrid.NewAggregator(logger.Named("hybrid")),
		simulator:  sim,
		cache:      cfg.Cache,
		logger:     logger,
		batches:    cfg.DefaultBatches,
		batchSize:  cfg.DefaultBatchSize,
	}
	if e.batches <= 0 {
		e.batches = montecarlo.DefaultBatches
	}
	if e.batchSize <= 0 {
		e.batchSize = montecarlo.DefaultBatchSize
	}
	return e
}

// Tables returns the benchmark tables the engine was built with.
func (e *Engine) Tables() *benchmark.Tables { return e.tables }

// Run values one input. Input-level failures (*models.OutOfRangeError,
// *models.InvalidAssumptionError on the base assumptions) reject the run.
// A cancelled simulation returns the report, its partial simulation and the
// context error together.
func (e *Engine) Run(ctx context.Context, in models.ValuationInput, opts Options) (*Report, error) {
	in = in.Normalize()

	var report *Report
	if e.cache != nil && !opts.NoCache && !opts.AllMethods {
		if cached, ok := e.cache.Get(in, e.tables.Version); ok {
			e.logger.Debug("report cache hit", zap.String("company", in.CompanyName))
			cp := *cached
			report = &cp
		}
	}

	if report == nil {
		r, err := e.evaluate(in, opts)
		if err != nil {
			return nil, err
		}
		report = r
		if e.cache != nil && !opts.NoCache && !opts.AllMethods {
			e.cache.Put(in, e.tables.Version, report)
			cp := *report
			report = &cp
		}
	}

	if !opts.Simulate {
		return report, nil
	}
	sim, err := e.simulator.Simulate(ctx, e.simulationRequest(report, opts))
	report.Simulation = sim
	if err != nil {
		if sim != nil {
			return report, err
		}
		return nil, fmt.Errorf("monte carlo: %w", err)
	}
	return report, nil
}

// evaluate is the deterministic part of a run.
func (e *Engine) evaluate(in models.ValuationInput, opts Options) (*Report, error) {
	if err := validate(in); err != nil {
		e.logger.Info("valuation rejected", zap.String("company", in.CompanyName), zap.Error(err))
		return nil, err
	}
	base, err := e.calc.Derive(in, e.tables)
	if err != nil {
		e.logger.Info("valuation rejected", zap.String("company", in.CompanyName), zap.Error(err))
		return nil, err
	}

	fw := compliance.ForContext(in.Region, in.Purpose, e.tables)
	adjusted, notes, err := e.adjuster.Apply(fw, base)
	if err != nil {
		return nil, fmt.Errorf("compliance %s: %w", fw.ID, err)
	}

	rec := e.selector.Select(in)
	methods := rec.Weights.Methods()
	if opts.AllMethods {
		methods = valuation.AllMethods
	}
	results := valuation.Run(methods, in, adjusted, e.tables)

	agg, err := e.aggregator.Aggregate(results, rec.Weights)
	if err != nil {
		e.logger.Warn("no usable methods", zap.String("company", in.CompanyName), zap.Any("skipped", agg.Skipped))
		return nil, err
	}

	report := &Report{
		Input:           in,
		TablesVersion:   e.tables.Version,
		BaseAssumptions: base,
		Assumptions:     adjusted,
		Framework:       fw,
		ComplianceNotes: notes,
		Recommendation:  rec,
		Results:         results,
		Hybrid:          agg,
	}

	if check, err := stagemodel.CrossCheck(in); err != nil {
		report.Warnings = append(report.Warnings, "stage cross-check: "+err.Error())
	} else {
		report.StageCheck = check
	}

	e.logger.Info("valuation complete",
		zap.String("company", in.CompanyName),
		zap.String("framework", fw.ID),
		zap.Float64("discount_rate", adjusted.DiscountRate.Float()),
		zap.Float64("weighted_value", agg.WeightedValue),
		zap.Int("methods", len(agg.Methods)),
		zap.Bool("degraded", agg.Degraded))
	return report, nil
}

// validate runs every input range check before anything is derived.
func validate(in models.ValuationInput) error {
	if err := assumption.Validate(in); err != nil {
		return err
	}
	return stagemodel.ValidateInput(in)
}

func (e *Engine) simulationRequest(r *Report, opts Options) montecarlo.Request {
	var req montecarlo.Request
	if opts.Simulation != nil {
		req = *opts.Simulation
	} else {
		req = montecarlo.DefaultRequest(r.Hybrid.WeightedValue, r.Input, r.Assumptions, nil)
		req.NumBatches = e.batches
		req.BatchSize = e.batchSize
	}
	if req.BaseValue == 0 {
		req.BaseValue = r.Hybrid.WeightedValue
	}
	if req.NumBatches == 0 {
		req.NumBatches = e.batches
	}
	if req.BatchSize == 0 {
		req.BatchSize = e.batchSize
	}
	if req.Seed == nil {
		req.Seed = opts.Seed
	}
	return req
}

// Simulate runs a standalone Monte Carlo request.
func (e *Engine) Simulate(ctx context.Context, req montecarlo.Request) (*montecarlo.SimulationResult, error) {
	return e.simulator.Simulate(ctx, req)
}

// Frameworks lists the compliance frameworks in the engine's tables.
func (e *Engine) Frameworks() []compliance.Framework {
	return append([]compliance.Framework(nil), e.tables.Frameworks...)
}
