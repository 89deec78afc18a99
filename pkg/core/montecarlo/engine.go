// Package montecarlo simulates the distribution of a valuation by perturbing
// revenue, margin, growth, market size and discount rate. Batches run on a
// worker pool; each batch owns a generator seeded from (seed, batch index),
// so a seeded simulation is reproducible regardless of scheduling.
package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Variable indices into Trial.Deltas.
const (
	VarRevenue = iota
	VarMargin
	VarGrowth
	VarMarketSize
	VarDiscount
	numVars
)

// VariableNames matches the Trial.Deltas order.
var VariableNames = [numVars]string{"revenue", "margin", "growth", "market_size", "discount"}

// DefaultMaxTrials bounds NumBatches × BatchSize when the config sets no cap.
const DefaultMaxTrials = 1_000_000

// Variables are the driver distributions for one simulation.
type Variables struct {
	Revenue    AmountDistribution `json:"revenue"`
	MarketSize AmountDistribution `json:"market_size"`
	Margin     RateDistribution   `json:"margin"`
	Growth     RateDistribution   `json:"growth"`
	Discount   RateDistribution   `json:"discount"`
}

// Request is one simulation.
type Request struct {
	BaseValue  float64   `json:"base_value"`
	Variables  Variables `json:"variables"`
	NumBatches int       `json:"num_batches"`
	BatchSize  int       `json:"batch_size"`
	Seed       *uint64   `json:"seed,omitempty"` // nil draws a fresh seed, reported on the result
}

// Trial is one simulated outcome and each driver's deviation from its mean.
type Trial struct {
	Value  float64          `json:"value"`
	Deltas [numVars]float64 `json:"deltas"`
}

// BatchResult is the output of one batch.
type BatchResult struct {
	Index  int
	Trials []Trial
}

// SimulationResult collects the completed batches in batch order.
type SimulationResult struct {
	Trials           []Trial `json:"-"`
	Summary          Summary `json:"summary"`
	Seed             uint64  `json:"seed"`
	RequestedBatches int     `json:"requested_batches"`
	CompletedBatches int     `json:"completed_batches"`
	BatchSize        int     `json:"batch_size"`
	Capped           bool    `json:"capped"`
	Cancelled        bool    `json:"cancelled"`
}

// Values returns the trial values in order.
func (r *SimulationResult) Values() []float64 {
	out := make([]float64, len(r.Trials))
	for i, t := range r.Trials {
		out[i] = t.Value
	}
	return out
}

// Config controls the worker pool.
type Config struct {
	Workers   int
	MaxTrials int
}

// Engine runs simulations. It keeps no state between calls.
type Engine struct {
	cfg    Config
	logger *zap.Logger
}

// New builds an Engine; zero config values pick defaults.
func New(cfg Config, logger *zap.Logger) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.MaxTrials <= 0 {
		cfg.MaxTrials = DefaultMaxTrials
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{cfg: cfg, logger: logger}
}

// samplers are the variable distributions in fractional terms.
type samplers [numVars]AmountDistribution

func (v Variables) samplers() samplers {
	var s samplers
	s[VarRevenue] = v.Revenue
	s[VarMargin] = v.Margin.Fractions()
	s[VarGrowth] = v.Growth.Fractions()
	s[VarMarketSize] = v.MarketSize
	s[VarDiscount] = v.Discount.Fractions()
	return s
}

// Validate rejects requests the engine cannot run.
func (r Request) Validate() error {
	if r.NumBatches <= 0 || r.BatchSize <= 0 {
		return fmt.Errorf("num_batches and batch_size must be positive, got %d and %d", r.NumBatches, r.BatchSize)
	}
	if math.IsNaN(r.BaseValue) || math.IsInf(r.BaseValue, 0) {
		return fmt.Errorf("base value must be finite")
	}
	s := r.Variables.samplers()
	for i, d := range s {
		if err := d.Validate(VariableNames[i]); err != nil {
			return err
		}
	}
	return nil
}

// Simulate runs the request. On cancellation it returns the batches that
// completed, Cancelled=true and the context error.
func (e *Engine) Simulate(ctx context.Context, req Request) (*SimulationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	res := &SimulationResult{RequestedBatches: req.NumBatches, BatchSize: req.BatchSize}
	numBatches, batchSize := req.NumBatches, req.BatchSize
	if batchSize > e.cfg.MaxTrials {
		batchSize = e.cfg.MaxTrials
		res.Capped = true
	}
	if numBatches*batchSize > e.cfg.MaxTrials || numBatches > e.cfg.MaxTrials {
		numBatches = e.cfg.MaxTrials / batchSize
		res.Capped = true
	}
	res.BatchSize = batchSize
	if res.Capped {
		e.logger.Warn("simulation capped",
			zap.Int("requested_trials", req.NumBatches*req.BatchSize),
			zap.Int("max_trials", e.cfg.MaxTrials))
	}

	if req.Seed != nil {
		res.Seed = *req.Seed
	} else {
		res.Seed = rand.Uint64()
	}

	batches, err := e.runPool(ctx, req, res.Seed, numBatches, batchSize)
	for _, b := range batches {
		if b == nil {
			continue
		}
		res.Trials = append(res.Trials, b...)
		res.CompletedBatches++
	}
	res.Summary = Summarize(res.Trials)

	if err != nil {
		if ctx.Err() != nil {
			res.Cancelled = true
			e.logger.Info("simulation cancelled",
				zap.Int("completed_batches", res.CompletedBatches),
				zap.Int("batches", numBatches))
			return res, ctx.Err()
		}
		return nil, err
	}
	return res, nil
}

// runPool feeds batch indices to the workers and gathers their results by index.
func (e *Engine) runPool(ctx context.Context, req Request, seed uint64, numBatches, batchSize int) ([][]Trial, error) {
	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan int)
	results := make(chan BatchResult, e.cfg.Workers)
	s := req.Variables.samplers()

	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < numBatches; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < e.cfg.Workers; w++ {
		g.Go(func() error {
			for idx := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				br := runBatch(req.BaseValue, s, seed, idx, batchSize)
				select {
				case results <- br:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
		close(results)
	}()

	batches := make([][]Trial, numBatches)
	for br := range results {
		batches[br.Index] = br.Trials
	}
	err := <-done
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return batches, ctx.Err()
	}
	return batches, err
}

// runBatch is pure: the same (seed, index) always yields the same trials.
func runBatch(base float64, s samplers, seed uint64, index, size int) BatchResult {
	rng := rand.New(rand.NewPCG(seed, uint64(index)))
	var means [numVars]float64
	for i, d := range s {
		means[i] = d.Expected()
	}

	trials := make([]Trial, size)
	for t := range trials {
		var draw [numVars]float64
		for i, d := range s {
			draw[i] = d.Sample(rng)
		}
		trials[t].Value = TrialValue(base, draw[VarRevenue], draw[VarMarketSize], draw[VarMargin], draw[VarGrowth], draw[VarDiscount])
		for i := range draw {
			trials[t].Deltas[i] = draw[i] - means[i]
		}
	}
	return BatchResult{Index: index, Trials: trials}
}

// TrialValue is base × (1+g)(1+m) × min(revenue/marketSize, 1) / (1+d).
// Rates are fractions. A non-positive market size leaves the capacity term at 1.
func TrialValue(base, revenue, marketSize, margin, growth, discount float64) float64 {
	capacity := 1.0
	if marketSize > 0 {
		capacity = math.Max(0, math.Min(revenue/marketSize, 1))
	}
	return base * (1 + growth) * (1 + margin) * capacity / (1 + discount)
}
