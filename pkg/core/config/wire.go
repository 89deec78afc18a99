package config

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/camayank/StartupValuator-sub001/pkg/core/benchmark"
	"github.com/camayank/StartupValuator-sub001/pkg/core/cache"
	"github.com/camayank/StartupValuator-sub001/pkg/core/engine"
	"github.com/camayank/StartupValuator-sub001/pkg/core/montecarlo"
	"github.com/camayank/StartupValuator-sub001/pkg/core/store"
)

// Engine builds the valuation engine these settings describe. A zero
// CacheTTL disables the report cache.
func (c Config) Engine(logger *zap.Logger) (*engine.Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	tables := benchmark.Default()
	if c.BenchmarkFile != "" {
		t, err := benchmark.LoadFile(c.BenchmarkFile)
		if err != nil {
			return nil, err
		}
		tables = t
		logger.Info("loaded benchmark tables", zap.String("file", c.BenchmarkFile), zap.String("version", t.Version))
	}

	var reports *cache.Cache[*engine.Report]
	if c.CacheTTL > 0 {
		reports = cache.New[*engine.Report](c.CacheTTL, nil)
	}

	sim := montecarlo.New(montecarlo.Config{
		Workers:   c.MonteCarlo.Workers,
		MaxTrials: c.MonteCarlo.MaxTrials,
	}, logger.Named("montecarlo"))

	return engine.New(engine.Config{
		Tables:           tables,
		Cache:            reports,
		Simulator:        sim,
		Logger:           logger,
		DefaultBatches:   c.MonteCarlo.Batches,
		DefaultBatchSize: c.MonteCarlo.BatchSize,
	}), nil
}

// Store opens the run repository: PostgreSQL when DatabaseURL is set,
// otherwise SQLite when SQLitePath is set. It returns nil, nil when neither
// is configured.
func (c Config) Store(ctx context.Context) (store.Repository, error) {
	switch {
	case c.DatabaseURL != "":
		repo, err := store.OpenPostgres(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres store: %w", err)
		}
		return repo, nil
	case c.SQLitePath != "":
		repo, err := store.OpenSQLite(c.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}
		return repo, nil
	}
	return nil, nil
}
