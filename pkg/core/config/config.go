// Package config loads runtime settings for the valuation binaries from a
// YAML file, then applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// Config is shared by cmd/api and cmd/valuator.
type Config struct {
	ListenAddr    string         `yaml:"listen_addr"`
	BenchmarkFile string         `yaml:"benchmark_file"`
	LogLevel      string         `yaml:"log_level"`
	CacheTTL      time.Duration  `yaml:"cache_ttl"`
	DatabaseURL   string         `yaml:"database_url"`
	SQLitePath    string         `yaml:"sqlite_path"`
	MonteCarlo    MonteCarloConf `yaml:"monte_carlo"`
}

// MonteCarloConf sizes the simulation worker pool and default requests.
type MonteCarloConf struct {
	Workers   int     `yaml:"workers"`
	MaxTrials int     `yaml:"max_trials"`
	Batches   int     `yaml:"batches"`
	BatchSize int     `yaml:"batch_size"`
	Seed      *uint64 `yaml:"seed"`
}

// Default returns the settings used when no file or env var is given.
func Default() Config {
	return Config{
		ListenAddr: ":8080",
		LogLevel:   "info",
		CacheTTL:   10 * time.Minute,
		MonteCarlo: MonteCarloConf{
			MaxTrials: 1_000_000,
			Batches:   20,
			BatchSize: 500,
		},
	}
}

// Load reads path (a missing file is not an error) and applies env overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings no binary can run with.
func (c Config) Validate() error {
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative, got %s", c.CacheTTL)
	}
	mc := c.MonteCarlo
	if mc.Workers < 0 || mc.MaxTrials < 0 || mc.Batches < 0 || mc.BatchSize < 0 {
		return fmt.Errorf("monte_carlo sizes must not be negative")
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("VALUATOR_LISTEN_ADDR", &c.ListenAddr)
	str("VALUATOR_BENCHMARK_FILE", &c.BenchmarkFile)
	str("VALUATOR_LOG_LEVEL", &c.LogLevel)
	str("DATABASE_URL", &c.DatabaseURL)
	str("VALUATOR_SQLITE_PATH", &c.SQLitePath)

	if v, ok := lookup("VALUATOR_CACHE_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("VALUATOR_CACHE_TTL: %w", err)
		}
		c.CacheTTL = d
	}
	for key, dst := range map[string]*int{
		"VALUATOR_MC_WORKERS":    &c.MonteCarlo.Workers,
		"VALUATOR_MC_MAX_TRIALS": &c.MonteCarlo.MaxTrials,
		"VALUATOR_MC_BATCHES":    &c.MonteCarlo.Batches,
		"VALUATOR_MC_BATCH_SIZE": &c.MonteCarlo.BatchSize,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}
	if v, ok := lookup("VALUATOR_MC_SEED"); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("VALUATOR_MC_SEED: %w", err)
		}
		c.MonteCarlo.Seed = &seed
	}
	return nil
}
