package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/camayank/StartupValuator-sub001/pkg/core/config"
	"github.com/camayank/StartupValuator-sub001/pkg/core/engine"
	"github.com/camayank/StartupValuator-sub001/pkg/core/input"
	"github.com/camayank/StartupValuator-sub001/pkg/core/logging"
	"github.com/camayank/StartupValuator-sub001/pkg/core/montecarlo"
	"github.com/camayank/StartupValuator-sub001/pkg/core/report"
	"github.com/camayank/StartupValuator-sub001/pkg/core/store"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	debug      bool

	cfg    config.Config
	logger *zap.Logger
	engine *engine.Engine
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "valuator",
		Short: "Startup valuation engine",
		Long: `valuator derives financial assumptions for a startup, applies the
governing compliance framework, runs the selected valuation methods and
blends them into a single weighted value.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	rootCmd.AddCommand(newValueCmd(a))
	rootCmd.AddCommand(newSimulateCmd(a))
	rootCmd.AddCommand(newFrameworksCmd(a))

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "config/valuator.yaml", "Configuration file path")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	return rootCmd
}

func (a *app) init() error {
	godotenv.Load()

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.debug {
		cfg.LogLevel = "debug"
	} else if cfg.LogLevel == "info" {
		cfg.LogLevel = "warn"
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	eng, err := cfg.Engine(logger)
	if err != nil {
		return err
	}
	a.cfg, a.logger, a.engine = cfg, logger, eng
	return nil
}

// newValueCmd creates the value command
func newValueCmd(a *app) *cobra.Command {
	var (
		format     string
		allMethods bool
		simulate   bool
		seed       int64
		save       bool
	)
	cmd := &cobra.Command{
		Use:   "value [INPUT_FILE]",
		Short: "Value a company described by a JSON, Hjson or YAML file",
		Long: `Value a company described by an input document.
Example: valuator value acme.yaml --format=markdown --simulate --seed=42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _, err := input.DecodeFile(args[0])
			if err != nil {
				return err
			}
			opts := engine.Options{AllMethods: allMethods, Simulate: simulate}
			if s := a.seed(cmd, seed); s != nil {
				opts.Seed = s
			}

			rep, err := a.engine.Run(cmd.Context(), in, opts)
			if err != nil {
				return err
			}
			if save {
				if err := a.save(cmd.Context(), cmd.ErrOrStderr(), rep); err != nil {
					return err
				}
			}
			return writeReport(cmd.OutOrStdout(), rep, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json, markdown or html")
	cmd.Flags().BoolVar(&allMethods, "all-methods", false, "Compute every method, not only the weighted ones")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "Run a Monte Carlo pass over the weighted value")
	cmd.Flags().Int64Var(&seed, "seed", -1, "Monte Carlo seed (random when negative)")
	cmd.Flags().BoolVar(&save, "save", false, "Persist the run to the configured store")

	return cmd
}

// newSimulateCmd creates the simulate command
func newSimulateCmd(a *app) *cobra.Command {
	var (
		batches   int
		batchSize int
		seed      int64
		format    string
	)
	cmd := &cobra.Command{
		Use:   "simulate [INPUT_FILE]",
		Short: "Run a Monte Carlo simulation around the weighted value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _, err := input.DecodeFile(args[0])
			if err != nil {
				return err
			}
			rep, err := a.engine.Run(cmd.Context(), in, engine.Options{NoCache: true})
			if err != nil {
				return err
			}

			req := montecarlo.DefaultRequest(rep.Hybrid.WeightedValue, rep.Input, rep.Assumptions, a.seed(cmd, seed))
			req.NumBatches = firstPositive(batches, a.cfg.MonteCarlo.Batches, req.NumBatches)
			req.BatchSize = firstPositive(batchSize, a.cfg.MonteCarlo.BatchSize, req.BatchSize)

			res, err := a.engine.Simulate(cmd.Context(), req)
			if err != nil && res == nil {
				return err
			}
			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(res); encErr != nil {
					return encErr
				}
				return err
			}
			renderSimulation(cmd.OutOrStdout(), in.CompanyName, in.Currency, res)
			return err
		},
	}

	cmd.Flags().IntVar(&batches, "batches", 0, "Number of batches (config default when 0)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Trials per batch (config default when 0)")
	cmd.Flags().Int64Var(&seed, "seed", -1, "Seed (random when negative)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")

	return cmd
}

// newFrameworksCmd creates the frameworks command
func newFrameworksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "frameworks",
		Short: "List the compliance frameworks and their rate bounds",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			renderFrameworks(cmd.OutOrStdout(), a.engine.Tables().Version, a.engine.Frameworks())
		},
	}
}

// seed resolves the --seed flag, falling back to the configured seed.
func (a *app) seed(cmd *cobra.Command, flag int64) *uint64 {
	if cmd.Flags().Changed("seed") && flag >= 0 {
		s := uint64(flag)
		return &s
	}
	return a.cfg.MonteCarlo.Seed
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}

func (a *app) save(ctx context.Context, w io.Writer, rep *engine.Report) error {
	repo, err := a.cfg.Store(ctx)
	if err != nil {
		return err
	}
	if repo == nil {
		return fmt.Errorf("--save needs database_url or sqlite_path in the configuration")
	}
	defer repo.Close()

	rec := store.NewRunRecord(rep, time.Now())
	if err := repo.Save(ctx, rec); err != nil {
		return err
	}
	fmt.Fprintln(w, mutedStyle.Render("saved run "+rec.ID.String()))
	return nil
}

func writeReport(w io.Writer, rep *engine.Report, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "markdown":
		md, err := report.Markdown(rep)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, md)
		return err
	case "html":
		html, err := report.HTML(rep)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	case "text", "":
		renderReport(w, rep)
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}
