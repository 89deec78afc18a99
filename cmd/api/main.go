package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/camayank/StartupValuator-sub001/pkg/api/valuation"
	"github.com/camayank/StartupValuator-sub001/pkg/core/config"
	"github.com/camayank/StartupValuator-sub001/pkg/core/logging"
)

func main() {
	// Load environment variables
	godotenv.Load()

	configPath := os.Getenv("VALUATOR_CONFIG")
	if configPath == "" {
		configPath = "config/valuator.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, err := cfg.Engine(logger)
	if err != nil {
		logger.Fatal("failed to build engine", zap.Error(err))
	}
	repo, err := cfg.Store(ctx)
	if err != nil {
		logger.Fatal("failed to open run store", zap.Error(err))
	}
	if repo != nil {
		defer repo.Close()
	} else {
		logger.Info("run persistence disabled")
	}

	mux := http.NewServeMux()
	valuation.NewHandler(eng, repo, logger.Named("api")).Register(mux)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("API server starting",
		zap.String("addr", cfg.ListenAddr),
		zap.Strings("routes", []string{
			"POST /api/valuation/run",
			"POST /api/valuation/simulate",
			"GET  /api/valuation/frameworks",
			"GET  /api/valuation/runs",
		}))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
}
