package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinsenglish/crave.services/internal/config"
	"github.com/justinsenglish/crave.services/internal/handler"
	"github.com/justinsenglish/crave.services/internal/infra/cache"
	"github.com/justinsenglish/crave.services/internal/infra/observability"
	"github.com/justinsenglish/crave.services/internal/infra/resilience"
	"github.com/justinsenglish/crave.services/internal/infra/snapshot"
	"github.com/justinsenglish/crave.services/internal/infra/square"
	"github.com/justinsenglish/crave.services/internal/port"
	"github.com/justinsenglish/crave.services/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	if err := config.LoadDotEnv(".env", "../.env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to read .env: %v\n", err)
		os.Exit(1)
	}

	// --- Config ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("square_base_url", cfg.SquareBaseURL),
		zap.String("timezone", cfg.Timezone),
		zap.Int("fetch_max_pages", cfg.FetchMaxPages),
		zap.Duration("fetch_max_duration", cfg.FetchMaxDuration),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Bool("record_snapshots", cfg.RecordSnapshots),
	)
	if cfg.SquareAccessToken == "" {
		logger.Warn("SQUARE_ACCESS_TOKEN is not set, Square calls will be rejected")
	}

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "crave-royalties")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	locationCache := cache.New[any](cfg.CacheTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("square")

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	squareClient := square.NewClient(httpClient, square.Settings{
		BaseURL:     cfg.SquareBaseURL,
		AccessToken: cfg.SquareAccessToken,
		Version:     cfg.SquareVersion,
		Resilience:  resilienceCfg,
		RateLimit:   cfg.SquareRateLimit,
		RateBurst:   cfg.SquareRateBurst,
	}, cb, logger)

	snapshotStore := snapshot.NewFileStore(cfg.SnapshotPath, logger)
	var recorder port.OrderSnapshotStore
	if cfg.RecordSnapshots {
		recorder = snapshotStore
		logger.Info("recording order snapshots", zap.String("path", snapshotStore.Path()))
	}

	// --- Services ---
	localizer, err := service.NewLocalizer(cfg.Timezone)
	if err != nil {
		logger.Fatal("invalid timezone", zap.Error(err))
	}
	fetcher := service.NewFetcher(squareClient, service.FetchLimits{
		MaxPages:    cfg.FetchMaxPages,
		MaxDuration: cfg.FetchMaxDuration,
	}, metrics, logger)

	salesSvc := service.NewSalesService(localizer, fetcher, recorder, metrics, logger)
	diagnosticSvc := service.NewDiagnosticService(snapshotStore, metrics, logger)
	franchiseSvc := service.NewFranchiseService(squareClient, locationCache, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(franchiseSvc, salesSvc, diagnosticSvc, cb, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute, // large date ranges page through many orders
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
