package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finsight/networth-go/internal/config"
	"github.com/finsight/networth-go/internal/fx"
	"github.com/finsight/networth-go/internal/handler"
	"github.com/finsight/networth-go/internal/infra/cache"
	"github.com/finsight/networth-go/internal/infra/observability"
	"github.com/finsight/networth-go/internal/infra/rates"
	"github.com/finsight/networth-go/internal/infra/resilience"
	"github.com/finsight/networth-go/internal/infra/supabase"
	"github.com/finsight/networth-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("rates_api_url", cfg.RatesAPIURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("rate_cache_ttl", cfg.RateCacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
	)

	if cfg.SupabaseURL == "" {
		logger.Fatal("SUPABASE_URL is required")
	}

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "networth-api")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	rateCache := cache.New[float64](cfg.RateCacheTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	storeBreaker := resilience.NewCircuitBreaker("supabase")
	ratesBreaker := resilience.NewCircuitBreaker("rates-api")

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	store := supabase.NewClient(
		httpClient,
		cfg.SupabaseURL,
		cfg.SupabaseAnonKey,
		cfg.SupabaseServiceKey,
		storeBreaker,
		resilienceCfg,
		logger,
	)
	rateSource := rates.NewClient(httpClient, cfg.RatesAPIURL, ratesBreaker, resilienceCfg, logger)

	// --- Currency conversion ---
	converter := fx.NewConverter(rateSource, rateCache, metrics, logger)

	// --- Services ---
	dashSvc := service.NewDashboardService(store, converter, cfg.MaxConcurrency, metrics, logger)
	projSvc := service.NewProjectionService(store, converter, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(dashSvc, projSvc, metrics, logger, cfg.AllowedOrigins)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
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
