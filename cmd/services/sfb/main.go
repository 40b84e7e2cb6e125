package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/soltixdb/sfb/internal/analytics/engine"
	"github.com/soltixdb/sfb/internal/config"
	"github.com/soltixdb/sfb/internal/events"
	"github.com/soltixdb/sfb/internal/logging"
	"github.com/soltixdb/sfb/internal/observability"
	"github.com/soltixdb/sfb/internal/processing"
	"github.com/soltixdb/sfb/internal/queue"
	"github.com/soltixdb/sfb/internal/ratelimit"
	"github.com/soltixdb/sfb/internal/router"
	"github.com/soltixdb/sfb/internal/services"
	"github.com/soltixdb/sfb/internal/utils"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := logging.NewFromConfig(cfg.Logging, cfg.Service)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("SFB service starting...",
		"service", cfg.Service.Name, "environment", cfg.Service.Environment,
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing
	shutdownTracing, err := observability.InitTracing(ctx, cfg.Telemetry, cfg.Service)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", "error", err)
	}
	if cfg.Telemetry.TracingEnabled {
		logger.Info("Tracing enabled", "endpoint", cfg.Telemetry.OTLPEndpoint, "sample_ratio", cfg.Telemetry.SampleRatio)
	}

	var metrics *observability.Metrics
	if cfg.Telemetry.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	// Result events (optional)
	var publisher *events.Publisher
	if cfg.Events.Enabled {
		logger.Info("Connecting to Queue", "type", cfg.Queue.Type, "url", cfg.Queue.URL)
		q, err := queue.NewPublisher(cfg.Queue)
		if err != nil {
			logger.Fatal("Failed to connect to Queue", "error", err)
		}
		publisher, err = events.NewPublisher(cfg.Events, q, logger)
		if err != nil {
			logger.Fatal("Failed to initialize event publisher", "error", err)
		}
		logger.Info("Package events enabled", "queue", q.Name(), "subject", publisher.Subject())
	}

	// Rate limiter
	limiter, err := ratelimit.New(cfg.RateLimit, logger)
	if err != nil {
		logger.Fatal("Failed to initialize rate limiter", "error", err)
	}
	if limiter != nil {
		logger.Info("Rate limiting enabled",
			"backend", cfg.RateLimit.Backend, "requests_per_minute", cfg.RateLimit.RequestsPerMinute)
	}

	// Log authentication status
	if cfg.Auth.Enabled {
		logger.Info("JWT authentication enabled", "algorithm", cfg.Auth.Algorithm)
	} else {
		logger.Warn("JWT authentication DISABLED - requests run as the system user", "scopes", cfg.Auth.Scopes)
	}

	// Statistics pipeline
	var masker *processing.Masker
	if cfg.Masking.Enabled {
		masker = processing.NewMasker(cfg.Masking.Fields)
		logger.Info("Field masking enabled", "fields", masker.Fields())
	}
	processor := processing.NewProcessor(engine.NewFromConfig(cfg.Analytics, logger), masker, logger)
	service := services.NewStatisticsService(logger, processor, publisher, metrics, cfg.Server.RequestTimeout)

	// Initialize router
	app := router.New(logger, router.Dependencies{
		Service: service,
		Limiter: limiter,
		Metrics: metrics,
	}, *cfg)

	// Start server in goroutine
	go func() {
		addr := cfg.Server.Address()
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), utils.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if limiter != nil {
		if err := limiter.Close(); err != nil {
			logger.Warn("Failed to close rate limiter", "error", err)
		}
	}
	if err := publisher.Close(); err != nil {
		logger.Warn("Failed to close event publisher", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("Failed to flush traces", "error", err)
	}

	logger.Info("Server exited")
}
