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

	"dry-cleaner/internal/config"
	"dry-cleaner/internal/database"
	"dry-cleaner/internal/handler"
	"dry-cleaner/internal/metrics"
	"dry-cleaner/internal/middleware"
	"dry-cleaner/internal/notify"
	"dry-cleaner/internal/report"
	"dry-cleaner/internal/repository"
	"dry-cleaner/internal/router"
	"dry-cleaner/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger, cfg.App, "api")
	logger.Info().Msg("starting dry-cleaner API server")

	loc, err := cfg.App.Location()
	if err != nil {
		return err
	}
	clock := func() time.Time { return time.Now().In(loc) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Order storage
	var (
		orderRepo repository.OrderRepository
		db        router.Pinger
	)
	if cfg.Database.Enabled {
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()

		if err := database.Migrate(ctx, pool, logger); err != nil {
			return err
		}
		orderRepo = repository.NewOrderRepository(pool, logger)
		db = pool
	} else {
		logger.Warn().Msg("database disabled, orders are kept in memory and lost on restart")
		orderRepo = repository.NewMemoryRepository(logger)
	}

	// Client notifications
	notifier := newNotifier(cfg.Notify, logger)
	dispatcher := notify.NewDispatcher(notifier, cfg.Notify.Timeout(), m, logger)
	defer func() {
		if err := dispatcher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close notifier")
		}
	}()

	archive := newArchive(ctx, cfg, logger)

	orderService := service.NewOrderService(orderRepo, dispatcher, m, clock, logger)
	reportService := service.NewReportService(
		orderRepo,
		report.NewExporter(cfg.App.Name, loc),
		archive,
		cfg.App.Name,
		m,
		clock,
		logger,
	)

	mux := router.New(router.Handlers{
		Orders:    handler.NewOrderHandler(orderService, logger),
		Reports:   handler.NewReportHandler(reportService, loc, logger),
		Catalogue: handler.NewCatalogueHandler(logger),
	}, router.Options{
		APIKey:  cfg.Auth.APIKey,
		DB:      db,
		Metrics: m,
		Limiter: middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger),
	}, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("timezone", loc.String()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

func newNotifier(cfg config.NotifyConfig, logger zerolog.Logger) notify.Notifier {
	if cfg.Sink == "kafka" {
		brokers := notify.ParseBrokers(cfg.KafkaBrokers)
		logger.Info().
			Strs("brokers", brokers).
			Str("topic", cfg.KafkaTopic).
			Msg("publishing client notifications to kafka")
		return notify.NewKafkaNotifier(brokers, cfg.KafkaTopic, logger)
	}
	return notify.NewLogNotifier(logger)
}

// newArchive picks where exported PDFs are kept: S3 with a local fallback,
// S3 alone, the local directory alone, or nowhere.
func newArchive(ctx context.Context, cfg *config.Config, logger zerolog.Logger) report.Store {
	var local report.Store
	if cfg.Report.ArchiveDir != "" {
		local = report.NewFileStore(cfg.Report.ArchiveDir, logger)
	}

	if !cfg.S3.Enabled {
		if local == nil {
			logger.Info().Msg("report archiving disabled")
		}
		return local
	}

	remote, err := report.NewS3Store(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialise S3 report store, archiving locally only")
		return local
	}
	if local == nil {
		return remote
	}
	return report.NewFallbackStore(remote, local, logger)
}
