package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"code-redeem/internal/codefile"
	"code-redeem/internal/config"
	"code-redeem/internal/database"
	"code-redeem/internal/handler"
	"code-redeem/internal/middleware"
	"code-redeem/internal/repository"
	sqlitestore "code-redeem/internal/repository/sqlite"
	"code-redeem/internal/router"
	"code-redeem/internal/service"
	"code-redeem/internal/worker"

	"github.com/go-redis/redis/v8"
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

	logger := config.NewLogger(cfg.Logger)
	logger.Info().
		Str("driver", cfg.Database.Driver).
		Msg("starting code redemption API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, closeStores, err := openStores(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer closeStores()

	loader := newLoader(ctx, cfg, logger)

	redemptionService := service.NewRedemptionService(stores, logger)
	importService := service.NewImportService(stores, loader, service.ImportSources{
		SingleUseFile: cfg.Import.SingleUseFile,
		TimedFile:     cfg.Import.TimedFile,
		Location:      cfg.Import.Location(),
	}, logger)

	if cfg.Import.OnStartup {
		report, err := importService.Rewrite(ctx)
		if err != nil {
			return fmt.Errorf("startup import failed: %w", err)
		}
		logger.Info().
			Int("single_use_loaded", report.SingleUseLoaded).
			Int("timed_loaded", report.TimedLoaded).
			Msg("startup import completed")
	}

	retention := worker.NewRetentionWorker(stores.Redemptions, cfg.Ledger.Retention, cfg.Ledger.PurgeInterval, logger)
	retention.Start(ctx)
	defer retention.Stop()

	limiter, closeLimiter, err := newLimiter(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize rate limiter: %w", err)
	}
	defer closeLimiter()

	mux := router.New(router.Handlers{
		Redemption: handler.NewRedemptionHandler(redemptionService, logger),
		Admin:      handler.NewAdminHandler(redemptionService, importService, cfg.Import.Location(), logger),
		Health:     handler.NewHealthHandler(stores.Ping, logger),
	}, router.Options{
		APIKey:          cfg.Auth.APIKey,
		Limiter:         limiter,
		RateLimitWindow: cfg.RateLimit.Window,
	}, logger)

	if cfg.Auth.APIKey == "" {
		logger.Warn().Msg("API_KEY not set, admin routes are unauthenticated")
	}

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
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

// openStores connects to the configured driver, applies migrations and
// returns the repositories with a function that releases the handle.
func openStores(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (repository.Stores, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := database.OpenPostgres(ctx, cfg, logger)
		if err != nil {
			return repository.Stores{}, nil, err
		}
		if err := database.MigratePostgres(ctx, pool, logger); err != nil {
			pool.Close()
			return repository.Stores{}, nil, err
		}
		return repository.NewPostgresStores(pool, logger), pool.Close, nil

	default:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return repository.Stores{}, nil, err
		}
		if err := database.MigrateSQLite(ctx, db, logger); err != nil {
			db.Close()
			return repository.Stores{}, nil, err
		}
		closeDB := func() {
			if err := db.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close sqlite database")
			}
		}
		return sqlitestore.NewStores(db, logger), closeDB, nil
	}
}

// newLoader builds the bulk file loader, preferring S3 when enabled.
func newLoader(ctx context.Context, cfg *config.Config, logger zerolog.Logger) codefile.Loader {
	fileLoader := codefile.NewFileLoader(logger)

	if !cfg.S3.Enabled {
		logger.Info().Msg("using local file system for code files (S3 disabled)")
		return fileLoader
	}

	s3Loader, err := codefile.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader
	}

	return codefile.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, true, logger)
}

// newLimiter returns the redemption rate limiter, or nil when disabled. A
// configured Redis URL shares the counters between instances.
func newLimiter(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (middleware.Limiter, func(), error) {
	noop := func() {}

	if !cfg.RateLimit.Enabled {
		return nil, noop, nil
	}

	if cfg.Redis.URL == "" {
		logger.Info().
			Int("requests", cfg.RateLimit.Requests).
			Dur("window", cfg.RateLimit.Window).
			Msg("using in-memory rate limiter")
		return middleware.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window), noop, nil
	}

	opts := &redis.Options{
		Addr:     cfg.Redis.URL,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	if strings.HasPrefix(cfg.Redis.URL, "redis://") || strings.HasPrefix(cfg.Redis.URL, "rediss://") {
		parsed, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, noop, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		opts = parsed
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, noop, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info().
		Str("addr", opts.Addr).
		Int("requests", cfg.RateLimit.Requests).
		Dur("window", cfg.RateLimit.Window).
		Msg("using redis rate limiter")

	closeClient := func() {
		if err := client.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close redis client")
		}
	}
	return middleware.NewRedisLimiter(client, cfg.RateLimit.Requests, cfg.RateLimit.Window), closeClient, nil
}
