package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"papalote/internal/checkout"
	"papalote/internal/config"
	"papalote/internal/coupon"
	"papalote/internal/database"
	"papalote/internal/handler"
	"papalote/internal/metrics"
	"papalote/internal/repository"
	"papalote/internal/router"
	"papalote/internal/search"
	"papalote/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting papalote API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger, database.WithSchema())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	catalog, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to load coupon catalog: %w", err)
	}
	engine := coupon.NewEngine(catalog, logger)

	// Metrics live on their own registry alongside the runtime collectors.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	historyStore, closeStore, err := newHistoryStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize search history: %w", err)
	}
	defer closeStore()

	validator := checkout.NewValidator()

	// Initialize services
	couponService := service.NewCouponService(engine, m, logger)
	productService := service.NewProductService(productRepo, m, logger)
	orderService := service.NewOrderService(
		orderRepo,
		productRepo,
		couponService,
		validator,
		service.ShippingPolicy{
			FlatRate:      cfg.Shipping.FlatRate,
			FreeThreshold: cfg.Shipping.FreeThreshold,
		},
		logger,
	)
	history := search.NewHistory(historyStore, logger)

	// Initialize HTTP handlers and router
	mux := router.New(router.Handlers{
		Product:  handler.NewProductHandler(productService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Coupon:   handler.NewCouponHandler(couponService, logger),
		Checkout: handler.NewCheckoutHandler(validator, logger),
		History:  handler.NewHistoryHandler(history, logger),
	}, router.Options{
		APIKey:   cfg.Auth.APIKey,
		Metrics:  m,
		Gatherer: registry,
	}, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
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

// loadCatalog returns the built-in catalog unless a catalog path is
// configured, in which case it is read from S3 (when enabled) with the local
// file system as fallback.
func loadCatalog(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*coupon.Catalog, error) {
	if cfg.Coupons.CatalogPath == "" {
		logger.Info().Msg("using built-in coupon catalog")
		return coupon.DefaultCatalog()
	}

	var s3Loader coupon.Loader
	if cfg.S3.Enabled {
		l, err := coupon.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = l
		}
	} else {
		logger.Info().Msg("using local file system for coupon catalog (S3 disabled)")
	}

	loader := coupon.NewFallbackLoader(s3Loader, coupon.NewFileLoader(logger), cfg.S3.Prefix, cfg.S3.Enabled, logger)
	return loader.Load(ctx, cfg.Coupons.CatalogPath)
}

// newHistoryStore opens the configured search history backend. The returned
// func releases it.
func newHistoryStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (search.Store, func(), error) {
	if cfg.History.Backend != config.HistoryBackendRedis {
		logger.Info().Msg("keeping search history in memory")
		return search.NewMemoryStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}

	logger.Info().
		Str("addr", cfg.Redis.Addr).
		Dur("ttl", cfg.History.TTL).
		Msg("keeping search history in redis")

	return search.NewRedisStore(client, cfg.History.TTL), func() {
		if err := client.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close redis client")
		}
	}, nil
}
