// Package database owns the PostgreSQL pool, the embedded schema, and the
// sample catalogue used to seed a fresh store.
package database

import (
	"context"
	"fmt"
	"time"

	"papalote/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Pool timings used when the configuration leaves them unset.
const (
	DefaultMaxConnIdleTime   = 30 * time.Minute
	DefaultHealthCheckPeriod = time.Minute
)

type poolOptions struct {
	ensureSchema bool
}

// PoolOption tunes what NewPool does once the pool is reachable.
type PoolOption func(*poolOptions)

// WithSchema applies the embedded schema right after the first ping, so the
// API server and the seeder start from the same tables.
func WithSchema() PoolOption {
	return func(o *poolOptions) {
		o.ensureSchema = true
	}
}

// NewPool opens the store's connection pool and verifies it with a ping.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger, opts ...PoolOption) (*pgxpool.Pool, error) {
	var o poolOptions
	for _, opt := range opts {
		opt(&o)
	}

	poolConfig, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	logger = logger.With().Str("component", "database").Logger()
	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Int32("max_conns", poolConfig.MaxConns).
		Int32("min_conns", poolConfig.MinConns).
		Dur("max_conn_idle_time", poolConfig.MaxConnIdleTime).
		Bool("ensure_schema", o.ensureSchema).
		Msg("opening store database")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", cfg.Database, err)
	}

	if o.ensureSchema {
		if err := EnsureSchema(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return pool, nil
}

// PoolConfig translates the store configuration into pgx pool settings,
// filling unset timings with the package defaults.
func PoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	poolConfig.MaxConnIdleTime = orDefault(cfg.MaxConnIdleTime, DefaultMaxConnIdleTime)
	poolConfig.HealthCheckPeriod = orDefault(cfg.HealthCheckPeriod, DefaultHealthCheckPeriod)

	return poolConfig, nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
