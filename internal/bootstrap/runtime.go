// Package bootstrap wires the runtime dependencies shared by the server and
// the seeding command.
package bootstrap

import (
	"context"
	"fmt"

	"gloryharbor/internal/cache"
	"gloryharbor/internal/config"
	"gloryharbor/internal/database"
	"gloryharbor/internal/observability"
	"gloryharbor/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedBuiltIns installs the built-in sermon catalog at startup so a fresh
	// deployment never serves an empty media hub.
	SeedBuiltIns bool
	// Tracing starts the OpenTelemetry tracer provider per config.
	Tracing bool
}

// Runtime holds the initialized shared dependencies.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client

	tracingShutdown func(context.Context) error
}

// InitRuntime connects to the database and Redis, optionally starts tracing
// and installs the built-in sermon catalog.
func InitRuntime(cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// May leave a nil client if Redis is unreachable; caching and rate
	// limiting degrade gracefully.
	cache.InitRedis(cfg.RedisURL)

	rt := &Runtime{DB: db, Redis: cache.GetClient()}

	if opts.Tracing && cfg.TracingEnabled {
		shutdown, err := observability.InitTracing(observability.TracingConfig{
			ServiceName:  "gloryharbor-api",
			Enabled:      true,
			Exporter:     cfg.TracingExporter,
			OTLPEndpoint: cfg.OTLPEndpoint,
			SamplerRatio: cfg.TracingSampler,
			Environment:  cfg.Env,
		})
		if err != nil {
			return nil, fmt.Errorf("tracing initialization failed: %w", err)
		}
		rt.tracingShutdown = shutdown
	}

	if opts.SeedBuiltIns {
		if err := seed.Sermons(db); err != nil {
			return nil, fmt.Errorf("failed to seed built-in sermons: %w", err)
		}
	}

	return rt, nil
}

// Shutdown flushes tracing. Database and Redis handles are closed by their
// owners.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r.tracingShutdown != nil {
		return r.tracingShutdown(ctx)
	}
	return nil
}
