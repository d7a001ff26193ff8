package app

import (
	"context"
	"database/sql"
	"fleet-route-service/internal/adapters/cache"
	"fleet-route-service/internal/adapters/distance"
	"fleet-route-service/internal/adapters/repositories"
	"fleet-route-service/internal/config"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/platform/db"
	"fleet-route-service/internal/ports"
	"fleet-route-service/internal/services"
	"fmt"

	"go.uber.org/zap"
)

// Deps are the adapters selected by configuration.
type Deps struct {
	Repo  ports.InstanceRepository
	Store ports.PlanStore
	DB    *sql.DB

	closers []func() error
}

// Close releases connections opened by Wire.
func (d *Deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			zap.L().Warn("close dependency", zap.Error(err))
		}
	}
}

// Wire picks Postgres or files for instances, ORS or haversine for
// distances and Redis or memory for plans.
func Wire(ctx context.Context, cfg config.Config) (*Deps, error) {
	deps := &Deps{}

	if cfg.DatabaseURL != "" {
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("wire: %w", err)
		}
		deps.DB = conn
		deps.closers = append(deps.closers, conn.Close)
	}

	matrix, err := MatrixProvider(cfg, deps.DB)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("wire: %w", err)
	}

	if deps.DB != nil {
		deps.Repo = repositories.NewPostgresInstanceRepository(deps.DB, matrix)
		zap.L().Info("instance source", zap.String("kind", "postgres"))
	} else {
		deps.Repo = repositories.NewFileInstanceRepository(cfg.InstancePath, cfg.FleetPath, matrix)
		zap.L().Info("instance source",
			zap.String("kind", "files"),
			zap.String("instance", cfg.InstancePath),
			zap.String("fleet", cfg.FleetPath),
		)
	}

	if cfg.RedisURL != "" {
		store, err := cache.NewRedisPlanStore(ctx, cfg.RedisURL, cfg.PlanTTL)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("wire: %w", err)
		}
		deps.Store = store
		deps.closers = append(deps.closers, store.Close)
	} else {
		deps.Store = cache.NewMemoryPlanStore()
	}

	return deps, nil
}

// MatrixProvider returns the ORS builder when an API key is configured,
// with a Postgres row cache when conn is set, and haversine otherwise.
func MatrixProvider(cfg config.Config, conn *sql.DB) (ports.DistanceMatrixProvider, error) {
	if cfg.ORSAPIKey == "" {
		return distance.NewHaversineBuilder(0), nil
	}

	var rowCache ports.DistanceCache
	if conn != nil {
		rowCache = cache.NewSQLDistanceCache(conn)
	}
	var opts []distance.ORSOption
	if cfg.ORSRatePerSec > 0 {
		opts = append(opts, distance.WithRateLimit(cfg.ORSRatePerSec, 1))
	}
	return distance.NewORSMatrixBuilder(cfg.ORSAPIKey, rowCache, opts...)
}

// PlanDefaults turns configuration into the defaults of every plan request.
func PlanDefaults(cfg config.Config) (services.PlanRequest, error) {
	strategy, err := domain.ParseStrategy(cfg.Strategy)
	if err != nil {
		return services.PlanRequest{}, err
	}
	improvement, err := domain.ParseImprovement(cfg.Improvement)
	if err != nil {
		return services.PlanRequest{}, err
	}
	return services.PlanRequest{
		Strategy:       strategy,
		Improvement:    improvement,
		FuelPrice:      cfg.FuelPrice,
		FullnessWeight: cfg.FullnessWeight,
		MaxMoves:       cfg.MaxMoves,
		TimeLimit:      cfg.SearchTimeout,
	}, nil
}
