package ports

import (
	"context"
	"fleet-route-service/internal/domain"
)

// Travel distance and duration between two locations.
type DistanceResult struct {
	Distance        float64
	DurationSeconds float64
}

// Contract for building a full travel matrix from node coordinates.
// The returned matrix is indexed by position in coords.
type DistanceMatrixProvider interface {
	BuildMatrix(ctx context.Context, coords []domain.Coordinates) (domain.DistanceMatrix, error)
}

// Optional persistent cache for one-origin-to-many distance rows.
type DistanceCache interface {
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
	PutMany(ctx context.Context, origin string, results map[string]DistanceResult) error
}

// DistanceMatrix is re-exported so adapters can depend on ports alone.
type DistanceMatrix = domain.DistanceMatrix
