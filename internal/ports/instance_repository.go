package ports

import (
	"context"
	"fleet-route-service/internal/domain"
)

// Port: a boundary for retrieving a planning instance from a data source.
type InstanceRepository interface {
	// Load nodes, distances and fleet for one planning run.
	LoadInstance(ctx context.Context) (*domain.Instance, error)
	// Return the nodes only, depot first, without building distances.
	ListNodes(ctx context.Context) ([]domain.Node, error)
}
