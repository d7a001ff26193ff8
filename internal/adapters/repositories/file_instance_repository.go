package repositories

import (
	"context"
	"errors"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/platform/obs"
	"fleet-route-service/internal/ports"
	"fmt"
	"sync"
)

// File-backed implementation of the InstanceRepository port: a JSON
// instance plus a YAML fleet. The first successful load is kept, so a
// matrix built from coordinates is fetched only once.
type FileInstanceRepository struct {
	InstancePath string
	FleetPath    string
	Matrix       ports.DistanceMatrixProvider

	mu     sync.Mutex
	loaded *domain.Instance
}

func NewFileInstanceRepository(instancePath, fleetPath string, matrix ports.DistanceMatrixProvider) *FileInstanceRepository {
	return &FileInstanceRepository{InstancePath: instancePath, FleetPath: fleetPath, Matrix: matrix}
}

func (r *FileInstanceRepository) LoadInstance(ctx context.Context) (_ *domain.Instance, err error) {
	defer obs.Time(ctx, "instance.file.LoadInstance")(&err)

	if r.InstancePath == "" || r.FleetPath == "" {
		return nil, errors.New("load instance: instance and fleet paths must be non-empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded != nil {
		return r.loaded, nil
	}

	inst, err := ReadInstanceFile(r.InstancePath)
	if err != nil {
		return nil, fmt.Errorf("load instance: %w", err)
	}
	fleet, err := ReadFleetFile(r.FleetPath)
	if err != nil {
		return nil, fmt.Errorf("load instance: %w", err)
	}

	instance, err := assembleInstance(ctx, inst.Nodes, inst.Distances, inst.Durations, fleet, r.Matrix)
	if err != nil {
		return nil, fmt.Errorf("load instance: %w", err)
	}
	r.loaded = instance
	return instance, nil
}

func (r *FileInstanceRepository) ListNodes(ctx context.Context) ([]domain.Node, error) {
	inst, err := ReadInstanceFile(r.InstancePath)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}

	nodes := make([]domain.Node, 0, len(inst.Nodes))
	for _, n := range inst.Nodes {
		nodes = append(nodes, n.toDomain())
	}
	table, err := domain.NewNodeTable(nodes)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	return table.All(), nil
}
