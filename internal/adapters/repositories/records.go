package repositories

import (
	"context"
	"encoding/json"
	"fleet-route-service/internal/adapters/distance"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/ports"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NodeRecord is one node as stored in instance files and the nodes table.
type NodeRecord struct {
	ID             int     `json:"id"`
	Lon            float64 `json:"lon"`
	Lat            float64 `json:"lat"`
	DemandKg       float64 `json:"demand_kg"`
	DemandM3       float64 `json:"demand_m3"`
	ServiceSeconds float64 `json:"service_seconds"`
}

func (r NodeRecord) toDomain() domain.Node {
	return domain.Node{
		ID:             r.ID,
		Coordinates:    domain.Coordinates{Lon: r.Lon, Lat: r.Lat},
		DemandKg:       r.DemandKg,
		DemandM3:       r.DemandM3,
		ServiceSeconds: r.ServiceSeconds,
	}
}

// InstanceFile is the JSON instance format. Distances and durations are
// optional square matrices indexed by node id.
type InstanceFile struct {
	Nodes     []NodeRecord `json:"nodes"`
	Distances [][]float64  `json:"distances,omitempty"`
	Durations [][]float64  `json:"durations,omitempty"`
}

// ClassRecord is one vehicle class of the YAML fleet file.
type ClassRecord struct {
	ID         string  `yaml:"id"`
	CapacityKg float64 `yaml:"capacity_kg"`
	CapacityM3 float64 `yaml:"capacity_m3"`
	FuelRate   float64 `yaml:"fuel_rate"`
	Available  int     `yaml:"available"`
}

// FleetFile is the YAML fleet format.
type FleetFile struct {
	FuelPrice float64       `yaml:"fuel_price"`
	Classes   []ClassRecord `yaml:"classes"`
}

func (f FleetFile) toDomain() (domain.FleetSpec, error) {
	classes := make([]domain.VehicleClass, 0, len(f.Classes))
	for _, c := range f.Classes {
		classes = append(classes, domain.VehicleClass{
			ID:         c.ID,
			CapacityKg: c.CapacityKg,
			CapacityM3: c.CapacityM3,
			FuelRate:   c.FuelRate,
			Available:  c.Available,
		})
	}
	return domain.NewFleetSpec(classes)
}

func ReadInstanceFile(path string) (InstanceFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return InstanceFile{}, fmt.Errorf("read instance file: %w", err)
	}

	var f InstanceFile
	if err := json.Unmarshal(b, &f); err != nil {
		return InstanceFile{}, fmt.Errorf("read instance file %q: parse json: %w", path, err)
	}
	if len(f.Nodes) == 0 {
		return InstanceFile{}, fmt.Errorf("read instance file %q: no nodes: %w", path, domain.ErrInvalidInstance)
	}
	return f, nil
}

func ReadFleetFile(path string) (FleetFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return FleetFile{}, fmt.Errorf("read fleet file: %w", err)
	}

	var f FleetFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return FleetFile{}, fmt.Errorf("read fleet file %q: parse yaml: %w", path, err)
	}
	if f.FuelPrice < 0 {
		return FleetFile{}, fmt.Errorf("read fleet file %q: fuel price must be non-negative: %w", path, domain.ErrInvalidInstance)
	}
	return f, nil
}

// assembleInstance validates the parts and, when no matrix is given,
// asks provider to build one from node coordinates.
func assembleInstance(
	ctx context.Context,
	records []NodeRecord,
	distances, durations [][]float64,
	fleetFile FleetFile,
	provider ports.DistanceMatrixProvider,
) (*domain.Instance, error) {
	nodes := make([]domain.Node, 0, len(records))
	for _, r := range records {
		nodes = append(nodes, r.toDomain())
	}
	table, err := domain.NewNodeTable(nodes)
	if err != nil {
		return nil, err
	}

	fleet, err := fleetFile.toDomain()
	if err != nil {
		return nil, err
	}

	var matrix domain.DistanceMatrix
	if distances != nil {
		dm, err := distance.NewDenseMatrix(distances, durations)
		if err != nil {
			return nil, err
		}
		if dm.Size() != table.Len() {
			return nil, fmt.Errorf("distance matrix covers %d nodes, instance has %d: %w", dm.Size(), table.Len(), domain.ErrInvalidInstance)
		}
		matrix = dm
	} else {
		if provider == nil {
			return nil, fmt.Errorf("no distances and no matrix provider: %w", domain.ErrInvalidInstance)
		}
		all := table.All()
		coords := make([]domain.Coordinates, len(all))
		for i, n := range all {
			coords[i] = n.Coordinates
		}
		if matrix, err = provider.BuildMatrix(ctx, coords); err != nil {
			return nil, fmt.Errorf("build matrix: %w", err)
		}
	}

	instance := &domain.Instance{
		Nodes:     table,
		Distances: matrix,
		Fleet:     fleet,
		FuelPrice: fleetFile.FuelPrice,
	}
	if err := instance.Validate(); err != nil {
		return nil, err
	}
	return instance, nil
}
