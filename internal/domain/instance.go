package domain

import "fmt"

// DistanceMatrix is the read-only travel lookup between node ids.
// It may be asymmetric.
type DistanceMatrix interface {
	Distance(from, to int) float64
	Duration(from, to int) float64
}

// Instance bundles the read-only inputs of one planning run.
type Instance struct {
	Nodes     *NodeTable
	Distances DistanceMatrix
	Fleet     FleetSpec
	FuelPrice float64
}

// Validate checks that the parts of an instance are present and consistent.
func (in *Instance) Validate() error {
	if in == nil || in.Nodes == nil {
		return fmt.Errorf("validate instance: nodes are missing: %w", ErrInvalidInstance)
	}
	if in.Distances == nil {
		return fmt.Errorf("validate instance: distance matrix is missing: %w", ErrInvalidInstance)
	}
	if len(in.Fleet) == 0 {
		return fmt.Errorf("validate instance: fleet is empty: %w", ErrInvalidInstance)
	}
	if in.FuelPrice < 0 {
		return fmt.Errorf("validate instance: fuel price must be non-negative: %w", ErrInvalidInstance)
	}
	return nil
}
