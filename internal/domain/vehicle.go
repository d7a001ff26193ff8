package domain

import (
	"fmt"
	"slices"
	"strings"
)

// VehicleClass describes one type of vehicle in the fleet and how many
// of them can be dispatched.
type VehicleClass struct {
	ID         string
	CapacityKg float64
	CapacityM3 float64
	// Fuel consumed per unit of distance.
	FuelRate  float64
	Available int
}

// Capacity returns the class capacity as a Load.
func (v VehicleClass) Capacity() Load { return Load{Kg: v.CapacityKg, M3: v.CapacityM3} }

// FleetSpec is the ordered list of vehicle classes, largest first.
// Capacities are non-increasing in both dimensions together.
type FleetSpec []VehicleClass

// NewFleetSpec validates classes and orders them by descending capacity.
func NewFleetSpec(classes []VehicleClass) (FleetSpec, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("new fleet spec: at least one vehicle class is required: %w", ErrInvalidInstance)
	}

	seen := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return nil, fmt.Errorf("new fleet spec: vehicle class id must be non-empty: %w", ErrInvalidInstance)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("new fleet spec: duplicate vehicle class %q: %w", id, ErrInvalidInstance)
		}
		seen[id] = struct{}{}

		if c.CapacityKg <= 0 || c.CapacityM3 <= 0 {
			return nil, fmt.Errorf("new fleet spec: class %q capacity must be positive: %w", id, ErrInvalidInstance)
		}
		if c.Available < 1 {
			return nil, fmt.Errorf("new fleet spec: class %q availability must be at least 1: %w", id, ErrInvalidInstance)
		}
		if c.FuelRate < 0 {
			return nil, fmt.Errorf("new fleet spec: class %q fuel rate must be non-negative: %w", id, ErrInvalidInstance)
		}
	}

	fleet := FleetSpec(slices.Clone(classes))
	slices.SortStableFunc(fleet, func(a, b VehicleClass) int {
		switch {
		case a.CapacityKg > b.CapacityKg:
			return -1
		case a.CapacityKg < b.CapacityKg:
			return 1
		case a.CapacityM3 > b.CapacityM3:
			return -1
		case a.CapacityM3 < b.CapacityM3:
			return 1
		}
		return 0
	})

	// Tiering is only defined when both dimensions shrink together.
	for i := 1; i < len(fleet); i++ {
		if fleet[i].CapacityM3 > fleet[i-1].CapacityM3 {
			return nil, fmt.Errorf(
				"new fleet spec: class %q has more volume than larger class %q: %w",
				fleet[i].ID, fleet[i-1].ID, ErrInvalidInstance,
			)
		}
	}

	return fleet, nil
}

// Class returns the class with the given id.
func (f FleetSpec) Class(id string) (VehicleClass, bool) {
	for _, c := range f {
		if c.ID == id {
			return c, true
		}
	}
	return VehicleClass{}, false
}

// Largest returns the first (largest) class.
func (f FleetSpec) Largest() VehicleClass { return f[0] }

// Smallest returns the last (smallest) class.
func (f FleetSpec) Smallest() VehicleClass { return f[len(f)-1] }

// TotalAvailable returns the number of vehicles across all classes.
func (f FleetSpec) TotalAvailable() int {
	n := 0
	for _, c := range f {
		n += c.Available
	}
	return n
}

// TotalCapacity returns the summed capacity × availability of every class.
func (f FleetSpec) TotalCapacity() Load {
	var l Load
	for _, c := range f {
		l.Kg += c.CapacityKg * float64(c.Available)
		l.M3 += c.CapacityM3 * float64(c.Available)
	}
	return l
}

// SmallestFitting returns the index of the smallest class whose capacity
// accommodates load, or the largest class when none does.
func (f FleetSpec) SmallestFitting(load Load) int {
	for i := len(f) - 1; i >= 0; i-- {
		if load.Fits(f[i].Capacity()) {
			return i
		}
	}
	return 0
}
