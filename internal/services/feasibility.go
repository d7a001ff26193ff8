package services

import (
	"fleet-route-service/internal/domain"
	"fmt"
)

// CheckInstance rejects instances no assignment could serve: total demand
// above the capacity of the whole fleet, or a customer larger than the
// largest class.
func CheckInstance(nodes *domain.NodeTable, fleet domain.FleetSpec) error {
	total := nodes.TotalDemand()
	capacity := fleet.TotalCapacity()
	if !total.Fits(capacity) {
		return fmt.Errorf(
			"check instance: demand %.3f kg / %.3f m3 exceeds fleet capacity %.3f kg / %.3f m3: %w",
			total.Kg, total.M3, capacity.Kg, capacity.M3, domain.ErrInfeasibleInstance,
		)
	}

	largest := fleet.Largest()
	for _, id := range nodes.CustomerIDs() {
		if !nodes.Node(id).Demand().Fits(largest.Capacity()) {
			return fmt.Errorf(
				"check instance: customer %d does not fit class %q: %w",
				id, largest.ID, domain.ErrInfeasibleInstance,
			)
		}
	}
	return nil
}

// CheckFleet rejects a solution that needs more vehicles than exist.
func CheckFleet(sol *domain.Solution, fleet domain.FleetSpec) error {
	if n, avail := len(sol.Routes), fleet.TotalAvailable(); n > avail {
		return fmt.Errorf("check fleet: %d routes for %d vehicles: %w", n, avail, domain.ErrFleetExhausted)
	}
	return nil
}

// ValidateSolution checks every structural and capacity rule of a
// classified solution.
func ValidateSolution(sol *domain.Solution, nodes *domain.NodeTable, fleet domain.FleetSpec) error {
	seen := make([]bool, nodes.Len())
	used := make(map[string]int, len(fleet))

	for ri, r := range sol.Routes {
		if len(r.Stops) < 3 || r.Stops[0] != domain.DepotID || r.Stops[len(r.Stops)-1] != domain.DepotID {
			return fmt.Errorf("validate solution: route %d must start and end at the depot and visit a customer: %w", ri, domain.ErrInvalidInstance)
		}
		for _, id := range r.Customers() {
			if id == domain.DepotID || !nodes.Has(id) {
				return fmt.Errorf("validate solution: route %d has invalid stop %d: %w", ri, id, domain.ErrInvalidInstance)
			}
			if seen[id] {
				return fmt.Errorf("validate solution: customer %d visited twice: %w", id, domain.ErrInvalidInstance)
			}
			seen[id] = true
		}

		c, ok := fleet.Class(r.VehicleClass)
		if !ok {
			return fmt.Errorf("validate solution: route %d class %q: %w", ri, r.VehicleClass, domain.ErrUnknownVehicleClass)
		}
		if load := nodes.Demand(r.Customers()); !load.Fits(c.Capacity()) {
			return fmt.Errorf(
				"validate solution: route %d load %.3f kg / %.3f m3 exceeds class %q: %w",
				ri, load.Kg, load.M3, c.ID, domain.ErrCapacityViolation,
			)
		}
		used[c.ID]++
		if used[c.ID] > c.Available {
			return fmt.Errorf("validate solution: class %q used more than %d times: %w", c.ID, c.Available, domain.ErrFleetExhausted)
		}
	}

	for _, id := range nodes.CustomerIDs() {
		if !seen[id] {
			return fmt.Errorf("validate solution: customer %d is not served: %w", id, domain.ErrInvalidInstance)
		}
	}
	return nil
}
