package services

import (
	"errors"
	"fleet-route-service/internal/domain"
	"fmt"
	"slices"
)

// AssignClasses gives every route of sol a vehicle class.
//
// Routes are visited heaviest first so large loads claim large vehicles
// before lighter routes use them up. Each route takes the smallest class
// that fits both dimensions and still has a vehicle left. The assignment
// is greedy; it does not search for an alternative when a class runs out.
func AssignClasses(sol *domain.Solution, nodes *domain.NodeTable, fleet domain.FleetSpec) error {
	if sol == nil {
		return errors.New("assign classes: solution must be non-nil")
	}
	if len(fleet) == 0 {
		return fmt.Errorf("assign classes: fleet is empty: %w", domain.ErrInvalidInstance)
	}

	loads := make([]domain.Load, len(sol.Routes))
	order := make([]int, len(sol.Routes))
	for i, r := range sol.Routes {
		loads[i] = nodes.Demand(r.Customers())
		order[i] = i
	}

	// Heaviest first, measured against the largest class.
	largest := fleet.Largest().Capacity()
	slices.SortStableFunc(order, func(a, b int) int {
		fa, fb := fillRatio(loads[a], largest), fillRatio(loads[b], largest)
		switch {
		case fa > fb:
			return -1
		case fa < fb:
			return 1
		}
		return 0
	})

	left := make([]int, len(fleet))
	for i, c := range fleet {
		left[i] = c.Available
	}

	for _, ri := range order {
		fits := false
		assigned := false
		for ci := len(fleet) - 1; ci >= 0; ci-- {
			if !loads[ri].Fits(fleet[ci].Capacity()) {
				continue
			}
			fits = true
			if left[ci] == 0 {
				continue
			}
			left[ci]--
			sol.Routes[ri].VehicleClass = fleet[ci].ID
			assigned = true
			break
		}

		switch {
		case !fits:
			return fmt.Errorf(
				"assign classes: route %d load %.3f kg / %.3f m3 exceeds every class: %w",
				ri, loads[ri].Kg, loads[ri].M3, domain.ErrCapacityViolation,
			)
		case !assigned:
			return fmt.Errorf(
				"assign classes: no vehicle left for route %d (%.3f kg / %.3f m3): %w",
				ri, loads[ri].Kg, loads[ri].M3, domain.ErrFleetExhausted,
			)
		}
	}

	return nil
}
