package services

import (
	"errors"
	"fleet-route-service/internal/domain"
	"fmt"
)

// Build the reporting plan of one classified route.
//
// Arrival offsets are measured from departure at the depot and include
// the service time of every earlier customer. Totals include the return
// leg to the depot.
func BuildRoutePlan(
	route domain.Route,
	nodes *domain.NodeTable,
	dist domain.DistanceMatrix,
	fleet domain.FleetSpec,
	fuelPrice float64,
) (*domain.RoutePlan, error) {
	if len(route.Stops) < 2 {
		return nil, errors.New("build route plan: route must start and end at the depot")
	}

	class, ok := fleet.Class(route.VehicleClass)
	if !ok {
		return nil, fmt.Errorf("build route plan: class %q: %w", route.VehicleClass, domain.ErrUnknownVehicleClass)
	}

	customers := route.Customers()
	stops := make([]domain.RouteStop, 0, len(customers))
	elapsed := 0.0
	travelled := 0.0

	prev := route.Stops[0]
	for _, id := range route.Stops[1:] {
		if !nodes.Has(id) {
			return nil, fmt.Errorf("build route plan: unknown node %d: %w", id, domain.ErrInvalidInstance)
		}
		elapsed += dist.Duration(prev, id)
		travelled += dist.Distance(prev, id)

		if id != domain.DepotID {
			stops = append(stops, domain.RouteStop{
				NodeID:             id,
				ArriveAfterSeconds: elapsed,
				Distance:           travelled,
			})
			elapsed += nodes.Node(id).ServiceSeconds
		}
		prev = id
	}

	return &domain.RoutePlan{
		VehicleClass:         class.ID,
		Stops:                stops,
		Load:                 nodes.Demand(customers),
		TotalDistance:        travelled,
		TotalDurationSeconds: elapsed,
		FuelCost:             travelled * class.FuelRate * fuelPrice,
	}, nil
}

// Build plans for every route of a classified solution, in route order.
func BuildRoutePlans(
	sol *domain.Solution,
	nodes *domain.NodeTable,
	dist domain.DistanceMatrix,
	fleet domain.FleetSpec,
	fuelPrice float64,
) ([]domain.RoutePlan, error) {
	plans := make([]domain.RoutePlan, 0, len(sol.Routes))
	for i, r := range sol.Routes {
		p, err := BuildRoutePlan(r, nodes, dist, fleet, fuelPrice)
		if err != nil {
			return nil, fmt.Errorf("build route plans: route %d: %w", i, err)
		}
		plans = append(plans, *p)
	}
	return plans, nil
}
