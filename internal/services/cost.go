package services

import (
	"fleet-route-service/internal/domain"
	"fmt"
)

// RouteDistance sums consecutive edges of stops.
func RouteDistance(stops []int, dist domain.DistanceMatrix) float64 {
	total := 0.0
	for i := 1; i < len(stops); i++ {
		total += dist.Distance(stops[i-1], stops[i])
	}
	return total
}

// RouteCost is the fuel cost of driving stops with class c.
func RouteCost(stops []int, c domain.VehicleClass, dist domain.DistanceMatrix, fuelPrice float64) float64 {
	return RouteDistance(stops, dist) * c.FuelRate * fuelPrice
}

// SolutionCost returns the total fuel cost of sol. Every route must carry
// a class id present in fleet.
func SolutionCost(sol *domain.Solution, fleet domain.FleetSpec, dist domain.DistanceMatrix, fuelPrice float64) (float64, error) {
	total := 0.0
	for i, r := range sol.Routes {
		c, ok := fleet.Class(r.VehicleClass)
		if !ok {
			return 0, fmt.Errorf("solution cost: route %d class %q: %w", i, r.VehicleClass, domain.ErrUnknownVehicleClass)
		}
		total += RouteCost(r.Stops, c, dist, fuelPrice)
	}
	return total, nil
}

// TotalDistance returns the summed distance of every route.
func TotalDistance(sol *domain.Solution, dist domain.DistanceMatrix) float64 {
	total := 0.0
	for _, r := range sol.Routes {
		total += RouteDistance(r.Stops, dist)
	}
	return total
}
