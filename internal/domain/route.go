package domain

import "slices"

// Route is one vehicle tour. Stops begin and end at the depot and visit
// each customer at most once. VehicleClass stays empty until the route
// has been assigned to a class.
type Route struct {
	Stops        []int
	VehicleClass string
}

// NewRoute wraps customers with the depot on both ends.
func NewRoute(customers []int) Route {
	stops := make([]int, 0, len(customers)+2)
	stops = append(stops, DepotID)
	stops = append(stops, customers...)
	stops = append(stops, DepotID)
	return Route{Stops: stops}
}

// Customers returns the stops between the two depot visits.
func (r Route) Customers() []int {
	if len(r.Stops) < 2 {
		return nil
	}
	return r.Stops[1 : len(r.Stops)-1]
}

// Empty reports whether the route visits no customer.
func (r Route) Empty() bool { return len(r.Stops) <= 2 }

// Solution is a set of routes covering every customer exactly once.
type Solution struct {
	Routes []Route
}

// Clone returns a deep copy so callers can keep a snapshot across
// in-place local search.
func (s *Solution) Clone() *Solution {
	out := &Solution{Routes: make([]Route, len(s.Routes))}
	for i, r := range s.Routes {
		out.Routes[i] = Route{Stops: slices.Clone(r.Stops), VehicleClass: r.VehicleClass}
	}
	return out
}

// Classified reports whether every route carries a vehicle class.
func (s *Solution) Classified() bool {
	for _, r := range s.Routes {
		if r.VehicleClass == "" {
			return false
		}
	}
	return len(s.Routes) > 0
}

// Represents a single stop in a planned route.
// ArriveAfterSeconds is measured from departure at the depot.
type RouteStop struct {
	NodeID             int     `json:"node_id"`
	ArriveAfterSeconds float64 `json:"arrive_after_seconds"`
	Distance           float64 `json:"distance"`
}

// Represents the planned route of one vehicle.
// A RoutePlan is reporting data derived from a Route; it holds
// aggregate distance, duration, load and fuel cost.
type RoutePlan struct {
	VehicleClass         string      `json:"vehicle_class"`
	Stops                []RouteStop `json:"stops"`
	Load                 Load        `json:"load"`
	TotalDistance        float64     `json:"total_distance"`
	TotalDurationSeconds float64     `json:"total_duration_seconds"`
	FuelCost             float64     `json:"fuel_cost"`
}
