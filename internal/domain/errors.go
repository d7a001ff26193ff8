package domain

import "errors"

var (
	// ErrInvalidInstance marks malformed input data (ids, demands, fleet shape).
	ErrInvalidInstance = errors.New("invalid instance")

	// ErrInfeasibleInstance is returned when total demand cannot be carried by
	// the whole fleet, or a single customer exceeds the largest vehicle class.
	ErrInfeasibleInstance = errors.New("infeasible instance")

	// ErrFleetExhausted is returned when a solution needs more vehicles than
	// the fleet makes available.
	ErrFleetExhausted = errors.New("fleet exhausted")

	// ErrCapacityViolation is returned when a route's load exceeds the
	// capacity of the class assigned to it.
	ErrCapacityViolation = errors.New("capacity violation")

	// ErrUnknownVehicleClass is returned when a route references a class id
	// missing from the fleet.
	ErrUnknownVehicleClass = errors.New("unknown vehicle class")
)
