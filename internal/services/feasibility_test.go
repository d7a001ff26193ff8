package services

import (
	"fleet-route-service/internal/adapters/distance"
	"fleet-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckInstance(t *testing.T) {
	fleet := newFleet(t, class("A", 1000, 1), class("B", 2000, 1))

	require.NoError(t, CheckInstance(newNodes(t, 1500, 1500), fleet))
	require.ErrorIs(t, CheckInstance(newNodes(t, 1500, 1500, 1), fleet), domain.ErrInfeasibleInstance)
	require.ErrorIs(t, CheckInstance(newNodes(t, 2500), fleet), domain.ErrInfeasibleInstance)
	require.NoError(t, CheckInstance(newNodes(t), fleet))
}

func TestCheckFleet(t *testing.T) {
	fleet := newFleet(t, class("A", 1000, 1), class("B", 2000, 1))

	require.NoError(t, CheckFleet(solutionOf([]int{1}, []int{2}), fleet))
	require.ErrorIs(t, CheckFleet(solutionOf([]int{1}, []int{2}, []int{3}), fleet), domain.ErrFleetExhausted)
}

func TestValidateSolution(t *testing.T) {
	nodes := newNodes(t, 400, 400, 400)
	fleet := newFleet(t, class("A", 1000, 1), class("B", 500, 1))

	classified := func(routes [][]int, classes ...string) *domain.Solution {
		sol := solutionOf(routes...)
		for i, c := range classes {
			sol.Routes[i].VehicleClass = c
		}
		return sol
	}

	tests := []struct {
		name string
		sol  *domain.Solution
		want error
	}{
		{name: "valid", sol: classified([][]int{{1, 2}, {3}}, "A", "B")},
		{name: "missing customer", sol: classified([][]int{{1, 2}}, "A"), want: domain.ErrInvalidInstance},
		{name: "visited twice", sol: classified([][]int{{1, 2}, {2, 3}}, "A", "B"), want: domain.ErrInvalidInstance},
		{name: "empty route", sol: classified([][]int{{1, 2}, {}}, "A", "B"), want: domain.ErrInvalidInstance},
		{name: "overloaded", sol: classified([][]int{{1}, {2, 3}}, "A", "B"), want: domain.ErrCapacityViolation},
		{name: "class overused", sol: classified([][]int{{1}, {2}, {3}}, "A", "B", "B"), want: domain.ErrFleetExhausted},
		{name: "unknown class", sol: classified([][]int{{1, 2}, {3}}, "A", "C"), want: domain.ErrUnknownVehicleClass},
		{name: "unclassified", sol: classified([][]int{{1, 2, 3}}), want: domain.ErrUnknownVehicleClass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSolution(tt.sol, nodes, fleet)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSolutionCost(t *testing.T) {
	dist := distance.NewLineMatrix([]float64{0, 1, 2})
	fleet := newFleet(t,
		domain.VehicleClass{ID: "truck", CapacityKg: 1000, CapacityM3: 10, FuelRate: 0.5, Available: 1},
		domain.VehicleClass{ID: "van", CapacityKg: 500, CapacityM3: 5, FuelRate: 0.25, Available: 1},
	)

	sol := solutionOf([]int{1, 2}, []int{2})
	sol.Routes[0].VehicleClass = "truck"
	sol.Routes[1].VehicleClass = "van"

	cost, err := SolutionCost(sol, fleet, dist, 2)
	require.NoError(t, err)
	// 4 × 0.5 × 2 + 4 × 0.25 × 2
	require.InDelta(t, 6.0, cost, 1e-9)
	require.Equal(t, 8.0, TotalDistance(sol, dist))

	sol.Routes[1].VehicleClass = "bike"
	_, err = SolutionCost(sol, fleet, dist, 2)
	require.ErrorIs(t, err, domain.ErrUnknownVehicleClass)
}
