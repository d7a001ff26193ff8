package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFleetSpecSortsDescending(t *testing.T) {
	fleet, err := NewFleetSpec([]VehicleClass{
		{ID: "van", CapacityKg: 883, CapacityM3: 5.8, FuelRate: 0.08, Available: 12},
		{ID: "truck", CapacityKg: 2800, CapacityM3: 34.8, FuelRate: 0.175, Available: 8},
	})
	require.NoError(t, err)
	require.Equal(t, "truck", fleet.Largest().ID)
	require.Equal(t, "van", fleet.Smallest().ID)
	require.Equal(t, 20, fleet.TotalAvailable())

	total := fleet.TotalCapacity()
	require.InDelta(t, 2800*8+883*12, total.Kg, 1e-9)
	require.InDelta(t, 34.8*8+5.8*12, total.M3, 1e-9)
}

func TestNewFleetSpecRejectsNonLockstepCapacity(t *testing.T) {
	_, err := NewFleetSpec([]VehicleClass{
		{ID: "heavy", CapacityKg: 2000, CapacityM3: 5, Available: 1},
		{ID: "bulky", CapacityKg: 1000, CapacityM3: 30, Available: 1},
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidInstance))
}

func TestNewFleetSpecRejectsBadClasses(t *testing.T) {
	cases := map[string][]VehicleClass{
		"empty":       nil,
		"blank id":    {{ID: " ", CapacityKg: 1, CapacityM3: 1, Available: 1}},
		"duplicate":   {{ID: "a", CapacityKg: 1, CapacityM3: 1, Available: 1}, {ID: "a", CapacityKg: 1, CapacityM3: 1, Available: 1}},
		"no capacity": {{ID: "a", CapacityKg: 0, CapacityM3: 1, Available: 1}},
		"unavailable": {{ID: "a", CapacityKg: 1, CapacityM3: 1, Available: 0}},
	}

	for name, classes := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewFleetSpec(classes)
			require.ErrorIs(t, err, ErrInvalidInstance)
		})
	}
}

func TestFleetSpecSmallestFitting(t *testing.T) {
	fleet, err := NewFleetSpec([]VehicleClass{
		{ID: "l", CapacityKg: 3000, CapacityM3: 30, Available: 1},
		{ID: "m", CapacityKg: 2000, CapacityM3: 20, Available: 1},
		{ID: "s", CapacityKg: 1000, CapacityM3: 10, Available: 1},
	})
	require.NoError(t, err)

	require.Equal(t, 2, fleet.SmallestFitting(Load{Kg: 500, M3: 5}))
	require.Equal(t, 1, fleet.SmallestFitting(Load{Kg: 500, M3: 15}))
	require.Equal(t, 0, fleet.SmallestFitting(Load{Kg: 2500, M3: 1}))
	// Nothing fits: fall back to the largest class.
	require.Equal(t, 0, fleet.SmallestFitting(Load{Kg: 9000, M3: 1}))
}
