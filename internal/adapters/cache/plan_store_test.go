package cache

import (
	"context"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/ports"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func samplePlan() ports.StoredPlan {
	return ports.StoredPlan{
		ID:          "plan-1",
		Strategy:    "giant-tour",
		Improvement: "vnd",
		Cost:        42.5,
		InitialCost: 50,
		Routes: []domain.RoutePlan{{
			VehicleClass:  "van",
			Stops:         []domain.RouteStop{{NodeID: 2, ArriveAfterSeconds: 60, Distance: 1.5}},
			Load:          domain.Load{Kg: 100, M3: 1},
			TotalDistance: 3,
			FuelCost:      42.5,
		}},
	}
}

func TestRedisPlanStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	store, err := NewRedisPlanStore(ctx, "redis://"+mr.Addr(), time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.SavePlan(ctx, samplePlan()))
	require.True(t, mr.Exists("plan:plan-1"))

	got, err := store.GetPlan(ctx, "plan-1")
	require.NoError(t, err)
	require.Equal(t, samplePlan(), got)

	mr.FastForward(2 * time.Hour)
	_, err = store.GetPlan(ctx, "plan-1")
	require.ErrorIs(t, err, ports.ErrPlanNotFound)
}

func TestNewRedisPlanStoreBadURL(t *testing.T) {
	_, err := NewRedisPlanStore(context.Background(), "not-a-url", time.Minute)
	require.Error(t, err)
}

func TestMemoryPlanStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryPlanStore()

	_, err := store.GetPlan(ctx, "plan-1")
	require.ErrorIs(t, err, ports.ErrPlanNotFound)

	require.NoError(t, store.SavePlan(ctx, samplePlan()))
	got, err := store.GetPlan(ctx, "plan-1")
	require.NoError(t, err)
	require.Equal(t, samplePlan(), got)

	require.Error(t, store.SavePlan(ctx, ports.StoredPlan{}))
}
