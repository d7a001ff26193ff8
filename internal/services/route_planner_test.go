package services

import (
	"errors"
	"fleet-route-service/internal/adapters/distance"
	"fleet-route-service/internal/domain"
	"math"
	"testing"
)

func TestBuildRoutePlan(t *testing.T) {
	nodes, err := domain.NewNodeTable([]domain.Node{
		{ID: 0},
		{ID: 1, DemandKg: 10, DemandM3: 0.1, ServiceSeconds: 60},
		{ID: 2, DemandKg: 20, DemandM3: 0.2, ServiceSeconds: 60},
		{ID: 3, DemandKg: 30, DemandM3: 0.3, ServiceSeconds: 60},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dist := distance.NewMockMatrix(4, []distance.MockPair{
		{From: 0, To: 1, Distance: 1000, Seconds: 300},
		{From: 0, To: 2, Distance: 2000, Seconds: 600},
		{From: 0, To: 3, Distance: 1500, Seconds: 450},
		{From: 1, To: 2, Distance: 800, Seconds: 240},
		{From: 1, To: 3, Distance: 700, Seconds: 210},
		{From: 2, To: 3, Distance: 900, Seconds: 270},
	}, true)

	fleet, err := domain.NewFleetSpec([]domain.VehicleClass{
		{ID: "van", CapacityKg: 500, CapacityM3: 5, FuelRate: 0.0003, Available: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	route := domain.NewRoute([]int{1, 3, 2})
	route.VehicleClass = "van"

	plan, err := BuildRoutePlan(route, nodes, dist, fleet, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.Stops) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(plan.Stops))
	}
	want := []domain.RouteStop{
		{NodeID: 1, ArriveAfterSeconds: 300, Distance: 1000},
		{NodeID: 3, ArriveAfterSeconds: 570, Distance: 1700},
		{NodeID: 2, ArriveAfterSeconds: 900, Distance: 2600},
	}
	for i, w := range want {
		if plan.Stops[i] != w {
			t.Fatalf("stop %d = %+v, want %+v", i, plan.Stops[i], w)
		}
	}

	if plan.TotalDurationSeconds != 1560 {
		t.Fatalf("duration = %v, want 1560", plan.TotalDurationSeconds)
	}
	if plan.TotalDistance != 4600 {
		t.Fatalf("distance = %v, want 4600", plan.TotalDistance)
	}
	if plan.Load.Kg != 60 {
		t.Fatalf("load = %v kg, want 60", plan.Load.Kg)
	}
	if math.Abs(plan.FuelCost-2.76) > 1e-9 {
		t.Fatalf("fuel cost = %v, want 2.76", plan.FuelCost)
	}
	if plan.VehicleClass != "van" {
		t.Fatalf("class = %q, want van", plan.VehicleClass)
	}
}

func TestBuildRoutePlanUnknownClass(t *testing.T) {
	nodes, _ := domain.NewNodeTable([]domain.Node{{ID: 0}, {ID: 1, DemandKg: 1, DemandM3: 1}})
	fleet, _ := domain.NewFleetSpec([]domain.VehicleClass{{ID: "van", CapacityKg: 10, CapacityM3: 10, Available: 1}})

	_, err := BuildRoutePlan(domain.NewRoute([]int{1}), nodes, distance.NewLineMatrix([]float64{0, 1}), fleet, 1)
	if !errors.Is(err, domain.ErrUnknownVehicleClass) {
		t.Fatalf("err = %v, want ErrUnknownVehicleClass", err)
	}
}
