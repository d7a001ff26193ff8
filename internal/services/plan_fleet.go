package services

import (
	"context"
	"errors"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/platform/metrics"
	"fleet-route-service/internal/platform/obs"
	"fleet-route-service/internal/ports"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type PlanRequest struct {
	Strategy    domain.Strategy
	Improvement domain.Improvement
	// Overrides the instance fuel price when positive.
	FuelPrice       float64
	FullnessWeight  float64
	MaxMoves        int
	TimeLimit       time.Duration
	ParallelSavings bool
	Workers         int
}

type PlanResult struct {
	ID            string
	Strategy      domain.Strategy
	Improvement   domain.Improvement
	InitialCost   float64
	Cost          float64
	TotalDistance float64
	Solution      *domain.Solution
	Routes        []domain.RoutePlan
	Search        SearchStats
}

// PlanFleet loads an instance from repo and solves it.
func PlanFleet(ctx context.Context, req PlanRequest, repo ports.InstanceRepository) (_ *PlanResult, err error) {
	defer obs.Time(ctx, "plan.PlanFleet")(&err)

	instance, err := repo.LoadInstance(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan fleet: load instance: %w", err)
	}

	res, err := Solve(ctx, req, instance)
	if err != nil {
		return nil, fmt.Errorf("plan fleet: %w", err)
	}
	return res, nil
}

// Solve runs construction, classification and local search on instance.
//
// The result is validated before it is returned: every customer is served
// once and no route exceeds its class or the class availability.
func Solve(ctx context.Context, req PlanRequest, instance *domain.Instance) (_ *PlanResult, err error) {
	strategy := req.Strategy
	if strategy == "" {
		strategy = domain.StrategyTierTracked
	}
	improvement := req.Improvement
	if improvement == "" {
		improvement = domain.ImprovementVND
	}

	defer func() {
		metrics.PlanRuns.WithLabelValues(string(strategy), outcome(err)).Inc()
	}()

	if err := instance.Validate(); err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	fuelPrice := instance.FuelPrice
	if req.FuelPrice > 0 {
		fuelPrice = req.FuelPrice
	}

	if err := CheckInstance(instance.Nodes, instance.Fleet); err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	savings, err := rankSavings(ctx, req, instance)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	sol, err := construct(ctx, strategy, req.FullnessWeight, instance, savings)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	if err := CheckFleet(sol, instance.Fleet); err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	if err := AssignClasses(sol, instance.Nodes, instance.Fleet); err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	initialCost, err := SolutionCost(sol, instance.Fleet, instance.Distances, fuelPrice)
	if err != nil {
		return nil, fmt.Errorf("solve: initial cost: %w", err)
	}

	stats, err := improve(ctx, improvement, req, instance, sol)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	reclassify(sol, instance, fuelPrice)

	if err := ValidateSolution(sol, instance.Nodes, instance.Fleet); err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	cost, err := SolutionCost(sol, instance.Fleet, instance.Distances, fuelPrice)
	if err != nil {
		return nil, fmt.Errorf("solve: final cost: %w", err)
	}
	metrics.PlanCost.WithLabelValues(string(strategy)).Observe(cost)

	plans, err := BuildRoutePlans(sol, instance.Nodes, instance.Distances, instance.Fleet, fuelPrice)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	return &PlanResult{
		ID:            uuid.NewString(),
		Strategy:      strategy,
		Improvement:   improvement,
		InitialCost:   initialCost,
		Cost:          cost,
		TotalDistance: TotalDistance(sol, instance.Distances),
		Solution:      sol,
		Routes:        plans,
		Search:        stats,
	}, nil
}

func rankSavings(ctx context.Context, req PlanRequest, instance *domain.Instance) (_ []Saving, err error) {
	defer obs.Time(ctx, "plan.savings")(&err)

	if req.ParallelSavings {
		return ComputeSavingsParallel(ctx, instance.Nodes, instance.Distances, req.Workers)
	}
	return ComputeSavings(instance.Nodes, instance.Distances), nil
}

func construct(
	ctx context.Context,
	strategy domain.Strategy,
	fullnessWeight float64,
	instance *domain.Instance,
	savings []Saving,
) (_ *domain.Solution, err error) {
	defer obs.Time(ctx, "plan.construct."+string(strategy))(&err)

	b := &RouteBuilder{
		Fleet:          instance.Fleet,
		Nodes:          instance.Nodes,
		Dist:           instance.Distances,
		FullnessWeight: fullnessWeight,
	}
	return b.Build(strategy, savings)
}

func improve(
	ctx context.Context,
	improvement domain.Improvement,
	req PlanRequest,
	instance *domain.Instance,
	sol *domain.Solution,
) (_ SearchStats, err error) {
	defer obs.Time(ctx, "plan.improve."+string(improvement))(&err)

	ls := &LocalSearch{Nodes: instance.Nodes, Dist: instance.Distances, Fleet: instance.Fleet}
	return Improve(ctx, improvement, ls, sol, Budget{MaxMoves: req.MaxMoves, TimeLimit: req.TimeLimit})
}

// reclassify re-runs class assignment after local search, which may have
// emptied or lightened routes, and keeps it only when it is cheaper.
func reclassify(sol *domain.Solution, instance *domain.Instance, fuelPrice float64) {
	current, err := SolutionCost(sol, instance.Fleet, instance.Distances, fuelPrice)
	if err != nil {
		return
	}

	candidate := sol.Clone()
	if err := AssignClasses(candidate, instance.Nodes, instance.Fleet); err != nil {
		return
	}
	cost, err := SolutionCost(candidate, instance.Fleet, instance.Distances, fuelPrice)
	if err != nil || cost >= current-domain.Epsilon {
		return
	}
	*sol = *candidate
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInfeasibleInstance):
		return "infeasible"
	case errors.Is(err, domain.ErrFleetExhausted):
		return "fleet_exhausted"
	case errors.Is(err, domain.ErrCapacityViolation):
		return "capacity_violation"
	case errors.Is(err, domain.ErrInvalidInstance):
		return "invalid"
	}
	return "error"
}
