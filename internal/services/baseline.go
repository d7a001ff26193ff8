package services

import (
	"context"
	"errors"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/ports"
	"fmt"
)

type BaselineStatus string

const (
	BaselineOptimal    BaselineStatus = "optimal"
	BaselineInfeasible BaselineStatus = "infeasible"
	BaselineError      BaselineStatus = "error"
)

// BaselineResult is the tagged outcome of an exact solver run.
// Cost is only meaningful when Status is BaselineOptimal.
type BaselineResult struct {
	Status BaselineStatus
	Cost   float64
	Err    error
}

// RunBaseline calls solver and folds every outcome, including a panic,
// into a BaselineResult.
func RunBaseline(ctx context.Context, solver ports.BaselineSolver, instance *domain.Instance) (res BaselineResult) {
	if solver == nil {
		return BaselineResult{Status: BaselineError, Err: errors.New("run baseline: solver must be non-nil")}
	}

	defer func() {
		if r := recover(); r != nil {
			res = BaselineResult{Status: BaselineError, Err: fmt.Errorf("run baseline: solver panicked: %v", r)}
		}
	}()

	cost, err := solver.SolveOptimal(ctx, instance)
	switch {
	case errors.Is(err, domain.ErrInfeasibleInstance):
		return BaselineResult{Status: BaselineInfeasible, Err: err}
	case err != nil:
		return BaselineResult{Status: BaselineError, Err: fmt.Errorf("run baseline: %w", err)}
	}
	return BaselineResult{Status: BaselineOptimal, Cost: cost}
}

// Gap returns how far heuristic cost lies above an optimal baseline, as a
// fraction of the baseline. ok is false unless the baseline is optimal
// and positive.
func (r BaselineResult) Gap(heuristic float64) (gap float64, ok bool) {
	if r.Status != BaselineOptimal || r.Cost <= 0 {
		return 0, false
	}
	return (heuristic - r.Cost) / r.Cost, true
}
