package ports

import (
	"context"
	"fleet-route-service/internal/domain"
)

// Contract for an exact solver used only as an optimal-cost baseline.
// Solvers report an infeasible model by wrapping domain.ErrInfeasibleInstance.
type BaselineSolver interface {
	SolveOptimal(ctx context.Context, instance *domain.Instance) (float64, error)
}
