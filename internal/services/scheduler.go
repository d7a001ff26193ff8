package services

import (
	"context"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/platform/metrics"
	"fmt"
	"time"
)

// Neighborhood is one named local search operator.
type Neighborhood struct {
	Name  string
	Apply func(sol *domain.Solution) bool
}

// Budget bounds a descent. Zero values mean unbounded.
type Budget struct {
	MaxMoves  int
	TimeLimit time.Duration
}

// SearchStats summarises one descent.
type SearchStats struct {
	Moves     map[string]int
	Scans     int
	Truncated bool
	Elapsed   time.Duration
}

// TotalMoves returns the number of accepted moves across neighbourhoods.
func (s SearchStats) TotalMoves() int {
	n := 0
	for _, m := range s.Moves {
		n += m
	}
	return n
}

// Neighborhoods returns the VND order: cheapest first.
func (ls *LocalSearch) Neighborhoods() []Neighborhood {
	return []Neighborhood{
		{Name: "two_opt", Apply: ls.TwoOpt},
		{Name: "relocate", Apply: ls.Relocate},
		{Name: "exchange", Apply: ls.Exchange},
	}
}

// Hillclimb applies 2-opt until no improving move is left.
func Hillclimb(ctx context.Context, ls *LocalSearch, sol *domain.Solution, budget Budget) (SearchStats, error) {
	return Descend(ctx, sol, ls.Neighborhoods()[:1], budget)
}

// VND runs variable neighbourhood descent over 2-opt, relocate and exchange.
func VND(ctx context.Context, ls *LocalSearch, sol *domain.Solution, budget Budget) (SearchStats, error) {
	return Descend(ctx, sol, ls.Neighborhoods(), budget)
}

// Descend scans neighbourhoods in order. An improvement restarts from the
// first one; a full pass without improvement ends the search.
//
// Hitting the budget is not an error and sets Truncated. Cancellation of
// ctx is returned as an error with sol left in its last valid state.
func Descend(ctx context.Context, sol *domain.Solution, hoods []Neighborhood, budget Budget) (SearchStats, error) {
	start := time.Now()
	stats := SearchStats{Moves: make(map[string]int, len(hoods))}

	for k := 0; k < len(hoods); {
		if err := ctx.Err(); err != nil {
			stats.Elapsed = time.Since(start)
			return stats, fmt.Errorf("local search: %w", err)
		}
		if budget.exhausted(stats.TotalMoves(), time.Since(start)) {
			stats.Truncated = true
			break
		}

		stats.Scans++
		if hoods[k].Apply(sol) {
			stats.Moves[hoods[k].Name]++
			metrics.LocalSearchMoves.WithLabelValues(hoods[k].Name).Inc()
			k = 0
			continue
		}
		k++
	}

	stats.Elapsed = time.Since(start)
	return stats, nil
}

func (b Budget) exhausted(moves int, elapsed time.Duration) bool {
	if b.MaxMoves > 0 && moves >= b.MaxMoves {
		return true
	}
	return b.TimeLimit > 0 && elapsed >= b.TimeLimit
}

// Improve dispatches to the selected improvement driver.
func Improve(
	ctx context.Context,
	improvement domain.Improvement,
	ls *LocalSearch,
	sol *domain.Solution,
	budget Budget,
) (SearchStats, error) {
	switch improvement {
	case domain.ImprovementNone:
		return SearchStats{Moves: map[string]int{}}, nil
	case domain.ImprovementHillclimb:
		return Hillclimb(ctx, ls, sol, budget)
	case domain.ImprovementVND, "":
		return VND(ctx, ls, sol, budget)
	}
	return SearchStats{}, fmt.Errorf("improve: unknown improvement %q", improvement)
}
