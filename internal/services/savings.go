package services

import (
	"context"
	"fleet-route-service/internal/domain"
	"fmt"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Saving is the distance saved by serving From then To on one route
// instead of two separate depot round trips.
type Saving struct {
	From  int
	To    int
	Value float64
}

// ComputeSavings ranks every ordered pair of distinct customers.
//
// Pairs are enumerated with From ascending, then To ascending, and
// stable-sorted by descending value so equal savings keep that order.
func ComputeSavings(nodes *domain.NodeTable, dist domain.DistanceMatrix) []Saving {
	n := nodes.Len()
	if n < 3 {
		return []Saving{}
	}

	out := make([]Saving, 0, (n-1)*(n-2))
	for i := 1; i < n; i++ {
		out = appendSavingsRow(out, i, n, dist)
	}
	sortSavings(out)
	return out
}

// ComputeSavingsParallel produces the same ranking as ComputeSavings,
// computing rows concurrently. Each row owns a fixed slot range of the
// output so the result does not depend on scheduling.
func ComputeSavingsParallel(
	ctx context.Context,
	nodes *domain.NodeTable,
	dist domain.DistanceMatrix,
	workers int,
) ([]Saving, error) {
	n := nodes.Len()
	if n < 3 {
		return []Saving{}, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	rowLen := n - 2
	out := make([]Saving, (n-1)*rowLen)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 1; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := (i - 1) * rowLen
			appendSavingsRow(out[start:start:start+rowLen], i, n, dist)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compute savings: %w", err)
	}

	sortSavings(out)
	return out, nil
}

func appendSavingsRow(out []Saving, i, n int, dist domain.DistanceMatrix) []Saving {
	back := dist.Distance(i, domain.DepotID)
	for j := 1; j < n; j++ {
		if i == j {
			continue
		}
		out = append(out, Saving{
			From:  i,
			To:    j,
			Value: back + dist.Distance(domain.DepotID, j) - dist.Distance(i, j),
		})
	}
	return out
}

func sortSavings(s []Saving) {
	slices.SortStableFunc(s, func(a, b Saving) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		}
		return 0
	})
}
