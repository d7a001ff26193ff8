package services

import (
	"fleet-route-service/internal/domain"
	"slices"
)

// LocalSearch holds the read-only inputs shared by the neighbourhood
// operators. Every operator scans candidates in a fixed order, applies the
// first move that lowers distance by more than domain.Epsilon and reports
// whether it changed sol.
type LocalSearch struct {
	Nodes *domain.NodeTable
	Dist  domain.DistanceMatrix
	Fleet domain.FleetSpec
}

// TwoOpt reverses a stretch of customers inside one route.
func (ls *LocalSearch) TwoOpt(sol *domain.Solution) bool {
	for ri := range sol.Routes {
		r := sol.Routes[ri].Stops
		last := len(r) - 2
		for i := 1; i < last; i++ {
			// Edge sums of r[i..j] walked forwards and backwards.
			var fwd, bwd float64
			for j := i + 1; j <= last; j++ {
				fwd += ls.Dist.Distance(r[j-1], r[j])
				bwd += ls.Dist.Distance(r[j], r[j-1])
				// Reversing every customer is not a 2-opt move.
				if i == 1 && j == last {
					continue
				}

				a, b := r[i-1], r[j+1]
				delta := ls.Dist.Distance(a, r[j]) + ls.Dist.Distance(r[i], b) + bwd -
					ls.Dist.Distance(a, r[i]) - ls.Dist.Distance(r[j], b) - fwd
				if delta < -domain.Epsilon {
					slices.Reverse(r[i : j+1])
					return true
				}
			}
		}
	}
	return false
}

// Relocate moves one customer into another route. A route left without
// customers is dropped from the solution.
func (ls *LocalSearch) Relocate(sol *domain.Solution) bool {
	loads := ls.loads(sol)

	for r1 := range sol.Routes {
		src := sol.Routes[r1].Stops
		for i := 1; i < len(src)-1; i++ {
			x := src[i]
			p, n := src[i-1], src[i+1]
			removal := ls.Dist.Distance(p, n) - ls.Dist.Distance(p, x) - ls.Dist.Distance(x, n)
			demand := ls.Nodes.Node(x).Demand()

			for r2 := range sol.Routes {
				if r1 == r2 {
					continue
				}
				if !loads[r2].Add(demand).Fits(ls.capacity(sol.Routes[r2], loads[r2])) {
					continue
				}

				dst := sol.Routes[r2].Stops
				for j := 1; j < len(dst); j++ {
					u, v := dst[j-1], dst[j]
					insertion := ls.Dist.Distance(u, x) + ls.Dist.Distance(x, v) - ls.Dist.Distance(u, v)
					if removal+insertion < -domain.Epsilon {
						sol.Routes[r2].Stops = slices.Insert(dst, j, x)
						sol.Routes[r1].Stops = slices.Delete(src, i, i+1)
						if sol.Routes[r1].Empty() {
							sol.Routes = slices.Delete(sol.Routes, r1, r1+1)
						}
						return true
					}
				}
			}
		}
	}
	return false
}

// Exchange swaps one customer of a route with one customer of a later
// route, so each unordered pair of routes is tried once.
func (ls *LocalSearch) Exchange(sol *domain.Solution) bool {
	loads := ls.loads(sol)
	caps := make([]domain.Load, len(sol.Routes))
	for i, r := range sol.Routes {
		caps[i] = ls.capacity(r, loads[i])
	}

	for r1 := 0; r1 < len(sol.Routes); r1++ {
		a := sol.Routes[r1].Stops
		for i := 1; i < len(a)-1; i++ {
			x := a[i]
			dx := ls.Nodes.Node(x).Demand()

			for r2 := r1 + 1; r2 < len(sol.Routes); r2++ {
				b := sol.Routes[r2].Stops
				for j := 1; j < len(b)-1; j++ {
					y := b[j]
					dy := ls.Nodes.Node(y).Demand()

					if !loads[r1].Sub(dx).Add(dy).Fits(caps[r1]) || !loads[r2].Sub(dy).Add(dx).Fits(caps[r2]) {
						continue
					}

					delta := ls.Dist.Distance(a[i-1], y) + ls.Dist.Distance(y, a[i+1]) -
						ls.Dist.Distance(a[i-1], x) - ls.Dist.Distance(x, a[i+1]) +
						ls.Dist.Distance(b[j-1], x) + ls.Dist.Distance(x, b[j+1]) -
						ls.Dist.Distance(b[j-1], y) - ls.Dist.Distance(y, b[j+1])
					if delta < -domain.Epsilon {
						a[i], b[j] = y, x
						return true
					}
				}
			}
		}
	}
	return false
}

func (ls *LocalSearch) loads(sol *domain.Solution) []domain.Load {
	out := make([]domain.Load, len(sol.Routes))
	for i, r := range sol.Routes {
		out[i] = ls.Nodes.Demand(r.Customers())
	}
	return out
}

// capacity is the assigned class capacity, or for an unclassified route
// the smallest class that already accommodates its load.
func (ls *LocalSearch) capacity(r domain.Route, load domain.Load) domain.Load {
	if r.VehicleClass != "" {
		if c, ok := ls.Fleet.Class(r.VehicleClass); ok {
			return c.Capacity()
		}
	}
	return ls.Fleet[ls.Fleet.SmallestFitting(load)].Capacity()
}
