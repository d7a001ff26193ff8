package services

import (
	"fleet-route-service/internal/domain"
	"fmt"
	"slices"
)

// chain is a partial route without depot endpoints.
type chain struct {
	stops []int
	load  domain.Load
	full  bool
	dead  bool
}

// chainArena owns every chain of one savings pass and indexes them by
// their first and last customer.
type chainArena struct {
	chains   []*chain
	endsAt   map[int]*chain
	startsAt map[int]*chain
}

func newChainArena(nodes *domain.NodeTable, customers []int) *chainArena {
	a := &chainArena{
		chains:   make([]*chain, 0, len(customers)),
		endsAt:   make(map[int]*chain, len(customers)),
		startsAt: make(map[int]*chain, len(customers)),
	}
	for _, id := range customers {
		c := &chain{stops: []int{id}, load: nodes.Node(id).Demand()}
		a.chains = append(a.chains, c)
		a.endsAt[id] = c
		a.startsAt[id] = c
	}
	return a
}

// candidates returns the chain ending at s.From and the chain starting at
// s.To, or false when no distinct pair exists.
func (a *chainArena) candidates(s Saving) (*chain, *chain, bool) {
	ri, ok := a.endsAt[s.From]
	if !ok {
		return nil, nil, false
	}
	rj, ok := a.startsAt[s.To]
	if !ok || ri == rj {
		return nil, nil, false
	}
	return ri, rj, true
}

// merge appends rj to ri and retires rj.
func (a *chainArena) merge(ri, rj *chain) {
	delete(a.endsAt, ri.stops[len(ri.stops)-1])
	delete(a.startsAt, rj.stops[0])

	ri.stops = append(ri.stops, rj.stops...)
	ri.load = ri.load.Add(rj.load)
	a.endsAt[ri.stops[len(ri.stops)-1]] = ri

	rj.stops = nil
	rj.dead = true
}

// live returns surviving chains in arena order.
func (a *chainArena) live() []*chain {
	out := make([]*chain, 0, len(a.endsAt))
	for _, c := range a.chains {
		if !c.dead {
			out = append(out, c)
		}
	}
	return out
}

// RouteBuilder constructs an initial solution with one of the savings
// based strategies. Routes come back without a vehicle class.
type RouteBuilder struct {
	Fleet          domain.FleetSpec
	Nodes          *domain.NodeTable
	Dist           domain.DistanceMatrix
	FullnessWeight float64
}

// Build runs the given strategy. savings may be nil, in which case they
// are computed sequentially.
func (b *RouteBuilder) Build(strategy domain.Strategy, savings []Saving) (*domain.Solution, error) {
	if b.Nodes == nil || b.Dist == nil || len(b.Fleet) == 0 {
		return nil, fmt.Errorf("build routes: nodes, distances and fleet are required: %w", domain.ErrInvalidInstance)
	}
	if b.Nodes.Customers() == 0 {
		return &domain.Solution{Routes: []domain.Route{}}, nil
	}
	if savings == nil && strategy != domain.StrategySequential {
		savings = ComputeSavings(b.Nodes, b.Dist)
	}

	var routes [][]int
	switch strategy {
	case domain.StrategyTierTracked, "":
		routes = b.tierTracked(savings)
	case domain.StrategyLargestTierFirst:
		routes = b.largestTierFirst(savings)
	case domain.StrategyGiantTour:
		routes = b.sliceTour(b.giantTour(savings))
	case domain.StrategySequential:
		routes = b.sliceTour(b.Nodes.CustomerIDs())
	default:
		return nil, fmt.Errorf("build routes: unknown strategy %q", strategy)
	}

	sol := &domain.Solution{Routes: make([]domain.Route, 0, len(routes))}
	for _, r := range routes {
		sol.Routes = append(sol.Routes, domain.NewRoute(r))
	}
	return sol, nil
}

// tierTracked performs a single savings pass against the tier currently in
// play. Rejected merges may close their routes, and a lookahead advances
// the tier early when the open routes that are too heavy for the smallest
// class could no longer be served by what is left of the current one.
func (b *RouteBuilder) tierTracked(savings []Saving) [][]int {
	a := newChainArena(b.Nodes, b.Nodes.CustomerIDs())
	tm := NewTierManager(b.Fleet, b.Nodes, b.FullnessWeight)
	smallest := b.Fleet.Smallest().Capacity()

	// Summed load of open chains that no smallest-class vehicle can carry.
	var pending domain.Load
	heavy := func(c *chain) bool { return !c.full && !c.load.Fits(smallest) }
	for _, c := range a.chains {
		if heavy(c) {
			pending = pending.Add(c.load)
		}
	}

	for _, s := range savings {
		ri, rj, ok := a.candidates(s)
		if !ok || ri.full || rj.full {
			continue
		}

		if ri.load.Add(rj.load).Fits(tm.CurrentCapacity()) {
			for _, c := range []*chain{ri, rj} {
				if heavy(c) {
					pending = pending.Sub(c.load)
				}
			}
			a.merge(ri, rj)
			if heavy(ri) {
				pending = pending.Add(ri.load)
			}
			continue
		}

		for _, c := range []*chain{ri, rj} {
			if !tm.IsFull(c.load) {
				continue
			}
			if heavy(c) {
				pending = pending.Sub(c.load)
			}
			c.full = true
			tm.MarkClosed()
		}

		if !tm.HasNext() {
			continue
		}
		capacity := tm.CurrentCapacity()
		needed := max(pending.Kg/capacity.Kg, pending.M3/capacity.M3)
		if float64(tm.Closed())+needed > float64(b.Fleet[tm.Tier()].Available-1) {
			tm.ForceAdvance()
		}
	}

	return chainStops(a.live())
}

// largestTierFirst merges against one tier at a time. Chains beyond the
// tier's availability are broken back into customers and merged again
// against the next tier using only savings between those customers.
func (b *RouteBuilder) largestTierFirst(savings []Saving) [][]int {
	pool := b.Nodes.CustomerIDs()
	var routes [][]int

	for t, class := range b.Fleet {
		inPool := make(map[int]struct{}, len(pool))
		for _, id := range pool {
			inPool[id] = struct{}{}
		}

		a := newChainArena(b.Nodes, pool)
		capacity := class.Capacity()
		for _, s := range savings {
			if _, ok := inPool[s.From]; !ok {
				continue
			}
			if _, ok := inPool[s.To]; !ok {
				continue
			}
			ri, rj, ok := a.candidates(s)
			if !ok {
				continue
			}
			if ri.load.Add(rj.load).Fits(capacity) {
				a.merge(ri, rj)
			}
		}

		chains := a.live()
		if len(chains) <= class.Available || t == len(b.Fleet)-1 {
			return append(routes, chainStops(chains)...)
		}

		// Keep the fullest chains for this tier, preserving arena order.
		order := make([]int, len(chains))
		for i := range order {
			order[i] = i
		}
		slices.SortStableFunc(order, func(x, y int) int {
			fx, fy := fillRatio(chains[x].load, capacity), fillRatio(chains[y].load, capacity)
			switch {
			case fx > fy:
				return -1
			case fx < fy:
				return 1
			}
			return 0
		})
		keep := make([]bool, len(chains))
		for _, i := range order[:class.Available] {
			keep[i] = true
		}

		var overflow []int
		for i, c := range chains {
			if keep[i] {
				routes = append(routes, c.stops)
				continue
			}
			overflow = append(overflow, c.stops...)
		}
		pool = overflow
	}

	return routes
}

// giantTour merges every saving that joins two distinct chains, ignoring
// capacity, and concatenates whatever chains remain in arena order.
func (b *RouteBuilder) giantTour(savings []Saving) []int {
	a := newChainArena(b.Nodes, b.Nodes.CustomerIDs())
	for _, s := range savings {
		if ri, rj, ok := a.candidates(s); ok {
			a.merge(ri, rj)
		}
	}

	tour := make([]int, 0, b.Nodes.Customers())
	for _, c := range a.live() {
		tour = append(tour, c.stops...)
	}
	return tour
}

// sliceTour walks customers in order, opening a new route whenever the
// next customer would overflow the tier in play. Each closed route counts
// against the tier's availability.
func (b *RouteBuilder) sliceTour(tour []int) [][]int {
	tm := NewTierManager(b.Fleet, b.Nodes, b.FullnessWeight)

	var (
		routes  [][]int
		current []int
		load    domain.Load
	)
	for _, id := range tour {
		demand := b.Nodes.Node(id).Demand()
		if len(current) > 0 && !load.Add(demand).Fits(tm.CurrentCapacity()) {
			routes = append(routes, current)
			current, load = nil, domain.Load{}
			tm.MarkClosed()
		}
		current = append(current, id)
		load = load.Add(demand)
	}
	if len(current) > 0 {
		routes = append(routes, current)
	}
	return routes
}

func chainStops(chains []*chain) [][]int {
	out := make([][]int, 0, len(chains))
	for _, c := range chains {
		out = append(out, c.stops)
	}
	return out
}

func fillRatio(l, capacity domain.Load) float64 {
	return max(l.Kg/capacity.Kg, l.M3/capacity.M3)
}
