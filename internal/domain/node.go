package domain

import (
	"fmt"
	"slices"
)

// DepotID is the fixed start and end location of every route.
const DepotID = 0

// Represents a single location served from the depot.
// A Node is immutable input: demand is known up front and the
// depot itself carries no demand.
type Node struct {
	ID             int
	Coordinates    Coordinates
	DemandKg       float64
	DemandM3       float64
	ServiceSeconds float64
}

// Demand returns the node demand as a Load.
func (n Node) Demand() Load { return Load{Kg: n.DemandKg, M3: n.DemandM3} }

// NodeTable is a read-only lookup of nodes indexed by id.
// Ids are contiguous (0..n-1) with 0 being the depot.
type NodeTable struct {
	nodes []Node
}

func NewNodeTable(nodes []Node) (*NodeTable, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("new node table: depot is missing: %w", ErrInvalidInstance)
	}

	sorted := slices.Clone(nodes)
	slices.SortFunc(sorted, func(a, b Node) int { return a.ID - b.ID })

	for i, n := range sorted {
		if n.ID != i {
			return nil, fmt.Errorf("new node table: node ids must be contiguous from 0, got %d at position %d: %w", n.ID, i, ErrInvalidInstance)
		}
		if n.DemandKg < 0 || n.DemandM3 < 0 {
			return nil, fmt.Errorf("new node table: node %d has negative demand: %w", n.ID, ErrInvalidInstance)
		}
		if !n.Coordinates.Valid() {
			return nil, fmt.Errorf("new node table: node %d has coordinates out of range: %w", n.ID, ErrInvalidInstance)
		}
		if n.ServiceSeconds < 0 {
			return nil, fmt.Errorf("new node table: node %d has negative service time: %w", n.ID, ErrInvalidInstance)
		}
	}

	// The depot never contributes to a route's load.
	sorted[DepotID].DemandKg = 0
	sorted[DepotID].DemandM3 = 0

	return &NodeTable{nodes: sorted}, nil
}

// Len returns the number of nodes including the depot.
func (t *NodeTable) Len() int { return len(t.nodes) }

// Customers returns the customer count (all nodes except the depot).
func (t *NodeTable) Customers() int { return len(t.nodes) - 1 }

// Node returns the node with the given id. It panics on an unknown id.
func (t *NodeTable) Node(id int) Node { return t.nodes[id] }

// Has reports whether id names a node in the table.
func (t *NodeTable) Has(id int) bool { return id >= 0 && id < len(t.nodes) }

// All returns a copy of every node, depot first.
func (t *NodeTable) All() []Node { return slices.Clone(t.nodes) }

// CustomerIDs returns customer ids in ascending order.
func (t *NodeTable) CustomerIDs() []int {
	ids := make([]int, 0, t.Customers())
	for id := 1; id < len(t.nodes); id++ {
		ids = append(ids, id)
	}
	return ids
}

// Demand returns the summed demand of the given node ids.
func (t *NodeTable) Demand(ids []int) Load {
	var l Load
	for _, id := range ids {
		l = l.Add(t.nodes[id].Demand())
	}
	return l
}

// TotalDemand returns the summed demand of all customers.
func (t *NodeTable) TotalDemand() Load {
	var l Load
	for _, n := range t.nodes[1:] {
		l = l.Add(n.Demand())
	}
	return l
}

// DemandBounds returns the per-dimension minimum and maximum customer demand.
// Both are zero when there are no customers.
func (t *NodeTable) DemandBounds() (lo Load, hi Load) {
	if t.Customers() == 0 {
		return Load{}, Load{}
	}

	first := t.nodes[1]
	lo, hi = first.Demand(), first.Demand()
	for _, n := range t.nodes[2:] {
		lo.Kg = min(lo.Kg, n.DemandKg)
		lo.M3 = min(lo.M3, n.DemandM3)
		hi.Kg = max(hi.Kg, n.DemandKg)
		hi.M3 = max(hi.M3, n.DemandM3)
	}
	return lo, hi
}
