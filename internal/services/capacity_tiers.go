package services

import "fleet-route-service/internal/domain"

// TierManager tracks which vehicle class is currently being filled during
// construction and when to roll over to the next, smaller one.
type TierManager struct {
	fleet  domain.FleetSpec
	tier   int
	closed int
	// Demand margin below capacity at which a route counts as full.
	highDemand domain.Load
}

// NewTierManager starts at the largest class. fullnessWeight p interpolates
// the fullness margin between the smallest (p=1) and largest (p=0)
// customer demand; values outside [0,1] are clamped.
func NewTierManager(fleet domain.FleetSpec, nodes *domain.NodeTable, fullnessWeight float64) *TierManager {
	p := min(max(fullnessWeight, 0), 1)
	lo, hi := nodes.DemandBounds()

	return &TierManager{
		fleet: fleet,
		highDemand: domain.Load{
			Kg: p*lo.Kg + (1-p)*hi.Kg,
			M3: p*lo.M3 + (1-p)*hi.M3,
		},
	}
}

// CurrentCapacity returns the capacity of the class at the cursor.
func (m *TierManager) CurrentCapacity() domain.Load { return m.fleet[m.tier].Capacity() }

// Tier returns the cursor index into the fleet.
func (m *TierManager) Tier() int { return m.tier }

// Closed returns the number of routes closed against the current tier.
func (m *TierManager) Closed() int { return m.closed }

// HasNext reports whether a smaller tier follows the current one.
func (m *TierManager) HasNext() bool { return m.tier+1 < len(m.fleet) }

// MarkClosed records a full route. Once the current class has no vehicles
// left the cursor moves to the next class; the last class is never left.
func (m *TierManager) MarkClosed() {
	m.closed++
	if m.closed >= m.fleet[m.tier].Available && m.HasNext() {
		m.tier++
		m.closed = 0
	}
}

// ForceAdvance moves to the next tier regardless of the closed count.
// It reports false when already at the last tier.
func (m *TierManager) ForceAdvance() bool {
	if !m.HasNext() {
		return false
	}
	m.tier++
	m.closed = 0
	return true
}

// Remaining returns how many vehicles of the current class are still open.
func (m *TierManager) Remaining() int { return m.fleet[m.tier].Available - m.closed }

// IsFull reports whether load leaves no room for a high-demand customer
// in either dimension under the current capacity.
func (m *TierManager) IsFull(load domain.Load) bool {
	c := m.CurrentCapacity()
	return load.Kg >= c.Kg-m.highDemand.Kg || load.M3 >= c.M3-m.highDemand.M3
}
