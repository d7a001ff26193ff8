package services

import (
	"fleet-route-service/internal/adapters/distance"
	"fleet-route-service/internal/domain"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func newNodes(t *testing.T, kg ...float64) *domain.NodeTable {
	t.Helper()
	nodes := []domain.Node{{ID: 0}}
	for i, d := range kg {
		nodes = append(nodes, domain.Node{ID: i + 1, DemandKg: d, DemandM3: 1})
	}
	table, err := domain.NewNodeTable(nodes)
	require.NoError(t, err)
	return table
}

func newFleet(t *testing.T, classes ...domain.VehicleClass) domain.FleetSpec {
	t.Helper()
	fleet, err := domain.NewFleetSpec(classes)
	require.NoError(t, err)
	return fleet
}

func class(id string, kg float64, available int) domain.VehicleClass {
	return domain.VehicleClass{ID: id, CapacityKg: kg, CapacityM3: kg / 100, FuelRate: 1, Available: available}
}

// randomInstance scatters n customers on a 100×100 plane around a central
// depot. Demands fall between 50 and 400 kg.
func randomInstance(t *testing.T, seed uint64, n int, fleet domain.FleetSpec) *domain.Instance {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed+1))

	xs := []float64{50}
	ys := []float64{50}
	nodes := []domain.Node{{ID: 0}}
	for i := 1; i <= n; i++ {
		xs = append(xs, rng.Float64()*100)
		ys = append(ys, rng.Float64()*100)
		nodes = append(nodes, domain.Node{
			ID:             i,
			DemandKg:       50 + math.Floor(rng.Float64()*350),
			DemandM3:       0.5 + math.Floor(rng.Float64()*30)/10,
			ServiceSeconds: 300,
		})
	}

	dist := make([][]float64, n+1)
	dur := make([][]float64, n+1)
	for i := range n + 1 {
		dist[i] = make([]float64, n+1)
		dur[i] = make([]float64, n+1)
		for j := range n + 1 {
			dist[i][j] = math.Hypot(xs[i]-xs[j], ys[i]-ys[j])
			dur[i][j] = dist[i][j] * 60
		}
	}
	matrix, err := distance.NewDenseMatrix(dist, dur)
	require.NoError(t, err)

	table, err := domain.NewNodeTable(nodes)
	require.NoError(t, err)

	return &domain.Instance{Nodes: table, Distances: matrix, Fleet: fleet, FuelPrice: 1.5}
}

// requireCoverage checks that every customer is visited exactly once and
// every route is depot-bounded and non-empty.
func requireCoverage(t *testing.T, sol *domain.Solution, nodes *domain.NodeTable) {
	t.Helper()
	seen := make(map[int]int)
	for _, r := range sol.Routes {
		require.GreaterOrEqual(t, len(r.Stops), 3)
		require.Equal(t, domain.DepotID, r.Stops[0])
		require.Equal(t, domain.DepotID, r.Stops[len(r.Stops)-1])
		for _, id := range r.Customers() {
			seen[id]++
		}
	}
	for _, id := range nodes.CustomerIDs() {
		require.Equal(t, 1, seen[id], "customer %d", id)
	}
	require.Len(t, seen, nodes.Customers())
}

func routeCustomers(sol *domain.Solution) [][]int {
	out := make([][]int, 0, len(sol.Routes))
	for _, r := range sol.Routes {
		out = append(out, r.Customers())
	}
	return out
}
