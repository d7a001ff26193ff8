package services

import (
	"context"
	"fleet-route-service/internal/adapters/distance"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeSavingsTieOrder(t *testing.T) {
	nodes := newNodes(t, 1, 1, 1)
	dist := distance.NewMockMatrix(4, []distance.MockPair{
		{From: 0, To: 1, Distance: 2},
		{From: 0, To: 2, Distance: 2},
		{From: 0, To: 3, Distance: 2},
		{From: 1, To: 2, Distance: 1},
		{From: 2, To: 3, Distance: 1},
		{From: 1, To: 3, Distance: 3},
	}, true)

	got := ComputeSavings(nodes, dist)
	require.Equal(t, []Saving{
		{From: 1, To: 2, Value: 3},
		{From: 2, To: 1, Value: 3},
		{From: 2, To: 3, Value: 3},
		{From: 3, To: 2, Value: 3},
		{From: 1, To: 3, Value: 1},
		{From: 3, To: 1, Value: 1},
	}, got)
}

func TestComputeSavingsAsymmetric(t *testing.T) {
	nodes := newNodes(t, 1, 1)
	dist := distance.NewMockMatrix(3, []distance.MockPair{
		{From: 0, To: 1, Distance: 5},
		{From: 1, To: 0, Distance: 4},
		{From: 0, To: 2, Distance: 6},
		{From: 2, To: 0, Distance: 3},
		{From: 1, To: 2, Distance: 2},
		{From: 2, To: 1, Distance: 7},
	}, false)

	got := ComputeSavings(nodes, dist)
	require.Equal(t, []Saving{
		// d(1,0) + d(0,2) - d(1,2)
		{From: 1, To: 2, Value: 8},
		// d(2,0) + d(0,1) - d(2,1)
		{From: 2, To: 1, Value: 1},
	}, got)
}

func TestComputeSavingsFewCustomers(t *testing.T) {
	require.Empty(t, ComputeSavings(newNodes(t), distance.NewLineMatrix([]float64{0})))
	require.Empty(t, ComputeSavings(newNodes(t, 10), distance.NewLineMatrix([]float64{0, 1})))
}

func TestComputeSavingsParallelMatchesSequential(t *testing.T) {
	in := randomInstance(t, 11, 40, newFleet(t, class("truck", 2000, 10)))

	want := ComputeSavings(in.Nodes, in.Distances)
	for _, workers := range []int{0, 1, 3, 16} {
		got, err := ComputeSavingsParallel(context.Background(), in.Nodes, in.Distances, workers)
		require.NoError(t, err)
		require.Equal(t, want, got, "workers=%d", workers)
	}
}

func TestComputeSavingsParallelCanceled(t *testing.T) {
	in := randomInstance(t, 3, 10, newFleet(t, class("truck", 2000, 10)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ComputeSavingsParallel(ctx, in.Nodes, in.Distances, 2)
	require.ErrorIs(t, err, context.Canceled)
}
