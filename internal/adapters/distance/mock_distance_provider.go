package distance

import "fmt"

// MockPair is one directed edge of a hand-written test matrix.
type MockPair struct {
	From, To int
	Distance float64
	Seconds  float64
}

// NewMockMatrix builds an n×n matrix from pairs. When symmetric is set
// each pair also fills its reverse edge. Missing edges panic so tests
// notice incomplete fixtures.
func NewMockMatrix(n int, pairs []MockPair, symmetric bool) *DenseMatrix {
	dist := make([][]float64, n)
	dur := make([][]float64, n)
	set := make([][]bool, n)
	for i := range n {
		dist[i] = make([]float64, n)
		dur[i] = make([]float64, n)
		set[i] = make([]bool, n)
		set[i][i] = true
	}

	for _, p := range pairs {
		dist[p.From][p.To], dur[p.From][p.To] = p.Distance, p.Seconds
		set[p.From][p.To] = true
		if symmetric {
			dist[p.To][p.From], dur[p.To][p.From] = p.Distance, p.Seconds
			set[p.To][p.From] = true
		}
	}

	for i := range n {
		for j := range n {
			if !set[i][j] {
				panic(fmt.Sprintf("mock matrix: missing pair %d -> %d", i, j))
			}
		}
	}

	m, err := NewDenseMatrix(dist, dur)
	if err != nil {
		panic(err)
	}
	return m
}

// NewLineMatrix places node i at position xs[i] on a line.
func NewLineMatrix(xs []float64) *DenseMatrix {
	n := len(xs)
	dist := make([][]float64, n)
	for i := range n {
		dist[i] = make([]float64, n)
		for j := range n {
			d := xs[i] - xs[j]
			if d < 0 {
				d = -d
			}
			dist[i][j] = d
		}
	}
	m, err := NewDenseMatrix(dist, nil)
	if err != nil {
		panic(err)
	}
	return m
}
