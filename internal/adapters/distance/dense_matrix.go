package distance

import (
	"fleet-route-service/internal/domain"
	"fmt"
	"math"
)

// DenseMatrix is an in-memory square travel matrix indexed by node id.
// Durations are optional; without them every duration is zero.
type DenseMatrix struct {
	distances [][]float64
	durations [][]float64
}

func NewDenseMatrix(distances, durations [][]float64) (*DenseMatrix, error) {
	if err := checkSquare("distances", distances, len(distances)); err != nil {
		return nil, err
	}
	if durations != nil {
		if err := checkSquare("durations", durations, len(distances)); err != nil {
			return nil, err
		}
	}
	return &DenseMatrix{distances: distances, durations: durations}, nil
}

// Size returns the number of nodes covered by the matrix.
func (m *DenseMatrix) Size() int { return len(m.distances) }

func (m *DenseMatrix) Distance(from, to int) float64 { return m.distances[from][to] }

func (m *DenseMatrix) Duration(from, to int) float64 {
	if m.durations == nil {
		return 0
	}
	return m.durations[from][to]
}

func checkSquare(name string, rows [][]float64, n int) error {
	if len(rows) != n {
		return fmt.Errorf("dense matrix: %s has %d rows, want %d: %w", name, len(rows), n, domain.ErrInvalidInstance)
	}
	for i, row := range rows {
		if len(row) != n {
			return fmt.Errorf("dense matrix: %s row %d has %d columns, want %d: %w", name, i, len(row), n, domain.ErrInvalidInstance)
		}
		for j, v := range row {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("dense matrix: %s[%d][%d] = %v is not a non-negative number: %w", name, i, j, v, domain.ErrInvalidInstance)
			}
		}
	}
	return nil
}
