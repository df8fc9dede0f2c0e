/*
Package weights describes how each projection is distributed over the phases
of the motion cycle.

Row m of a Matrix gives the weight of projection m in each phase.
Rows usually sum to one, but partial rows and all-zero rows are allowed:
a projection whose row is zero takes no part in the reconstruction.

Weights are typically obtained from a respiratory signal:
	w, err := weights.FromPhases(signal, 10)
*/
package weights

import (
	"errors"
	"fmt"
	"math"

	"github.com/jvlmdr/fourdcg/volume"
)

// ErrInvalidWeights is returned for negative or non-finite weights.
var ErrInvalidWeights = errors.New("weights: invalid weights")

// Matrix is a dense table of interpolation weights.
// Rows[m][p] is the weight of projection m in phase p.
type Matrix struct {
	Rows [][]float64
}

// New allocates a zero matrix for m projections and p phases.
func New(m, p int) *Matrix {
	rows := make([][]float64, m)
	for i := range rows {
		rows[i] = make([]float64, p)
	}
	return &Matrix{rows}
}

// Projections gives the number of rows.
func (w *Matrix) Projections() int {
	return len(w.Rows)
}

// Phases gives the number of columns.
// It is zero for a matrix without rows.
func (w *Matrix) Phases() int {
	if len(w.Rows) == 0 {
		return 0
	}
	return len(w.Rows[0])
}

func (w *Matrix) At(m, p int) float64 {
	return w.Rows[m][p]
}

func (w *Matrix) Set(m, p int, x float64) {
	w.Rows[m][p] = x
}

// Validate checks that the matrix is m x p and that every weight is finite
// and non-negative. Row sums are not checked.
func (w *Matrix) Validate(m, p int) error {
	if len(w.Rows) != m {
		return fmt.Errorf("weights have %d rows, want %d projections: %w", len(w.Rows), m, volume.ErrDimensionMismatch)
	}
	for i, row := range w.Rows {
		if len(row) != p {
			return fmt.Errorf("weights row %d has %d columns, want %d phases: %w", i, len(row), p, volume.ErrDimensionMismatch)
		}
	}
	for i, row := range w.Rows {
		for j, x := range row {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return fmt.Errorf("weight (%d, %d) is %g: %w", i, j, x, ErrInvalidWeights)
			}
			if x < 0 {
				return fmt.Errorf("weight (%d, %d) is negative: %g: %w", i, j, x, ErrInvalidWeights)
			}
		}
	}
	return nil
}

// Contributors returns the projections with non-zero weight in phase p,
// in ascending order.
func (w *Matrix) Contributors(p int) []int {
	var idx []int
	for m, row := range w.Rows {
		if row[p] != 0 {
			idx = append(idx, m)
		}
	}
	return idx
}

// RowSum gives the total weight of projection m.
func (w *Matrix) RowSum(m int) float64 {
	var total float64
	for _, x := range w.Rows[m] {
		total += x
	}
	return total
}

// FromPhases computes linear interpolation weights from the phase of each
// projection within the motion cycle. Phases are in [0, 1).
//
// A projection at phase s lies at position s*n between phase bins.
// It is shared between the bin below and the next bin (cyclically)
// in proportion to its distance from each.
func FromPhases(signal []float64, n int) (*Matrix, error) {
	if n <= 0 {
		return nil, fmt.Errorf("number of phases must be positive: %d: %w", n, volume.ErrDimensionMismatch)
	}
	w := New(len(signal), n)
	for m, s := range signal {
		if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 || s >= 1 {
			return nil, fmt.Errorf("phase of projection %d not in [0, 1): %g: %w", m, s, ErrInvalidWeights)
		}
		pos := s * float64(n)
		lower := int(math.Floor(pos))
		if lower >= n {
			// Guard against rounding up to n.
			lower = n - 1
		}
		frac := pos - float64(lower)
		upper := (lower + 1) % n
		w.Rows[m][lower] += 1 - frac
		w.Rows[m][upper] += frac
	}
	return w, nil
}
