package volume

import (
	"fmt"
	"math"
)

// Series is a sequence of congruent volumes, one per phase.
//
// Series provides the two primitives needed by conjugate gradient:
// the inner product and the scaled sum.
type Series struct {
	Phases []*Volume
}

// NewSeries allocates a zero series of n phases.
func NewSeries(n int, shape Shape) *Series {
	phases := make([]*Volume, n)
	for p := range phases {
		phases[p] = NewVolume(shape)
	}
	return &Series{phases}
}

// Len gives the number of phases.
func (s *Series) Len() int {
	return len(s.Phases)
}

// Shape gives the grid shared by all phases.
// It panics if the series is empty.
func (s *Series) Shape() Shape {
	return s.Phases[0].Shape
}

// Validate checks that the series is non-empty and that all phases are congruent.
func (s *Series) Validate() error {
	if len(s.Phases) == 0 {
		return fmt.Errorf("series has no phases: %w", ErrDimensionMismatch)
	}
	for p, v := range s.Phases {
		if v == nil {
			return fmt.Errorf("phase %d is nil: %w", p, ErrDimensionMismatch)
		}
		if len(v.Elems) != v.Len() {
			return fmt.Errorf(
				"phase %d has %d elements for shape %v: %w",
				p, len(v.Elems), v.Shape, ErrDimensionMismatch,
			)
		}
		if !v.Shape.Congruent(s.Phases[0].Shape) {
			return fmt.Errorf(
				"phase %d is %v, phase 0 is %v: %w",
				p, v.Shape, s.Phases[0].Shape, ErrDimensionMismatch,
			)
		}
	}
	return nil
}

// Clone creates a deep copy of the series.
func (s *Series) Clone() *Series {
	phases := make([]*Volume, len(s.Phases))
	for p, v := range s.Phases {
		phases[p] = v.Clone()
	}
	return &Series{phases}
}

// ZeroLike allocates a zero series with the same phases and shape.
func (s *Series) ZeroLike() *Series {
	phases := make([]*Volume, len(s.Phases))
	for p, v := range s.Phases {
		phases[p] = NewVolume(v.Shape)
	}
	return &Series{phases}
}

// Dot computes the inner product of two series.
// Phases are accumulated in ascending order.
func (s *Series) Dot(t *Series) float64 {
	panicIf(errIfLenNotEq(s, t))
	var total float64
	for p := range s.Phases {
		total += s.Phases[p].Dot(t.Phases[p])
	}
	return total
}

// Norm computes the Euclidean norm of the series.
func (s *Series) Norm() float64 {
	return math.Sqrt(s.Dot(s))
}

// AddScaled increments s by alpha*t.
func (s *Series) AddScaled(alpha float64, t *Series) {
	panicIf(errIfLenNotEq(s, t))
	for p := range s.Phases {
		s.Phases[p].AddScaled(alpha, t.Phases[p])
	}
}

// Scale multiplies every voxel of every phase by k.
func (s *Series) Scale(k float64) {
	for _, v := range s.Phases {
		v.Scale(k)
	}
}
