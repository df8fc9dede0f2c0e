package recon

import (
	"fmt"

	"github.com/jvlmdr/fourdcg/geometry"
	"github.com/jvlmdr/fourdcg/volume"
	"github.com/jvlmdr/fourdcg/weights"
)

var (
	// ErrDimensionMismatch is returned when the projections, geometry, weights
	// and volumes disagree in shape.
	ErrDimensionMismatch = volume.ErrDimensionMismatch
	// ErrInvalidWeights is returned for negative or non-finite weights.
	ErrInvalidWeights = weights.ErrInvalidWeights
)

// Problem holds the measured data of a 4D reconstruction.
// It is only read.
type Problem struct {
	// One image per acquisition.
	Projections *volume.Stack
	// One pose per acquisition.
	Geometry geometry.Geometry
	// Projections x phases.
	Weights *weights.Matrix
}

// Phases gives the number of phases in the reconstruction.
func (prob *Problem) Phases() int {
	return prob.Weights.Phases()
}

// validate checks the problem for a reconstruction of the given number of phases.
// Images of projections with zero weight in every phase are never read
// and are not checked.
func (prob *Problem) validate(phases int) error {
	if prob == nil || prob.Projections == nil || prob.Geometry == nil || prob.Weights == nil {
		return fmt.Errorf("incomplete problem: projections, geometry and weights are required")
	}
	m := prob.Projections.Len()
	if n := prob.Geometry.NumPoses(); n != m {
		return fmt.Errorf("geometry has %d poses for %d projections: %w", n, m, ErrDimensionMismatch)
	}
	if phases <= 0 {
		return fmt.Errorf("number of phases must be positive: %d: %w", phases, ErrDimensionMismatch)
	}
	if err := prob.Weights.Validate(m, phases); err != nil {
		return err
	}
	for i := 0; i < m; i++ {
		if prob.Weights.RowSum(i) == 0 {
			continue
		}
		if err := prob.Projections.ValidateImage(i); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the problem against a volume series.
// All checks are performed before any projection.
func (prob *Problem) Validate(x *volume.Series) error {
	if err := x.Validate(); err != nil {
		return err
	}
	if err := x.Shape().Validate(); err != nil {
		return err
	}
	return prob.validate(x.Len())
}
