package recon

import (
	"context"
	"fmt"

	"github.com/jvlmdr/fourdcg/project"
	"github.com/jvlmdr/fourdcg/volume"
)

// BuildRHS back projects the measured projections into each phase:
//	B[p] = sum over m of W[m][p] Back(Y[m])
// Only projections with non-zero weight in phase p are back projected.
// A phase to which no projection contributes is exactly zero.
func BuildRHS(ctx context.Context, prob *Problem, back project.Projector, shape volume.Shape, workers int) (*volume.Series, error) {
	phases := prob.Phases()
	if err := prob.validate(phases); err != nil {
		return nil, err
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	b := &volume.Series{Phases: make([]*volume.Volume, phases)}
	err := forEachPhase(ctx, phases, workers, func(p int) error {
		vol, err := backDistribute(back, prob, p, prob.Projections.Images, shape)
		if err != nil {
			return fmt.Errorf("back project measured data into phase %d: %w", p, err)
		}
		b.Phases[p] = vol
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// backDistribute back projects W[m][p] ims[m] for every contributor m of phase p.
// The weight is applied to a copy of the image before back projection.
func backDistribute(back project.Projector, prob *Problem, p int, ims []*volume.Image, shape volume.Shape) (*volume.Volume, error) {
	w := prob.Weights
	poses := w.Contributors(p)
	if len(poses) == 0 {
		return volume.NewVolume(shape), nil
	}
	stack := &volume.Stack{
		Images: make([]*volume.Image, len(poses)),
		Width:  prob.Projections.Width,
		Height: prob.Projections.Height,
	}
	for n, m := range poses {
		im := ims[m].Clone()
		im.Scale(w.At(m, p))
		stack.Images[n] = im
	}
	vol, err := back.Back(stack, prob.Geometry, poses, shape)
	if err != nil {
		return nil, err
	}
	if !vol.Shape.Congruent(shape) || len(vol.Elems) != shape.Len() {
		return nil, fmt.Errorf("back projection is %v, want %v: %w", vol.Shape, shape, ErrDimensionMismatch)
	}
	return vol, nil
}
