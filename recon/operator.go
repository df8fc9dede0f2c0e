package recon

import (
	"context"
	"fmt"

	"github.com/jvlmdr/fourdcg/project"
	"github.com/jvlmdr/fourdcg/volume"
)

// Operator is the normal operator of the 4D reconstruction.
//
// The forward pass projects each phase onto the poses which contribute to it
// and sums the weighted projections of all phases at each acquisition.
// The backward pass distributes each summed projection to every phase
// in which it has non-zero weight, weighted again.
// If Back is the adjoint of Forward, the operator is symmetric
// and positive semi-definite.
//
// Results do not depend on the number of workers.
type Operator struct {
	Problem       *Problem
	Forward, Back project.Projector
	// Maximum number of phases projected concurrently.
	// Zero means GOMAXPROCS.
	Workers int
}

// Apply computes the operator on x.
// It does not modify x.
func (op *Operator) Apply(ctx context.Context, x *volume.Series) (*volume.Series, error) {
	prob := op.Problem
	if err := prob.Validate(x); err != nil {
		return nil, err
	}
	var (
		phases = x.Len()
		shape  = x.Shape()
		w      = prob.Weights
		width  = prob.Projections.Width
		height = prob.Projections.Height
	)

	// Forward project each phase onto its own poses.
	poses := make([][]int, phases)
	for p := range poses {
		poses[p] = w.Contributors(p)
	}
	fwd := make([]*volume.Stack, phases)
	err := forEachPhase(ctx, phases, op.Workers, func(p int) error {
		if len(poses[p]) == 0 {
			return nil
		}
		stack, err := op.Forward.Forward(x.Phases[p], prob.Geometry, poses[p], width, height)
		if err != nil {
			return fmt.Errorf("forward project phase %d: %w", p, err)
		}
		if stack == nil {
			return fmt.Errorf("forward projection of phase %d gave no images: %w", p, ErrDimensionMismatch)
		}
		if stack.Len() != len(poses[p]) || stack.Width != width || stack.Height != height {
			return fmt.Errorf(
				"forward projection of phase %d gave %d images of %dx%d, want %d of %dx%d: %w",
				p, stack.Len(), stack.Width, stack.Height, len(poses[p]), width, height,
				ErrDimensionMismatch,
			)
		}
		if err := stack.Validate(); err != nil {
			return fmt.Errorf("forward projection of phase %d: %w", p, err)
		}
		fwd[p] = stack
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Combine the phases at each acquisition, in ascending phase order.
	sum := make([]*volume.Image, prob.Projections.Len())
	for p := 0; p < phases; p++ {
		for n, m := range poses[p] {
			if sum[m] == nil {
				sum[m] = volume.NewImage(width, height)
			}
			sum[m].AddScaled(w.At(m, p), fwd[p].Images[n])
		}
		fwd[p] = nil
	}

	y := &volume.Series{Phases: make([]*volume.Volume, phases)}
	err = forEachPhase(ctx, phases, op.Workers, func(p int) error {
		vol, err := backDistribute(op.Back, prob, p, sum, shape)
		if err != nil {
			return fmt.Errorf("back project into phase %d: %w", p, err)
		}
		y.Phases[p] = vol
		return nil
	})
	if err != nil {
		return nil, err
	}
	return y, nil
}
