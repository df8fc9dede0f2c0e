package recon

import (
	"errors"
	"math"
	"math/rand"
	"sync/atomic"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/jvlmdr/fourdcg/geometry"
	"github.com/jvlmdr/fourdcg/project"
	"github.com/jvlmdr/fourdcg/volume"
	"github.com/jvlmdr/fourdcg/weights"
)

const eps = 1e-9

func epsEq(want, got, eps float64) bool {
	return math.Abs(want-got) <= eps
}

// sumProjector sets every pixel to the sum of the volume.
// Its adjoint sets every voxel to the sum of all pixels.
type sumProjector struct{}

func (sumProjector) Forward(vol *volume.Volume, geom geometry.Geometry, poses []int, width, height int) (*volume.Stack, error) {
	if err := geometry.CheckPoses(geom, poses); err != nil {
		return nil, err
	}
	s := volume.NewStack(len(poses), width, height)
	total := floats.Sum(vol.Elems)
	for _, im := range s.Images {
		for i := range im.Elems {
			im.Elems[i] = total
		}
	}
	return s, nil
}

func (sumProjector) Back(stack *volume.Stack, geom geometry.Geometry, poses []int, shape volume.Shape) (*volume.Volume, error) {
	if err := geometry.CheckPoses(geom, poses); err != nil {
		return nil, err
	}
	vol := volume.NewVolume(shape)
	var total float64
	for _, im := range stack.Images {
		total += floats.Sum(im.Elems)
	}
	vol.Fill(total)
	return vol, nil
}

// countingProjector counts calls to another projector
// and fails once a given number of forward calls have been made.
type countingProjector struct {
	project.Projector
	forward, back atomic.Int64
	// Zero means never fail.
	failAt int64
}

var errProjector = errors.New("projector failed")

func (op *countingProjector) Forward(vol *volume.Volume, geom geometry.Geometry, poses []int, width, height int) (*volume.Stack, error) {
	n := op.forward.Add(1)
	if op.failAt > 0 && n >= op.failAt {
		return nil, errProjector
	}
	return op.Projector.Forward(vol, geom, poses, width, height)
}

func (op *countingProjector) Back(stack *volume.Stack, geom geometry.Geometry, poses []int, shape volume.Shape) (*volume.Volume, error) {
	op.back.Add(1)
	return op.Projector.Back(stack, geom, poses, shape)
}

func (op *countingProjector) calls() int64 {
	return op.forward.Load() + op.back.Load()
}

// scalarProblem has one 1x1 image per value.
func scalarProblem(values []float64, w [][]float64) *Problem {
	stack := volume.NewStack(len(values), 1, 1)
	for m, y := range values {
		stack.Images[m].Elems[0] = y
	}
	return &Problem{
		Projections: stack,
		Geometry:    geometry.NewCircular(len(values), 0, 360, 1000, 1500),
		Weights:     &weights.Matrix{Rows: w},
	}
}

var unitShape = volume.Shape{Width: 1, Height: 1, Depth: 1}

func randSeries(r *rand.Rand, phases int, shape volume.Shape) *volume.Series {
	s := volume.NewSeries(phases, shape)
	for _, v := range s.Phases {
		for i := range v.Elems {
			v.Elems[i] = r.NormFloat64()
		}
	}
	return s
}

func randStack(r *rand.Rand, n, width, height int) *volume.Stack {
	s := volume.NewStack(n, width, height)
	for _, im := range s.Images {
		for i := range im.Elems {
			im.Elems[i] = r.NormFloat64()
		}
	}
	return s
}

// randProblem uses a random respiratory signal.
func randProblem(r *rand.Rand, projections, phases, width, height int) *Problem {
	signal := make([]float64, projections)
	for m := range signal {
		signal[m] = r.Float64()
	}
	w, err := weights.FromPhases(signal, phases)
	if err != nil {
		panic(err)
	}
	return &Problem{
		Projections: randStack(r, projections, width, height),
		Geometry:    geometry.NewCircular(projections, 0, 360, 1000, 1500),
		Weights:     w,
	}
}

func testSeriesIdentical(t *testing.T, want, got *volume.Series) {
	if want.Len() != got.Len() {
		t.Fatalf("phases differ: want %d, got %d", want.Len(), got.Len())
	}
	for p := range want.Phases {
		a, b := want.Phases[p].Elems, got.Phases[p].Elems
		if len(a) != len(b) {
			t.Fatalf("phase %d: sizes differ: want %d, got %d", p, len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("phase %d, at %d: want %.17g, got %.17g", p, i, a[i], b[i])
			}
		}
	}
}

// brokenProjector returns malformed forward projections.
type brokenProjector struct {
	sumProjector
	// Replaces the first image.
	image *volume.Image
}

func (op brokenProjector) Forward(vol *volume.Volume, geom geometry.Geometry, poses []int, width, height int) (*volume.Stack, error) {
	s, err := op.sumProjector.Forward(vol, geom, poses, width, height)
	if err != nil {
		return nil, err
	}
	s.Images[0] = op.image
	return s, nil
}
