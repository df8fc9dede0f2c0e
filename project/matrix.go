package project

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/jvlmdr/fourdcg/geometry"
	"github.com/jvlmdr/fourdcg/volume"
)

// Matrix projects using an explicit system matrix per pose.
// Systems[m] has one row per detector pixel and one column per voxel,
// both in storage order.
//
// It is only practical for small problems.
type Matrix struct {
	Systems []mat.Matrix
}

func (op *Matrix) system(m, rows, cols int) (mat.Matrix, error) {
	if m < 0 || m >= len(op.Systems) {
		return nil, fmt.Errorf("pose index %d out of range [0, %d)", m, len(op.Systems))
	}
	a := op.Systems[m]
	if r, c := a.Dims(); r != rows || c != cols {
		return nil, fmt.Errorf(
			"system %d is %dx%d, want %dx%d: %w",
			m, r, c, rows, cols, volume.ErrDimensionMismatch,
		)
	}
	return a, nil
}

func (op *Matrix) Forward(vol *volume.Volume, geom geometry.Geometry, poses []int, width, height int) (*volume.Stack, error) {
	if err := errIfBadVolume(vol); err != nil {
		return nil, err
	}
	if err := geometry.CheckPoses(geom, poses); err != nil {
		return nil, err
	}
	x := mat.NewVecDense(len(vol.Elems), vol.Elems)
	stack := &volume.Stack{Images: make([]*volume.Image, len(poses)), Width: width, Height: height}
	for n, m := range poses {
		a, err := op.system(m, width*height, len(vol.Elems))
		if err != nil {
			return nil, err
		}
		y := mat.NewVecDense(width*height, nil)
		y.MulVec(a, x)
		stack.Images[n] = &volume.Image{Elems: y.RawVector().Data, Width: width, Height: height}
	}
	return stack, nil
}

func (op *Matrix) Back(stack *volume.Stack, geom geometry.Geometry, poses []int, shape volume.Shape) (*volume.Volume, error) {
	if err := errIfBadStack(stack, poses); err != nil {
		return nil, err
	}
	if err := geometry.CheckPoses(geom, poses); err != nil {
		return nil, err
	}
	vol := volume.NewVolume(shape)
	x := mat.NewVecDense(shape.Len(), nil)
	for n, m := range poses {
		a, err := op.system(m, stack.Width*stack.Height, shape.Len())
		if err != nil {
			return nil, err
		}
		y := mat.NewVecDense(len(stack.Images[n].Elems), stack.Images[n].Elems)
		x.MulVec(a.T(), y)
		floats.Add(vol.Elems, x.RawVector().Data)
	}
	return vol, nil
}
