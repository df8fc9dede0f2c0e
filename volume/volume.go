package volume

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Shape describes the voxel grid of a volume.
// Spacing and Origin are in physical units and are carried along
// so that every phase of a series can be checked for congruence.
type Shape struct {
	Width, Height, Depth int
	Spacing              [3]float64
	Origin               [3]float64
}

// Len gives the number of voxels.
func (s Shape) Len() int {
	return s.Width * s.Height * s.Depth
}

// Congruent reports whether two grids have the same extent, spacing and origin.
func (s Shape) Congruent(t Shape) bool {
	return s == t
}

// Sized reports whether any extent is set.
func (s Shape) Sized() bool {
	return s.Width != 0 || s.Height != 0 || s.Depth != 0
}

// Validate checks that every extent is positive.
func (s Shape) Validate() error {
	if s.Width <= 0 || s.Height <= 0 || s.Depth <= 0 {
		return fmt.Errorf("invalid volume size %v: %w", s, ErrDimensionMismatch)
	}
	return nil
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.Width, s.Height, s.Depth)
}

// Volume is a 3D grid of voxels.
// Element (i, j, k) is stored at Elems[(k*Height+j)*Width+i].
type Volume struct {
	Elems []float64
	Shape
}

// NewVolume allocates a zero volume.
func NewVolume(shape Shape) *Volume {
	return &Volume{make([]float64, shape.Len()), shape}
}

// Index gives the position of voxel (i, j, k) in Elems.
func (v *Volume) Index(i, j, k int) int {
	return (k*v.Height+j)*v.Width + i
}

// At returns voxel (i, j, k).
func (v *Volume) At(i, j, k int) float64 {
	return v.Elems[v.Index(i, j, k)]
}

// Set modifies voxel (i, j, k).
func (v *Volume) Set(i, j, k int, x float64) {
	v.Elems[v.Index(i, j, k)] = x
}

// Clone creates a copy of the volume.
func (v *Volume) Clone() *Volume {
	elems := make([]float64, len(v.Elems))
	copy(elems, v.Elems)
	return &Volume{elems, v.Shape}
}

// Fill sets every voxel to x.
func (v *Volume) Fill(x float64) {
	for i := range v.Elems {
		v.Elems[i] = x
	}
}

// Add increments v by u.
func (v *Volume) Add(u *Volume) {
	panicIf(errIfShapeNotEq(v.Shape, u.Shape))
	floats.Add(v.Elems, u.Elems)
}

// AddScaled increments v by alpha*u.
func (v *Volume) AddScaled(alpha float64, u *Volume) {
	panicIf(errIfShapeNotEq(v.Shape, u.Shape))
	floats.AddScaled(v.Elems, alpha, u.Elems)
}

// Scale multiplies every voxel by k.
func (v *Volume) Scale(k float64) {
	floats.Scale(k, v.Elems)
}

// Dot computes the inner product of two volumes.
func (v *Volume) Dot(u *Volume) float64 {
	panicIf(errIfShapeNotEq(v.Shape, u.Shape))
	return floats.Dot(v.Elems, u.Elems)
}
