package project

import (
	"fmt"
	"math"

	"github.com/jvlmdr/fourdcg/geometry"
	"github.com/jvlmdr/fourdcg/volume"
)

// Nearest is a voxel-driven parallel-beam projector.
// The volume rotates about the y axis by the gantry angle
// and each voxel is added to the nearest detector column.
// Distances are measured in voxels and the detector pitch is one voxel.
type Nearest struct{}

// Linear is like Nearest but shares each voxel between
// the two nearest detector columns.
type Linear struct{}

func (Nearest) Forward(vol *volume.Volume, geom geometry.Geometry, poses []int, width, height int) (*volume.Stack, error) {
	return forwardParallel(vol, geom, poses, width, height, nearestFootprint)
}

func (Nearest) Back(stack *volume.Stack, geom geometry.Geometry, poses []int, shape volume.Shape) (*volume.Volume, error) {
	return backParallel(stack, geom, poses, shape, nearestFootprint)
}

func (Linear) Forward(vol *volume.Volume, geom geometry.Geometry, poses []int, width, height int) (*volume.Stack, error) {
	return forwardParallel(vol, geom, poses, width, height, linearFootprint)
}

func (Linear) Back(stack *volume.Stack, geom geometry.Geometry, poses []int, shape volume.Shape) (*volume.Volume, error) {
	return backParallel(stack, geom, poses, shape, linearFootprint)
}

// footprint gives the detector columns reached by a voxel whose centre
// projects to continuous column u, and the weight of each.
// A weight of zero means the column is not used.
type footprint func(u float64) (c0 int, w0 float64, c1 int, w1 float64)

func nearestFootprint(u float64) (int, float64, int, float64) {
	return int(math.Floor(u + 0.5)), 1, 0, 0
}

func linearFootprint(u float64) (int, float64, int, float64) {
	c := math.Floor(u)
	f := u - c
	return int(c), 1 - f, int(c) + 1, f
}

// plane maps the voxels of one y-slice onto detector columns for one pose.
type plane struct {
	cos, sin float64
	// Centres of the volume and the detector.
	cx, cz, cu float64
}

func newPlane(theta float64, shape volume.Shape, width int) plane {
	return plane{
		cos: math.Cos(theta),
		sin: math.Sin(theta),
		cx:  float64(shape.Width-1) / 2,
		cz:  float64(shape.Depth-1) / 2,
		cu:  float64(width-1) / 2,
	}
}

func (p plane) column(i, k int) float64 {
	x := float64(i) - p.cx
	z := float64(k) - p.cz
	return x*p.cos + z*p.sin + p.cu
}

// Detector rows are aligned with volume rows, centred.
func rowOffset(volHeight, detHeight int) int {
	return (detHeight - volHeight) / 2
}

func angles(geom geometry.Geometry, poses []int) ([]float64, error) {
	g, ok := geom.(geometry.Angled)
	if !ok {
		return nil, fmt.Errorf("parallel projector needs gantry angles, got %T", geom)
	}
	if err := geometry.CheckPoses(g, poses); err != nil {
		return nil, err
	}
	theta := make([]float64, len(poses))
	for i, m := range poses {
		theta[i] = g.GantryAngle(m)
	}
	return theta, nil
}

func forwardParallel(vol *volume.Volume, geom geometry.Geometry, poses []int, width, height int, fp footprint) (*volume.Stack, error) {
	if err := errIfBadVolume(vol); err != nil {
		return nil, err
	}
	theta, err := angles(geom, poses)
	if err != nil {
		return nil, err
	}
	dv := rowOffset(vol.Height, height)
	stack := volume.NewStack(len(poses), width, height)
	for n, im := range stack.Images {
		pl := newPlane(theta[n], vol.Shape, width)
		for k := 0; k < vol.Depth; k++ {
			for i := 0; i < vol.Width; i++ {
				c0, w0, c1, w1 := fp(pl.column(i, k))
				for j := 0; j < vol.Height; j++ {
					v := j + dv
					if v < 0 || v >= height {
						continue
					}
					x := vol.At(i, j, k)
					if w0 != 0 && c0 >= 0 && c0 < width {
						im.Elems[v*width+c0] += w0 * x
					}
					if w1 != 0 && c1 >= 0 && c1 < width {
						im.Elems[v*width+c1] += w1 * x
					}
				}
			}
		}
	}
	return stack, nil
}

func backParallel(stack *volume.Stack, geom geometry.Geometry, poses []int, shape volume.Shape, fp footprint) (*volume.Volume, error) {
	if err := errIfBadStack(stack, poses); err != nil {
		return nil, err
	}
	theta, err := angles(geom, poses)
	if err != nil {
		return nil, err
	}
	width, height := stack.Width, stack.Height
	dv := rowOffset(shape.Height, height)
	vol := volume.NewVolume(shape)
	for n, im := range stack.Images {
		pl := newPlane(theta[n], shape, width)
		for k := 0; k < shape.Depth; k++ {
			for i := 0; i < shape.Width; i++ {
				c0, w0, c1, w1 := fp(pl.column(i, k))
				for j := 0; j < shape.Height; j++ {
					v := j + dv
					if v < 0 || v >= height {
						continue
					}
					var x float64
					if w0 != 0 && c0 >= 0 && c0 < width {
						x += w0 * im.Elems[v*width+c0]
					}
					if w1 != 0 && c1 >= 0 && c1 < width {
						x += w1 * im.Elems[v*width+c1]
					}
					vol.Elems[vol.Index(i, j, k)] += x
				}
			}
		}
	}
	return vol, nil
}
