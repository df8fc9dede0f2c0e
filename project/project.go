/*
Package project provides forward and back projection between volumes
and projection images.

A Projector maps a volume to one image per requested pose,
and a stack of images (one per requested pose) back to a volume.
The reconstruction relies on Back being the adjoint of Forward:
	<Forward(x), y> == <x, Back(y)>
All projectors in this package satisfy this exactly.
Mixing different algorithms for Forward and Back is permitted
but conjugate gradient then solves an unsymmetric system.
*/
package project

import (
	"fmt"
	"strings"

	"github.com/jvlmdr/fourdcg/geometry"
	"github.com/jvlmdr/fourdcg/volume"
)

// Projector is a pair of linear maps between volumes and projection stacks.
// Implementations must be safe for concurrent use.
type Projector interface {
	// Forward simulates one width x height image for each of the given poses.
	// Images are returned in the order of poses.
	Forward(vol *volume.Volume, geom geometry.Geometry, poses []int, width, height int) (*volume.Stack, error)
	// Back sums the back projection of stack.Images[i] from pose poses[i]
	// into a new volume of the given shape.
	Back(stack *volume.Stack, geom geometry.Geometry, poses []int, shape volume.Shape) (*volume.Volume, error)
}

// Kind enumerates the projectors which can be selected by name.
type Kind int

const (
	KindNearest Kind = iota
	KindLinear
)

var kindNames = map[Kind]string{
	KindNearest: "nearest",
	KindLinear:  "linear",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown projector: %q", s)
}

// New returns the projector of the given kind.
func New(k Kind) (Projector, error) {
	switch k {
	case KindNearest:
		return Nearest{}, nil
	case KindLinear:
		return Linear{}, nil
	}
	return nil, fmt.Errorf("unknown projector: %v", k)
}

func errIfBadStack(stack *volume.Stack, poses []int) error {
	if stack.Len() != len(poses) {
		return fmt.Errorf("%d images for %d poses: %w", stack.Len(), len(poses), volume.ErrDimensionMismatch)
	}
	return stack.Validate()
}

func errIfBadVolume(vol *volume.Volume) error {
	if len(vol.Elems) != vol.Len() {
		return fmt.Errorf("volume has %d elements for shape %v: %w", len(vol.Elems), vol.Shape, volume.ErrDimensionMismatch)
	}
	return nil
}
