// Package geometry describes the acquisition poses of a projection stack.
//
// The reconstruction only needs to know how many poses there are.
// Projectors which need more (the gantry angle, for example)
// ask for it through an interface such as Angled.
package geometry

import (
	"fmt"
	"math"
)

// Geometry is a read-only sequence of acquisition poses.
type Geometry interface {
	NumPoses() int
}

// Angled is implemented by geometries which know the gantry angle of each pose.
type Angled interface {
	Geometry
	// GantryAngle returns the angle of pose i in radians.
	GantryAngle(i int) float64
}

// Pose describes one projection of a circular trajectory.
// Angles are in degrees and distances in millimetres.
type Pose struct {
	GantryAngle       float64 `json:"gantryAngle" yaml:"gantryAngle"`
	SourceToIsocenter float64 `json:"sid" yaml:"sid"`
	SourceToDetector  float64 `json:"sdd" yaml:"sdd"`
	ProjOffsetX       float64 `json:"projOffsetX" yaml:"projOffsetX"`
	ProjOffsetY       float64 `json:"projOffsetY" yaml:"projOffsetY"`
	OutOfPlaneAngle   float64 `json:"outOfPlaneAngle" yaml:"outOfPlaneAngle"`
	InPlaneAngle      float64 `json:"inPlaneAngle" yaml:"inPlaneAngle"`
	SourceOffsetX     float64 `json:"sourceOffsetX" yaml:"sourceOffsetX"`
	SourceOffsetY     float64 `json:"sourceOffsetY" yaml:"sourceOffsetY"`
}

// Circular is the geometry of a source and detector rotating about the y axis.
type Circular struct {
	Poses []Pose `json:"poses" yaml:"poses"`
}

// NewCircular creates a geometry with n poses equally spaced over arc degrees,
// starting at first.
func NewCircular(n int, first, arc, sid, sdd float64) *Circular {
	g := &Circular{Poses: make([]Pose, 0, n)}
	for i := 0; i < n; i++ {
		g.AddProjection(Pose{
			GantryAngle:       first + arc*float64(i)/float64(n),
			SourceToIsocenter: sid,
			SourceToDetector:  sdd,
		})
	}
	return g
}

// AddProjection appends a pose.
func (g *Circular) AddProjection(p Pose) {
	g.Poses = append(g.Poses, p)
}

func (g *Circular) NumPoses() int {
	return len(g.Poses)
}

// Pose returns pose i.
func (g *Circular) Pose(i int) Pose {
	return g.Poses[i]
}

func (g *Circular) GantryAngle(i int) float64 {
	return g.Poses[i].GantryAngle * math.Pi / 180
}

// CheckPoses returns an error if any index is outside [0, g.NumPoses()).
func CheckPoses(g Geometry, poses []int) error {
	n := g.NumPoses()
	for _, i := range poses {
		if i < 0 || i >= n {
			return fmt.Errorf("pose index %d out of range [0, %d)", i, n)
		}
	}
	return nil
}
