package geometry

import (
	"math"
	"testing"
)

func TestNewCircular(t *testing.T) {
	g := NewCircular(4, 10, 360, 1000, 1500)
	if g.NumPoses() != 4 {
		t.Fatalf("want 4 poses, got %d", g.NumPoses())
	}
	want := []float64{10, 100, 190, 280}
	for i, deg := range want {
		if got := g.Pose(i).GantryAngle; got != deg {
			t.Errorf("pose %d: want %g degrees, got %g", i, deg, got)
		}
		if got := g.GantryAngle(i); math.Abs(got-deg*math.Pi/180) > 1e-12 {
			t.Errorf("pose %d: want %g radians, got %g", i, deg*math.Pi/180, got)
		}
	}
	if g.Pose(3).SourceToDetector != 1500 {
		t.Errorf("distance not recorded: %+v", g.Pose(3))
	}
}

func TestCheckPoses(t *testing.T) {
	g := NewCircular(3, 0, 180, 1000, 1500)
	if err := CheckPoses(g, []int{0, 2}); err != nil {
		t.Error(err)
	}
	if err := CheckPoses(g, []int{0, 3}); err == nil {
		t.Error("expected error for index 3")
	}
	if err := CheckPoses(g, []int{-1}); err == nil {
		t.Error("expected error for index -1")
	}
}
