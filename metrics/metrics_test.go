package metrics

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/jvlmdr/fourdcg/cg"
	"github.com/jvlmdr/fourdcg/geometry"
	"github.com/jvlmdr/fourdcg/recon"
	"github.com/jvlmdr/fourdcg/volume"
	"github.com/jvlmdr/fourdcg/weights"
)

func TestMonitor_Step(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMonitor(reg, "test")
	if err != nil {
		t.Fatal(err)
	}
	m.Step(cg.Step{Iteration: 0, Residual: 4, Elapsed: 20 * time.Millisecond})
	m.Step(cg.Step{Iteration: 1, Residual: 0.5, Elapsed: 30 * time.Millisecond})

	if got := testutil.ToFloat64(m.Iterations); got != 2 {
		t.Errorf("iterations: want 2, got %g", got)
	}
	if got := testutil.ToFloat64(m.Residual); got != 0.5 {
		t.Errorf("residual: want 0.5, got %g", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, mf := range families {
		if mf.GetName() != "test_cg_iteration_duration_seconds" {
			continue
		}
		found = true
		if n := mf.GetMetric()[0].GetHistogram().GetSampleCount(); n != 2 {
			t.Errorf("histogram: want 2 samples, got %d", n)
		}
	}
	if !found {
		t.Error("iteration duration histogram not registered")
	}
}

func TestMonitor_ObserveResult(t *testing.T) {
	m, err := NewMonitor(prometheus.NewRegistry(), "test")
	if err != nil {
		t.Fatal(err)
	}
	m.ObserveResult(&recon.Result{RHSTime: 2 * time.Second, SolveTime: 500 * time.Millisecond})
	if got := testutil.ToFloat64(m.StageDuration.WithLabelValues("rhs")); got != 2 {
		t.Errorf("rhs: want 2, got %g", got)
	}
	if got := testutil.ToFloat64(m.StageDuration.WithLabelValues("solve")); got != 0.5 {
		t.Errorf("solve: want 0.5, got %g", got)
	}
}

func TestNewMonitor_duplicate(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewMonitor(reg, "test"); err != nil {
		t.Fatal(err)
	}
	if _, err := NewMonitor(reg, "test"); err == nil {
		t.Error("expected error registering twice")
	}
}

func TestSaveResidualPlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "residual.png")
	report := &cg.Report{Iterations: 3, Residuals: []float64{10, 3, 0.4, 0.01}}
	if err := SaveResidualPlot(path, report); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != plotWidth || cfg.Height != plotHeight {
		t.Errorf("want %dx%d, got %dx%d", plotWidth, plotHeight, cfg.Width, cfg.Height)
	}
}

func TestSaveResidualPlot_empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "residual.png")
	if err := SaveResidualPlot(path, &cg.Report{}); err == nil {
		t.Error("expected error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file created for empty report")
	}
}

func TestMonitor_reconstruct(t *testing.T) {
	m, err := NewMonitor(prometheus.NewRegistry(), "test")
	if err != nil {
		t.Fatal(err)
	}
	stack := volume.NewStack(2, 4, 2)
	for n, im := range stack.Images {
		for i := range im.Elems {
			im.Elems[i] = float64(n + i)
		}
	}
	prob := &recon.Problem{
		Projections: stack,
		Geometry:    geometry.NewCircular(2, 0, 180, 1000, 1500),
		Weights:     &weights.Matrix{Rows: [][]float64{{1}, {1}}},
	}
	opts := recon.DefaultOptions()
	opts.Iterations = 2
	opts.Shape = volume.Shape{Width: 3, Height: 2, Depth: 3}
	opts.Monitor = m
	_, result, err := recon.Reconstruct(context.Background(), prob, nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	m.ObserveResult(result)

	if got, want := testutil.ToFloat64(m.Iterations), float64(result.Report.Iterations); got != want {
		t.Errorf("iterations: want %g, got %g", want, got)
	}
	res := result.Report.Residuals
	if got := testutil.ToFloat64(m.Residual); got != res[len(res)-1] {
		t.Errorf("residual: want %g, got %g", res[len(res)-1], got)
	}
	path := filepath.Join(t.TempDir(), "residual.png")
	if err := SaveResidualPlot(path, result.Report); err != nil {
		t.Fatal(err)
	}
}
