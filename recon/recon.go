package recon

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jvlmdr/fourdcg/cg"
	"github.com/jvlmdr/fourdcg/logger"
	"github.com/jvlmdr/fourdcg/project"
	"github.com/jvlmdr/fourdcg/volume"
)

// DefaultIterations is the number of conjugate gradient iterations
// used by DefaultOptions.
const DefaultIterations = 3

// Options configures Reconstruct.
type Options struct {
	// Number of conjugate gradient iterations. Zero returns the initial volume.
	Iterations int
	// Forward and back projectors. Both are required.
	Forward, Back project.Projector
	// Maximum number of phases projected concurrently.
	// Zero means GOMAXPROCS.
	Workers int
	// Shape of each phase. Required if no initial volume is given,
	// otherwise checked against it if any extent is set.
	Shape volume.Shape
	// Defaults to the default logger tagged with component "recon".
	Logger *slog.Logger
	// Optional.
	Monitor cg.Monitor
}

// DefaultOptions uses the nearest-neighbour projector in both directions.
func DefaultOptions() Options {
	return Options{
		Iterations: DefaultIterations,
		Forward:    project.Nearest{},
		Back:       project.Nearest{},
	}
}

// Result describes a reconstruction.
type Result struct {
	RunID  string
	Report *cg.Report
	// Time taken to back project the measured data.
	RHSTime time.Duration
	// Time taken by conjugate gradient.
	SolveTime time.Duration
}

// PrintTiming writes the time spent in each stage.
func (r *Result) PrintTiming(w io.Writer) {
	fmt.Fprintf(w, "4D conjugate gradient reconstruction %s:\n", r.RunID)
	fmt.Fprintf(w, "  back projection of measured data: %v\n", r.RHSTime)
	fmt.Fprintf(w, "  conjugate gradient: %v", r.SolveTime)
	if r.Report != nil {
		fmt.Fprintf(w, " (%d iterations)", r.Report.Iterations)
	}
	fmt.Fprintln(w)
}

// Reconstruct solves for the volume series whose projections, weighted over
// phases, best match the measured projections.
//
// If x0 is nil, the reconstruction starts from zero.
// Every dimension and weight is checked before any projection is performed.
// If the solve is interrupted after it starts, the last complete estimate
// is returned with the error.
func Reconstruct(ctx context.Context, prob *Problem, x0 *volume.Series, opts Options) (*volume.Series, *Result, error) {
	result := &Result{RunID: uuid.NewString()}
	log := opts.Logger
	if log == nil {
		log = logger.WithComponent("recon")
	}
	log = log.With("run_id", result.RunID)

	if opts.Forward == nil || opts.Back == nil {
		return nil, result, fmt.Errorf("forward and back projectors are required")
	}
	if prob == nil || prob.Weights == nil {
		return nil, result, fmt.Errorf("incomplete problem: weights are required")
	}
	if x0 == nil || opts.Shape.Sized() {
		if err := opts.Shape.Validate(); err != nil {
			return nil, result, err
		}
	}
	if x0 == nil {
		x0 = volume.NewSeries(prob.Phases(), opts.Shape)
	}
	if err := prob.Validate(x0); err != nil {
		return nil, result, err
	}
	shape := x0.Shape()
	if opts.Shape.Sized() && !shape.Congruent(opts.Shape) {
		return nil, result, fmt.Errorf("initial volume is %v, want %v: %w", shape, opts.Shape, ErrDimensionMismatch)
	}
	log.Info("4D reconstruction",
		"projections", prob.Projections.Len(),
		"phases", x0.Len(),
		"volume", shape.String(),
		"iterations", opts.Iterations,
	)

	start := time.Now()
	b, err := BuildRHS(ctx, prob, opts.Back, shape, opts.Workers)
	result.RHSTime = time.Since(start)
	if err != nil {
		return nil, result, err
	}
	log.Info("back projected measured data", "elapsed", result.RHSTime)

	op := &Operator{
		Problem: prob,
		Forward: opts.Forward,
		Back:    opts.Back,
		Workers: opts.Workers,
	}
	start = time.Now()
	x, report, err := cg.Solve[*volume.Series](ctx, op, b, x0, cg.Options{
		Iterations: opts.Iterations,
		Logger:     log,
		Monitor:    opts.Monitor,
	})
	result.SolveTime = time.Since(start)
	result.Report = report
	if err != nil {
		log.Error("conjugate gradient stopped", "iterations", report.Iterations, "err", err)
		return x, result, err
	}
	attrs := []any{"iterations", report.Iterations, "elapsed", result.SolveTime}
	if n := len(report.Residuals); n > 0 {
		attrs = append(attrs, "residual", report.Residuals[n-1])
	}
	log.Info("conjugate gradient done", attrs...)
	return x, result, nil
}
