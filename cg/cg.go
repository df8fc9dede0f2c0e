package cg

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// Vector is the set of operations conjugate gradient needs from its iterates.
// AddScaled and Scale modify the receiver.
type Vector[V any] interface {
	Dot(V) float64
	AddScaled(alpha float64, v V)
	Scale(k float64)
	Clone() V
}

// Operator is a linear map.
// For conjugate gradient to converge it must be symmetric
// and positive semi-definite.
// Apply must not modify its argument.
type Operator[V any] interface {
	Apply(ctx context.Context, x V) (V, error)
}

// OperatorFunc adapts a function to the Operator interface.
type OperatorFunc[V any] func(ctx context.Context, x V) (V, error)

func (f OperatorFunc[V]) Apply(ctx context.Context, x V) (V, error) {
	return f(ctx, x)
}

// Step describes one completed iteration.
type Step struct {
	Iteration int
	// Norm of the residual after the iteration.
	Residual float64
	Alpha    float64
	Beta     float64
	Elapsed  time.Duration
}

// Monitor observes the progress of a solve.
type Monitor interface {
	Step(Step)
}

type Options struct {
	// Number of iterations. The solver never stops early on a small residual.
	Iterations int
	// Defaults to slog.Default().
	Logger *slog.Logger
	// Optional.
	Monitor Monitor
}

// Report records the progress of a solve.
type Report struct {
	// Number of iterations completed.
	Iterations int
	// Residuals[k] is the norm of the residual after k iterations.
	Residuals []float64
	Steps     []Step
	// Set if the search direction was annihilated by the operator
	// before the iteration budget was spent.
	EarlyStop bool
	Elapsed   time.Duration
}

// Solve approximates the solution of A x = b by conjugate gradient,
// starting from x0, for a fixed number of iterations.
//
// The initial guess is not modified.
// Cancellation of ctx is checked once before each iteration;
// an iteration which has started always runs to completion.
// If the solve is interrupted by cancellation or by a failure of the operator,
// the last complete estimate is returned along with the error.
func Solve[V Vector[V]](ctx context.Context, a Operator[V], b, x0 V, opts Options) (V, *Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	report := new(Report)
	defer func() { report.Elapsed = time.Since(start) }()

	x := x0.Clone()
	if opts.Iterations <= 0 {
		return x, report, nil
	}
	if err := ctx.Err(); err != nil {
		return x, report, fmt.Errorf("cg: stopped before first iteration: %w", err)
	}
	// The operator is never interrupted.
	actx := context.WithoutCancel(ctx)

	ax, err := a.Apply(actx, x)
	if err != nil {
		return x, report, &OperatorError{Iteration: -1, Err: err}
	}
	r := b.Clone()
	r.AddScaled(-1, ax)
	p := r.Clone()
	rr := r.Dot(r)
	report.Residuals = append(report.Residuals, math.Sqrt(rr))
	logger.Debug("cg: initial residual", "residual", math.Sqrt(rr))

	for k := 0; k < opts.Iterations; k++ {
		if err := ctx.Err(); err != nil {
			return x, report, fmt.Errorf("cg: stopped before iteration %d: %w", k, err)
		}
		t := time.Now()
		q, err := a.Apply(actx, p)
		if err != nil {
			return x, report, &OperatorError{Iteration: k, Err: err}
		}
		pq := p.Dot(q)
		if pq == 0 {
			// Stationary point: the search direction is in the null space.
			logger.Debug("cg: zero curvature, stopping", "iter", k)
			report.EarlyStop = true
			break
		}
		alpha := rr / pq
		x.AddScaled(alpha, p)
		r.AddScaled(-alpha, q)
		next := r.Dot(r)
		beta := next / rr
		p.Scale(beta)
		p.AddScaled(1, r)
		rr = next

		step := Step{
			Iteration: k,
			Residual:  math.Sqrt(rr),
			Alpha:     alpha,
			Beta:      beta,
			Elapsed:   time.Since(t),
		}
		report.Iterations++
		report.Residuals = append(report.Residuals, step.Residual)
		report.Steps = append(report.Steps, step)
		if opts.Monitor != nil {
			opts.Monitor.Step(step)
		}
		logger.Debug("cg: iteration",
			"iter", k,
			"residual", step.Residual,
			"alpha", alpha,
			"beta", beta,
			"elapsed", step.Elapsed,
		)
	}
	return x, report, nil
}
