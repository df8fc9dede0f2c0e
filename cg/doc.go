/*
Package cg solves symmetric positive semi-definite systems by conjugate gradient.

The matrix is never formed. It is given as an Operator on any type
which provides an inner product and scaled addition:
	a := cg.OperatorFunc[*volume.Series](func(ctx context.Context, x *volume.Series) (*volume.Series, error) {
		return op.Apply(ctx, x)
	})
	x, report, err := cg.Solve(ctx, a, b, x0, cg.Options{Iterations: 3})

The number of iterations is fixed by the caller.
Callers who want to stop on a small residual can inspect Report.Residuals.
*/
package cg
