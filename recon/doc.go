/*
Package recon reconstructs a respiratory-correlated (4D) volume series
from a single stack of projections.

Each projection is assigned to one or more phases by a weights.Matrix.
The reconstruction minimizes
	sum over m of | Y[m] - sum over p of W[m][p] F_m x[p] |^2
by conjugate gradient on the normal equations.

To reconstruct ten phases from a respiratory signal:
	w, err := weights.FromPhases(signal, 10)
	if err != nil {
		return err
	}
	prob := &recon.Problem{Projections: stack, Geometry: geom, Weights: w}
	opts := recon.DefaultOptions()
	opts.Shape = volume.Shape{Width: 128, Height: 128, Depth: 128}
	x, result, err := recon.Reconstruct(ctx, prob, nil, opts)
*/
package recon
