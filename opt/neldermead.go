package opt

import (
	"context"

	"gonum.org/v1/gonum/optimize"
)

// NelderMead downhill simplex started from the centre of the hypercube. Used
// for local refinement and low-dimensional problems.
type NelderMead struct {
	SimplexSize    float64 // 0: .25
	MaxEvaluations int
}

// Minimize implements Minimizer
func (n NelderMead) Minimize(ctx context.Context, f func(u []float64) float64, ndim int) (Result, error) {
	sz := n.SimplexSize
	if sz <= 0. {
		sz = .25
	}
	return minimize(ctx, &optimize.NelderMead{SimplexSize: sz}, f, center(ndim), &optimize.Settings{
		FuncEvaluations: n.MaxEvaluations,
		Converger:       &optimize.FunctionConverge{Absolute: 1e-10, Iterations: 200},
	})
}
