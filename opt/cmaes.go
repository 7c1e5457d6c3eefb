package opt

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"

	"gonum.org/v1/gonum/optimize"
)

// CMAES covariance matrix adaptation evolution strategy. Samples leaving the
// unit hypercube are mirrored back inside before evaluation. Once the strategy
// stagnates, or has used three quarters of the budget, the best sample is
// refined by Nelder-Mead with the evaluations left.
type CMAES struct {
	Population     int     // 0: 4+3ln(n)
	StepSize       float64 // initial step size, 0: .3
	MaxEvaluations int     // 0: unlimited
	Concurrency    int     // 0: GOMAXPROCS
	Seed           uint64
}

// Minimize implements Minimizer
func (c CMAES) Minimize(ctx context.Context, f func(u []float64) float64, ndim int) (Result, error) {
	step := c.StepSize
	if step <= 0. {
		step = .3
	}
	method := &optimize.CmaEsChol{
		InitStepSize: step,
		Population:   c.Population,
		Src:          rand.NewPCG(c.Seed, c.Seed^0x9e3779b97f4a7c15),
	}
	conc := c.Concurrency
	if conc <= 0 {
		conc = runtime.GOMAXPROCS(0)
	}
	res, err := minimize(ctx, method, f, center(ndim), &optimize.Settings{
		FuncEvaluations: c.MaxEvaluations - c.MaxEvaluations/4, // a quarter is kept for refinement
		Concurrent:      conc,
		Converger:       &optimize.FunctionConverge{Absolute: 1e-10, Relative: 1e-8, Iterations: 100},
	})
	if err != nil {
		return Result{}, err
	}

	// polish the best sample with the remaining evaluations
	left := c.MaxEvaluations - res.Evaluations
	if c.MaxEvaluations > 0 && left <= ndim+1 {
		return res, nil
	}
	if c.MaxEvaluations <= 0 {
		left = 0
	}
	pol, err := minimize(ctx, &optimize.NelderMead{SimplexSize: polishSimplex}, f, res.U, &optimize.Settings{
		FuncEvaluations: left,
		Converger:       &optimize.FunctionConverge{Absolute: 1e-12, Iterations: 200},
	})
	if err != nil {
		return Result{}, err
	}
	pol.Evaluations += res.Evaluations
	if res.F < pol.F {
		pol.U, pol.F = res.U, res.F
	}
	return pol, nil
}

const polishSimplex = .02 // initial simplex of the local refinement

// minimize runs a gonum method from x0 over the mirrored objective, stopping
// when ctx is done.
func minimize(ctx context.Context, method optimize.Method, f func(u []float64) float64, x0 []float64, settings *optimize.Settings) (Result, error) {
	if len(x0) == 0 {
		return Result{}, fmt.Errorf("opt: dimension must be positive")
	}
	g := guarded(f)
	prob := optimize.Problem{
		Func: func(x []float64) float64 { return g(mirrored(x)) },
		Status: func() (optimize.Status, error) {
			if err := ctx.Err(); err != nil {
				return optimize.Failure, err
			}
			return optimize.NotTerminated, nil
		},
	}
	res, err := optimize.Minimize(prob, x0, settings, method)
	if cerr := ctx.Err(); cerr != nil {
		return Result{}, cerr
	}
	if err != nil {
		return Result{}, fmt.Errorf("opt: %w", err)
	}
	return Result{
		U:           mirrored(res.X),
		F:           res.F,
		Evaluations: res.FuncEvaluations,
	}, nil
}
