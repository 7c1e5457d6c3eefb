// Package opt holds black-box minimizers searching the unit hypercube.
// Objective functions receive samples u ∈ [0,1]^n and are mapped onto model
// parameters by the caller, typically through Bounds.
package opt

import (
	"context"
	"math"
)

// Minimizer searches [0,1]^ndim for the minimum of f. Implementations may call f
// concurrently.
type Minimizer interface {
	Minimize(ctx context.Context, f func(u []float64) float64, ndim int) (Result, error)
}

// Result of a search
type Result struct {
	U           []float64 // best sample
	F           float64   // objective at U
	Evaluations int
}

// Mirror reflects x back into [0,1].
func Mirror(x float64) float64 {
	x = math.Mod(math.Abs(x), 2.)
	if x > 1. {
		return 2. - x
	}
	return x
}

func mirrored(u []float64) []float64 {
	m := make([]float64, len(u))
	for i, v := range u {
		m[i] = Mirror(v)
	}
	return m
}

func center(ndim int) []float64 {
	u := make([]float64, max(ndim, 0))
	for i := range u {
		u[i] = .5
	}
	return u
}

const worst = 1e300 // objective assigned to failed evaluations

// objective that replaces non-finite values with the worst outcome
func guarded(f func(u []float64) float64) func(u []float64) float64 {
	return func(u []float64) float64 {
		if v := f(u); !math.IsNaN(v) && v < worst {
			return v
		}
		return worst
	}
}
