package hbv

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

const routeStep = .005 // triangle sampling interval [d]

// TriangularWeights returns the daily unit hydrograph of a symmetric triangle
// with base maxbas [d] peaking at maxbas/2. Day j collects the triangle area
// over (j, j+1]; a non-integer base leaves a final partial day. Weights sum to 1.
func TriangularWeights(maxbas float64) ([]float64, error) {
	if math.IsNaN(maxbas) || math.IsInf(maxbas, 0) || maxbas < routeStep {
		return nil, fmt.Errorf("%w: maxbas must be at least %g, got %g", ErrConfig, routeStep, maxbas)
	}
	half := maxbas / 2.
	tri := func(x float64) float64 {
		if x <= half {
			return x / half
		}
		return (maxbas - x) / half
	}

	nb := int(math.Ceil(maxbas - 1e-12))
	w := make([]float64, nb)
	for j := 0; j < nb; j++ {
		lo, hi := float64(j), math.Min(float64(j+1), maxbas)
		var xs, fs []float64
		for k := 0; ; k++ {
			x := lo + float64(k)*routeStep
			if x >= hi-1e-12 {
				break
			}
			xs = append(xs, x)
			fs = append(fs, tri(x))
		}
		if lo < half && half < hi { // keep the apex exact
			i := len(xs)
			for i > 0 && xs[i-1] > half {
				i--
			}
			if xs[i-1] != half {
				xs = append(xs[:i], append([]float64{half}, xs[i:]...)...)
				fs = append(fs[:i], append([]float64{1.}, fs[i:]...)...)
			}
		}
		xs = append(xs, hi)
		fs = append(fs, tri(hi))
		w[j] = integrate.Trapezoidal(xs, fs)
	}

	s := floats.Sum(w)
	if s <= 0. {
		return nil, fmt.Errorf("%w: degenerate routing weights for maxbas %g", ErrConfig, maxbas)
	}
	floats.Scale(1./s, w)
	return w, nil
}

// Route convolves q with the weights w, truncated to the length of q.
func Route(q, w []float64) []float64 {
	out := make([]float64, len(q))
	for t := range q {
		for k := 0; k < len(w) && k <= t; k++ {
			out[t] += w[k] * q[t-k]
		}
	}
	return out
}
