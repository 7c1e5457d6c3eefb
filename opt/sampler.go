package opt

import (
	"fmt"
	"math"
)

// LinearTransform maps u ∈ [0,1] onto [lo,hi]
func LinearTransform(lo, hi, u float64) float64 { return lo + u*(hi-lo) }

// LogLinearTransform maps u ∈ [0,1] onto [lo,hi] uniformly in log space, lo > 0
func LogLinearTransform(lo, hi, u float64) float64 {
	return math.Pow(10., LinearTransform(math.Log10(lo), math.Log10(hi), u))
}

// Range of a single parameter. Lo == Hi fixes the parameter.
type Range struct {
	Lo, Hi float64
	Log    bool // sample uniformly in log space
}

// Fixed returns true when the range collapses to a single value.
func (r Range) Fixed() bool { return r.Lo == r.Hi }

// Transform maps u ∈ [0,1] onto the range
func (r Range) Transform(u float64) float64 {
	switch {
	case r.Fixed():
		return r.Lo
	case r.Log:
		return LogLinearTransform(r.Lo, r.Hi, u)
	}
	return LinearTransform(r.Lo, r.Hi, u)
}

// Bounds of a parameter vector
type Bounds []Range

// Validate checks each range is ordered and finite, and log ranges are positive.
func (b Bounds) Validate() error {
	for i, r := range b {
		if math.IsNaN(r.Lo) || math.IsNaN(r.Hi) || math.IsInf(r.Lo, 0) || math.IsInf(r.Hi, 0) {
			return fmt.Errorf("bound %d is not finite", i)
		}
		if r.Lo > r.Hi {
			return fmt.Errorf("bound %d: lower %g exceeds upper %g", i, r.Lo, r.Hi)
		}
		if r.Log && r.Lo <= 0. {
			return fmt.Errorf("bound %d: log-scaled range must be positive", i)
		}
	}
	return nil
}

// Free returns the indices of the parameters that are searched.
func (b Bounds) Free() []int {
	var ix []int
	for i, r := range b {
		if !r.Fixed() {
			ix = append(ix, i)
		}
	}
	return ix
}

// Transform maps a sample over the free dimensions onto a full parameter vector.
func (b Bounds) Transform(u []float64) []float64 {
	x, k := make([]float64, len(b)), 0
	for i, r := range b {
		if r.Fixed() {
			x[i] = r.Lo
			continue
		}
		x[i] = r.Transform(u[k])
		k++
	}
	return x
}
