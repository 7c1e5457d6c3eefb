// Package objfunc holds goodness-of-fit measures of a simulated series s
// against observations o.
package objfunc

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Valid returns the pairs where the observation is finite.
func Valid(o, s []float64) (ov, sv []float64) {
	n := min(len(o), len(s))
	ov, sv = make([]float64, 0, n), make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(o[i]) || math.IsInf(o[i], 0) {
			continue
		}
		ov = append(ov, o[i])
		sv = append(sv, s[i])
	}
	return
}

// NSE Nash-Sutcliffe efficiency
func NSE(o, s []float64) float64 {
	om := stat.Mean(o, nil)
	n, d := 0., 0.
	for i := range o {
		n += (s[i] - o[i]) * (s[i] - o[i])
		d += (o[i] - om) * (o[i] - om)
	}
	if d == 0. {
		return math.NaN()
	}
	return 1. - n/d
}

// KGE Kling-Gupta efficiency (Gupta et al., 2009)
func KGE(o, s []float64) float64 {
	if len(o) < 2 {
		return math.NaN()
	}
	om, os := stat.MeanStdDev(o, nil)
	if om == 0. || os == 0. {
		return math.NaN()
	}
	sm, ss := stat.MeanStdDev(s, nil)
	r := stat.Correlation(o, s, nil)
	a := ss / os
	b := sm / om
	return 1. - math.Sqrt((r-1.)*(r-1.)+(a-1.)*(a-1.)+(b-1.)*(b-1.))
}

// RMSE root-mean-square error
func RMSE(o, s []float64) float64 {
	if len(o) == 0 {
		return math.NaN()
	}
	return floats.Distance(o, s, 2) / math.Sqrt(float64(len(o)))
}

// Bias relative volume error
func Bias(o, s []float64) float64 {
	so := floats.Sum(o)
	if so == 0. {
		return math.NaN()
	}
	return (floats.Sum(s) - so) / so
}

// Scores collected over a single comparison
type Scores struct {
	NSE, KGE, RMSE, Bias float64
}

// Evaluate computes all scores over the pairs with valid observations.
func Evaluate(o, s []float64) Scores {
	ov, sv := Valid(o, s)
	return Scores{
		NSE:  NSE(ov, sv),
		KGE:  KGE(ov, sv),
		RMSE: RMSE(ov, sv),
		Bias: Bias(ov, sv),
	}
}

func (sc Scores) String() string {
	return fmt.Sprintf("KGE: %.3f  NSE: %.3f  RMSE: %.3f  Bias: %.3f", sc.KGE, sc.NSE, sc.RMSE, sc.Bias)
}
