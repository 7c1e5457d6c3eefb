package objfunc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var obs = []float64{1, 3, 2, 5, 4, 6}

func TestPerfectFit(t *testing.T) {
	sc := Evaluate(obs, obs)
	assert.InDelta(t, 1., sc.NSE, 1e-12)
	assert.InDelta(t, 1., sc.KGE, 1e-12)
	assert.InDelta(t, 0., sc.RMSE, 1e-12)
	assert.InDelta(t, 0., sc.Bias, 1e-12)
}

func TestMeanPredictor(t *testing.T) {
	s := make([]float64, len(obs))
	for i := range s {
		s[i] = 3.5
	}
	assert.InDelta(t, 0., NSE(obs, s), 1e-12)
	assert.InDelta(t, 0., Bias(obs, s), 1e-12)
}

func TestRMSEAndBias(t *testing.T) {
	o := []float64{1, 1, 1, 1}
	s := []float64{2, 2, 2, 2}
	assert.InDelta(t, 1., RMSE(o, s), 1e-12)
	assert.InDelta(t, 1., Bias(o, s), 1e-12)
}

func TestValidDropsMissing(t *testing.T) {
	o := []float64{1, math.NaN(), 3, math.NaN()}
	s := []float64{1, 2, 3, 4}
	ov, sv := Valid(o, s)
	assert.Equal(t, []float64{1, 3}, ov)
	assert.Equal(t, []float64{1, 3}, sv)

	sc := Evaluate(o, s)
	assert.InDelta(t, 1., sc.NSE, 1e-12)
}

func TestConstantObservations(t *testing.T) {
	assert.True(t, math.IsNaN(NSE([]float64{2, 2, 2}, []float64{1, 2, 3})))
}

func TestZeroObservedVolume(t *testing.T) {
	s := []float64{1, 2, 3}
	assert.True(t, math.IsNaN(KGE([]float64{0, 0, 0}, s)))
	assert.True(t, math.IsNaN(KGE([]float64{2, 2, 2}, s)))
	assert.True(t, math.IsNaN(KGE([]float64{-1, 0, 1}, s)))
	assert.True(t, math.IsNaN(KGE(nil, nil)))
	assert.True(t, math.IsNaN(Bias([]float64{0, 0, 0}, s)))
	assert.True(t, math.IsNaN(Bias(nil, nil)))

	sc := Evaluate([]float64{0, 0, 0}, s)
	assert.True(t, math.IsNaN(sc.KGE))
	assert.True(t, math.IsNaN(sc.Bias))
	assert.InDelta(t, math.Sqrt(14./3.), sc.RMSE, 1e-12)
}
