package hbv

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestTriangularWeights(t *testing.T) {
	w, err := TriangularWeights(3.)
	require.NoError(t, err)
	require.Len(t, w, 3)
	assert.InDelta(t, 2./9., w[0], 1e-6)
	assert.InDelta(t, 5./9., w[1], 1e-6)
	assert.InDelta(t, 2./9., w[2], 1e-6)

	w, err = TriangularWeights(1.)
	require.NoError(t, err)
	require.Len(t, w, 1)
	assert.InDelta(t, 1., w[0], 1e-12)

	w, err = TriangularWeights(2.5)
	require.NoError(t, err)
	assert.Len(t, w, 3) // partial final day
	assert.InDelta(t, .4/1.25, w[0], 1e-6)
	assert.InDelta(t, .1/1.25, w[2], 1e-6)
}

func TestTriangularWeightsSumToOne(t *testing.T) {
	for _, mb := range []float64{.005, .3, 1., 1.7, 2., 3.33, 5.5, 10.} {
		w, err := TriangularWeights(mb)
		require.NoError(t, err)
		assert.Len(t, w, int(math.Ceil(mb)))
		assert.InDelta(t, 1., floats.Sum(w), 1e-9, "maxbas %g", mb)
		for _, v := range w {
			assert.GreaterOrEqual(t, v, 0.)
		}
	}
}

func TestTriangularWeightsRejectsDegenerateBase(t *testing.T) {
	for _, mb := range []float64{0., -1., .001, math.NaN(), math.Inf(1)} {
		_, err := TriangularWeights(mb)
		assert.True(t, errors.Is(err, ErrConfig), "maxbas %g", mb)
	}
}

func TestRoutePulse(t *testing.T) {
	w, err := TriangularWeights(3.)
	require.NoError(t, err)
	q := Route([]float64{0, 0, 10, 0, 0, 0, 0}, w)
	require.Len(t, q, 7)
	assert.InDelta(t, 10., floats.Sum(q), 1e-9)
	assert.Zero(t, q[0])
	assert.Zero(t, q[1])
	assert.Greater(t, q[2], 0.)
	assert.Greater(t, q[3], q[2])
	assert.Greater(t, q[4], 0.)
	assert.Zero(t, q[5])
	assert.Equal(t, 3, floats.MaxIdx(q))
}

func TestRouteTruncates(t *testing.T) {
	q := Route([]float64{0, 0, 10}, []float64{.25, .5, .25})
	assert.InDeltaSlice(t, []float64{0, 0, 2.5}, q, 1e-12)
}
