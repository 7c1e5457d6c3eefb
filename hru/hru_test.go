package hru

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var par = Params{FC: 200., Beta: 2., LP: .7}

func TestUpdateNoInput(t *testing.T) {
	sm, rch, aet := Update(200., 0., 3., false, par)
	assert.Zero(t, rch)
	assert.InDelta(t, 3., aet, 1e-12)
	assert.InDelta(t, 197., sm, 1e-12)
}

func TestUpdateFractionalInput(t *testing.T) {
	// below 1mm the input is applied once
	sm, rch, _ := Update(100., .5, 0., false, par)
	f := math.Pow(.5, 2.)
	assert.InDelta(t, .5*f, rch, 1e-12)
	assert.InDelta(t, 100.+.5-.5*f, sm, 1e-12)
}

func TestUpdateIncrementalInput(t *testing.T) {
	sm, rch, _ := Update(100., 2.5, 0., false, par)

	s, r := 100., 0.
	for i := 0; i < 2; i++ {
		f := math.Pow(s/200., 2.)
		s += 1. - f
		r += f
	}
	f := math.Pow(s/200., 2.)
	s += .5 - .5*f
	r += .5 * f

	assert.InDelta(t, s, sm, 1e-12)
	assert.InDelta(t, r, rch, 1e-12)
	assert.InDelta(t, 2.5, (sm-100.)+rch, 1e-12) // input conserved
}

func TestUpdateSaturatedSoilRecharges(t *testing.T) {
	// storage above capacity clamps the recharge fraction to 1
	sm, rch, _ := Update(210., 5.3, 0., false, par)
	assert.InDelta(t, 210., sm, 1e-12)
	assert.InDelta(t, 5.3, rch, 1e-12)
}

func TestUpdateEvaporationBelowThreshold(t *testing.T) {
	sm, _, aet := Update(70., 0., 4., false, par) // lp*fc = 140
	assert.InDelta(t, 4.*70./140., aet, 1e-12)
	assert.InDelta(t, 68., sm, 1e-12)
}

func TestUpdateSnowSuppressesEvaporation(t *testing.T) {
	sm, _, aet := Update(150., 0., 4., true, par)
	assert.Zero(t, aet)
	assert.InDelta(t, 150., sm, 1e-12)
}

func TestUpdateFloorsAtZero(t *testing.T) {
	p := Params{FC: 10., Beta: 1., LP: .01}
	sm, _, aet := Update(.5, 0., 20., false, p)
	assert.InDelta(t, 20., aet, 1e-12)
	assert.Zero(t, sm)
}

func TestUpdateCeiling(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 5000; i++ {
		p := Params{
			FC:   1. + rng.Float64()*500.,
			Beta: 1. + rng.Float64()*6.,
			LP:   .3 + rng.Float64()*.7,
		}
		sm0 := rng.Float64() * p.FC * 1.2
		inc := rng.Float64() * 300.
		sm, rch, aet := Update(sm0, inc, rng.Float64()*6., false, p)
		require.LessOrEqual(t, sm, math.Max(sm0, p.FC)+1.)
		require.GreaterOrEqual(t, sm, 0.)
		require.GreaterOrEqual(t, rch, 0.)
		require.GreaterOrEqual(t, aet, 0.)
	}
}
