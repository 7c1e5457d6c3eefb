// Package hru holds the soil moisture routine of the HBV hydrologic response unit.
package hru

import "math"

// Params : soil moisture parameter set
type Params struct {
	FC   float64 // field capacity, maximum soil moisture storage [mm]
	Beta float64 // shape coefficient of the recharge function [-]
	LP   float64 // fraction of FC above which actual ET equals potential ET [-]
}

// Update adds incoming water inc [mm] to soil moisture sm [mm] and removes
// evapotranspiration given potential ET pet [mm]. ET is suppressed when snow is
// on the ground. Returns the updated soil moisture, recharge and actual ET.
func Update(sm, inc, pet float64, snow bool, par Params) (smNew, rch, aet float64) {
	sm0 := sm
	if inc > 0. {
		sm, rch = infiltrate(sm, inc, par)
	}

	aet = evaporate((sm+sm0)/2., pet, par)
	if snow {
		aet = 0.
	}

	sm -= aet
	if sm < 0. {
		sm = 0.
	}
	return sm, rch, aet
}

// infiltrate applies water in 1mm increments followed by the fractional
// remainder to limit error from the non-linear partitioning function.
func infiltrate(sm, inc float64, par Params) (float64, float64) {
	rch := 0.
	n := math.Floor(inc)
	y := inc - n
	for i := 0; i < int(n); i++ {
		dqdp := fraction(sm, par)
		sm += 1. - dqdp
		rch += dqdp
	}
	dqdp := fraction(sm, par)
	sm += y - dqdp*y
	rch += dqdp * y
	return sm, rch
}

// fraction of input water becoming recharge, (sm/fc)^beta, at most 1
func fraction(sm float64, par Params) float64 {
	f := math.Pow(sm/par.FC, par.Beta)
	if f > 1. {
		return 1.
	}
	return f
}

func evaporate(smavg, pet float64, par Params) float64 {
	lpfc := par.LP * par.FC
	if smavg < lpfc {
		return pet * smavg / lpfc // linear decay below the wilting threshold
	}
	return pet
}
