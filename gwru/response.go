// Package gwru is the groundwater response routine: an upper zone with a
// shallow-flow threshold draining by percolation into a linear lower zone.
package gwru

import "math"

// Params of the response routine
type Params struct {
	K0   float64 // recession constant, upper zone above UZL (shallow flow) [1/d]
	K1   float64 // recession constant, upper zone (interflow) [1/d]
	K2   float64 // recession constant, lower zone (baseflow) [1/d]
	UZL  float64 // upper zone threshold for shallow flow [mm]
	Perc float64 // maximum percolation rate from upper to lower zone [mm/d]
}

// State of the two zones
type State struct {
	SUZ float64 // upper zone storage [mm]
	SLZ float64 // lower zone storage [mm]
}

// Flux generated over one step [mm/d]
type Flux struct {
	Perc       float64
	Qs, Qi, Qb float64 // shallow flow, interflow, baseflow
}

// Q total generated flow
func (f Flux) Q() float64 { return f.Qs + f.Qi + f.Qb }

// Update adds recharge g [mm] to the upper zone, percolates, then drains both zones.
func Update(s State, g float64, par Params) (State, Flux) {
	var f Flux
	s.SUZ += g
	if s.SUZ < par.Perc { // entire upper zone percolates
		f.Perc = s.SUZ
	} else {
		f.Perc = par.Perc
	}
	s.SUZ -= f.Perc
	s.SLZ += f.Perc

	if s.SUZ > par.UZL {
		f.Qs = (s.SUZ - par.UZL) * par.K0
	}
	f.Qi = s.SUZ * par.K1
	if q := f.Qs + f.Qi; q > s.SUZ { // K0+K1 > 1 drains at most the zone content
		r := s.SUZ / q
		f.Qs *= r
		f.Qi *= r
	}
	f.Qb = math.Min(s.SLZ*par.K2, s.SLZ)

	s.SUZ = math.Max(s.SUZ-f.Qs-f.Qi, 0.)
	s.SLZ = math.Max(s.SLZ-f.Qb, 0.)
	return s, f
}
