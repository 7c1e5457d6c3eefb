// Package snowpack is the degree-day snow routine of the HBV model.
package snowpack

// Params of the snow routine
type Params struct {
	TT    float64 // threshold temperature [°C]
	SFCF  float64 // snowfall correction factor [-]
	CFMax float64 // degree-day factor [mm/°C/d]
	CFR   float64 // refreezing coefficient [-]
	CWH   float64 // water holding capacity of the snowpack [-]
}

// State of the snowpack
type State struct {
	SP float64 // snowpack depth (as water equivalent) [mm]
	WC float64 // liquid water held in the snowpack [mm]
}

// SWE snow water equivalent
func (s State) SWE() float64 { return s.SP + s.WC }

// Present returns true when any snow or snowpack water remains on the ground.
func (s State) Present() bool { return s.SP+s.WC > 0. }

// Flux of a single snow update
type Flux struct {
	Inc      float64 // water released to the soil (rainfall + melt) [mm]
	Snowfall float64 // corrected snowfall added to the pack [mm]
	Melt     float64 // [mm]
	Refreeze float64 // [mm]
}

// Update partitions precipitation p [mm] given temperature t [°C], then melts or
// refreezes against the already updated pack. Returns the new state and the
// water made available to the soil.
func Update(s State, p, t float64, par Params) (State, Flux) {
	var f Flux
	if s.SP <= 0. {
		if t > par.TT {
			f.Inc = p // too warm, input is rain
		} else {
			s.SP = p * par.SFCF
			f.Snowfall = s.SP
		}
		return s, f
	}

	if p > 0. {
		if t > par.TT {
			s.WC += p
		} else {
			f.Snowfall = p * par.SFCF
			s.SP += f.Snowfall
		}
	}

	if t > par.TT {
		melt := par.CFMax * (t - par.TT)
		if melt > s.SP { // entire pack released
			f.Melt = s.SP
			f.Inc = s.SP + s.WC
			return State{}, f
		}
		f.Melt = melt
		s.SP -= melt
		s.WC += melt
	} else {
		refreeze := par.CFR * par.CFMax * (par.TT - t)
		if refreeze > s.WC {
			refreeze = s.WC
		}
		f.Refreeze = refreeze
		s.SP += refreeze
		s.WC -= refreeze
	}

	if whc := par.CWH * s.SP; s.WC > whc {
		f.Inc = s.WC - whc
		s.WC = whc
	}
	return s, f
}
