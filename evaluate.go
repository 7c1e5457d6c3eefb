package hbv

import (
	"fmt"

	"github.com/maseology/hbv/gwru"
	"github.com/maseology/hbv/hru"
	"github.com/maseology/hbv/snowpack"
)

// Input of a single day
type Input struct {
	P   float64 // precipitation [mm]
	T   float64 // mean air temperature [°C]
	PET float64 // potential evapotranspiration [mm]
}

// Flux of a single day [mm]
type Flux struct {
	PET, AET      float64
	Snowfall, Inc float64
	Recharge      float64
	Qs, Qi, Qb    float64
	Qgen          float64
}

// Step advances the model one day: snow, then soil moisture, then the
// groundwater response.
func Step(s State, in Input, par *ParameterSet) (State, Flux) {
	f := Flux{PET: in.PET}

	sn, fs := snowpack.Update(s.snow(), in.P, in.T, par.snow())
	s.SP, s.WC = sn.SP, sn.WC
	f.Snowfall, f.Inc = fs.Snowfall, fs.Inc

	s.SM, f.Recharge, f.AET = hru.Update(s.SM, f.Inc, in.PET, sn.Present(), par.soil())

	gw, fg := gwru.Update(s.zones(), f.Recharge, par.response())
	s.SUZ, s.SLZ = gw.SUZ, gw.SLZ
	f.Qs, f.Qi, f.Qb = fg.Qs, fg.Qi, fg.Qb
	f.Qgen = fg.Q()
	return s, f
}

// Evaluate runs the model over the forcing given a potential evapotranspiration
// series ep of equal length. Days before the start index hold the initial
// state and zero fluxes.
func (ev *Evaluator) Evaluate(frc *Forcing, ep []float64) (*Output, error) {
	return ev.evaluate(frc, ep, nil)
}

// evaluate steps through the forcing, calling day (when set) after each day.
func (ev *Evaluator) evaluate(frc *Forcing, ep []float64, day func(j int)) (*Output, error) {
	if err := frc.Validate(); err != nil {
		return nil, err
	}
	nt := frc.Len()
	if len(ep) != nt {
		return nil, fmt.Errorf("%w: potential evaporation length %d, expecting %d", ErrConfig, len(ep), nt)
	}

	out := newOutput(nt)
	s := InitialState(&ev.Par, ev.Opts.SnowSeed)
	for j := 0; j < ev.Opts.Start && j < nt; j++ {
		out.record(j, s, Flux{PET: ep[j]})
		if day != nil {
			day(j)
		}
	}
	for j := ev.Opts.Start; j < nt; j++ {
		var f Flux
		s, f = Step(s, Input{P: frc.P[j], T: frc.Tm[j], PET: ep[j]}, &ev.Par)
		out.record(j, s, f)
		if day != nil {
			day(j)
		}
	}

	if ev.Weights == nil {
		copy(out.Q, out.Qgen)
		return out, nil
	}
	out.Qs = Route(out.Qs, ev.Weights)
	out.Qi = Route(out.Qi, ev.Weights)
	out.Qb = Route(out.Qb, ev.Weights)
	out.Q = Route(out.Qgen, ev.Weights)
	return out, nil
}

// Run computes potential evapotranspiration with the configured provider and
// evaluates the model.
func (ev *Evaluator) Run(frc *Forcing) (*Output, error) {
	if err := frc.Validate(); err != nil {
		return nil, err
	}
	return ev.Evaluate(frc, ev.Opts.PET.Evaporation(frc.T, frc.Tm, frc.Lat, ev.Par.CoeffPET))
}
