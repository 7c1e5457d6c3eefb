// Package hbv is a lumped daily HBV rainfall-runoff model: a degree-day snow
// routine, a non-linear soil moisture routine and a two-zone groundwater
// response, optionally routed through a triangular weighting function.
// Calibration, Monte Carlo sampling and batch dispatch over independent
// stations are built on top of the pure simulation.
package hbv

// Simulate evaluates a single run of the model.
func Simulate(par *ParameterSet, frc *Forcing, opts Options) (*Output, error) {
	ev, err := NewEvaluator(par, opts)
	if err != nil {
		return nil, err
	}
	return ev.Run(frc)
}

// Discharge returns the simulated discharge [mm/d] of an ordered parameter
// vector, 14 values, or 15 with routing where the last is maxbas.
func Discharge(pars []float64, frc *Forcing, routing bool) ([]float64, error) {
	par, err := FromSlice(pars, routing)
	if err != nil {
		return nil, err
	}
	out, err := Simulate(&par, frc, Options{Routing: routing})
	if err != nil {
		return nil, err
	}
	return out.Q, nil
}
