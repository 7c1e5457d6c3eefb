package hbv

// Output series of a single run, each of length N [mm/d or mm]
type Output struct {
	PET, AET, Snowfall, Inc, Recharge []float64 // daily fluxes
	SWE, Soil, S1, S2, Storage        []float64 // end-of-day states
	Qs, Qi, Qb                        []float64 // runoff components (routed when enabled)
	Qgen                              []float64 // generated runoff before routing
	Q                                 []float64 // discharge
}

func newOutput(nt int) *Output {
	return &Output{
		PET:      make([]float64, nt),
		AET:      make([]float64, nt),
		Snowfall: make([]float64, nt),
		Inc:      make([]float64, nt),
		Recharge: make([]float64, nt),
		SWE:      make([]float64, nt),
		Soil:     make([]float64, nt),
		S1:       make([]float64, nt),
		S2:       make([]float64, nt),
		Storage:  make([]float64, nt),
		Qs:       make([]float64, nt),
		Qi:       make([]float64, nt),
		Qb:       make([]float64, nt),
		Qgen:     make([]float64, nt),
		Q:        make([]float64, nt),
	}
}

func (o *Output) record(j int, s State, f Flux) {
	o.PET[j] = f.PET
	o.AET[j] = f.AET
	o.Snowfall[j] = f.Snowfall
	o.Inc[j] = f.Inc
	o.Recharge[j] = f.Recharge
	o.SWE[j] = s.SWE()
	o.Soil[j] = s.SM
	o.S1[j] = s.SUZ
	o.S2[j] = s.SLZ
	o.Storage[j] = s.Storage()
	o.Qs[j] = f.Qs
	o.Qi[j] = f.Qi
	o.Qb[j] = f.Qb
	o.Qgen[j] = f.Qgen
}
