package hbv

import (
	"github.com/maseology/hbv/gwru"
	"github.com/maseology/hbv/snowpack"
)

// State of the lumped model storages [mm]
type State struct {
	SP  float64 // snowpack
	WC  float64 // liquid water in the snowpack
	SM  float64 // soil moisture
	SUZ float64 // upper groundwater zone
	SLZ float64 // lower groundwater zone
}

// InitialState of a run: snowpack seeded with sp, soil at field capacity, empty
// groundwater zones.
func InitialState(par *ParameterSet, sp float64) State {
	return State{SP: sp, SM: par.FC}
}

// SWE snow water equivalent
func (s State) SWE() float64 { return s.SP + s.WC }

// Storage total water held [mm]
func (s State) Storage() float64 { return s.SP + s.WC + s.SM + s.SUZ + s.SLZ }

func (s State) snow() snowpack.State { return snowpack.State{SP: s.SP, WC: s.WC} }

func (s State) zones() gwru.State { return gwru.State{SUZ: s.SUZ, SLZ: s.SLZ} }
