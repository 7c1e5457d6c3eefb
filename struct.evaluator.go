package hbv

import (
	"fmt"

	"github.com/maseology/hbv/pet"
)

// Options of a model run
type Options struct {
	Routing  bool         // apply the triangular weighting function to generated runoff
	Start    int          // index of the first simulated day (0 or 1)
	SnowSeed float64      // initial snowpack [mm]
	PET      pet.Provider // defaults to pet.Hamon
}

// Evaluator holds a validated parameter set and its derived routing weights.
// It carries no run state and may be shared by concurrent evaluations.
type Evaluator struct {
	Par     ParameterSet
	Weights []float64 // nil when routing is disabled
	Opts    Options
}

// CheckAndPrint writes the evaluator configuration.
func (ev *Evaluator) CheckAndPrint() {
	fmt.Println("Evaluator summary:")
	for i, v := range ev.Par.Slice(ev.Opts.Routing) {
		fmt.Printf(" %10s: %.4f\n", ParameterNames[i], v)
	}
	fmt.Printf(" start index %d, initial snowpack %.1fmm\n", ev.Opts.Start, ev.Opts.SnowSeed)
	if ev.Weights != nil {
		fmt.Printf(" routing weights: %.4f\n", ev.Weights)
	}
}
