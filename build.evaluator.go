package hbv

import (
	"fmt"
	"math"

	"github.com/maseology/hbv/pet"
)

// NewEvaluator validates the parameter set and options and derives the routing
// weights. All configuration errors wrap ErrConfig.
func NewEvaluator(par *ParameterSet, opts Options) (*Evaluator, error) {
	if par == nil {
		return nil, fmt.Errorf("%w: nil parameter set", ErrConfig)
	}
	for i, v := range par.Slice(opts.Routing) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: parameter %s is not finite", ErrConfig, ParameterNames[i])
		}
	}
	if par.FC <= 0. {
		return nil, fmt.Errorf("%w: field capacity must be positive, got %g", ErrConfig, par.FC)
	}
	if opts.Start != 0 && opts.Start != 1 {
		return nil, fmt.Errorf("%w: start index must be 0 or 1, got %d", ErrConfig, opts.Start)
	}
	if opts.SnowSeed < 0. {
		return nil, fmt.Errorf("%w: negative initial snowpack %g", ErrConfig, opts.SnowSeed)
	}
	if opts.PET == nil {
		opts.PET = defaultPET()
	}

	ev := Evaluator{Par: *par, Opts: opts}
	if opts.Routing {
		w, err := TriangularWeights(par.MaxBas)
		if err != nil {
			return nil, err
		}
		ev.Weights = w
	}
	return &ev, nil
}

func defaultPET() pet.Provider { return pet.Hamon{} }
