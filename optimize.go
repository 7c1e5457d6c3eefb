package hbv

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strings"
	"time"

	"github.com/maseology/hbv/internal/log"
	"github.com/maseology/hbv/objfunc"
	"github.com/maseology/hbv/opt"
)

// Objective minimized during calibration
type Objective string

const (
	ObjectiveNSE  Objective = "nse"  // minimizes 1-NSE
	ObjectiveKGE  Objective = "kge"  // minimizes 1-KGE
	ObjectiveRMSE Objective = "rmse" // minimizes RMSE
)

// ParseObjective reads an objective name
func ParseObjective(s string) (Objective, error) {
	switch o := Objective(strings.ToLower(s)); o {
	case ObjectiveNSE, ObjectiveKGE, ObjectiveRMSE:
		return o, nil
	case "":
		return ObjectiveNSE, nil
	}
	return "", fmt.Errorf("%w: unknown objective %q", ErrConfig, s)
}

// score to minimize
func (o Objective) score(obs, sim []float64) float64 {
	switch o {
	case ObjectiveKGE:
		return 1. - objfunc.KGE(obs, sim)
	case ObjectiveRMSE:
		return objfunc.RMSE(obs, sim)
	}
	return 1. - objfunc.NSE(obs, sim)
}

// DefaultBounds parameter ranges used for calibration
func DefaultBounds(routing bool) opt.Bounds {
	b := opt.Bounds{
		{Lo: 50., Hi: 1000.},            // fc
		{Lo: 1., Hi: 7.},                // beta
		{Lo: .3, Hi: 1.},                // lp
		{Lo: .4, Hi: 1.4},               // sfcf
		{Lo: -2., Hi: 3.},               // tt
		{Lo: .5, Hi: 10.},               // cfmax
		{Lo: 0., Hi: .1},                // cfr
		{Lo: 0., Hi: .2},                // cwh
		{Lo: .05, Hi: .99},              // k0
		{Lo: .01, Hi: .5},               // k1
		{Lo: .0001, Hi: .15, Log: true}, // k2
		{Lo: 0., Hi: 100.},              // uzl
		{Lo: 0., Hi: 6.},                // perc
		{Lo: .5, Hi: 2.},                // coeff_pet
	}
	if routing {
		b = append(b, opt.Range{Lo: 1., Hi: 7.}) // maxbas
	}
	return b
}

// Minimizer names
const (
	MethodGenetic    = "genetic"
	MethodCMAES      = "cmaes"
	MethodNelderMead = "neldermead"
)

// CalibrationOptions of a single station calibration
type CalibrationOptions struct {
	Bounds         opt.Bounds    // defaults to DefaultBounds
	Method         string        // genetic (default), cmaes or neldermead
	Minimizer      opt.Minimizer // overrides Method when set
	Objective      Objective     // defaults to nse
	Warmup         int           // days excluded from scoring
	MaxEvaluations int
	Population     int
	Concurrency    int
	Seed           uint64
	Model          Options
}

func (co CalibrationOptions) minimizer() (opt.Minimizer, error) {
	if co.Minimizer != nil {
		return co.Minimizer, nil
	}
	switch strings.ToLower(co.Method) {
	case "", MethodGenetic:
		return opt.Genetic{Population: co.Population, MaxEvaluations: co.MaxEvaluations, Concurrency: co.Concurrency, Seed: co.Seed}, nil
	case MethodCMAES:
		return opt.CMAES{Population: co.Population, MaxEvaluations: co.MaxEvaluations, Concurrency: co.Concurrency, Seed: co.Seed}, nil
	case MethodNelderMead:
		return opt.NelderMead{MaxEvaluations: co.MaxEvaluations}, nil
	}
	return nil, fmt.Errorf("%w: unknown calibration method %q", ErrConfig, co.Method)
}

// Calibration result of a station
type Calibration struct {
	Station     string
	Params      ParameterSet
	Routing     bool
	Objective   Objective
	Score       float64 // minimized objective, NaN when undefined
	NSE, KGE    float64
	RMSE, Bias  float64
	Evaluations int
	Elapsed     time.Duration
}

// scorer evaluates parameter vectors against the observations past warmup
type scorer struct {
	frc     *Forcing
	obs     []float64
	ep      []float64 // potential evaporation at unit coefficient
	warmup  int
	opts    Options
	routing bool
}

func (s *scorer) simulate(x []float64) (*ParameterSet, []float64, error) {
	par, err := FromSlice(x, s.routing)
	if err != nil {
		return nil, nil, err
	}
	ev, err := NewEvaluator(&par, s.opts)
	if err != nil {
		return nil, nil, err
	}
	ep := make([]float64, len(s.ep))
	for i, v := range s.ep {
		ep[i] = v * par.CoeffPET
	}
	out, err := ev.Evaluate(s.frc, ep)
	if err != nil {
		return nil, nil, err
	}
	return &par, out.Q, nil
}

func (s *scorer) pairs(sim []float64) ([]float64, []float64) {
	return objfunc.Valid(s.obs[s.warmup:], sim[s.warmup:])
}

// newScorer validates the calibration inputs and fills option defaults
func newScorer(frc *Forcing, obs []float64, co *CalibrationOptions) (*scorer, Objective, error) {
	if err := frc.Validate(); err != nil {
		return nil, "", err
	}
	routing := co.Model.Routing
	if co.Bounds == nil {
		co.Bounds = DefaultBounds(routing)
	}
	if n := NumParameters(routing); len(co.Bounds) != n {
		return nil, "", fmt.Errorf("%w: expecting %d parameter bounds, got %d", ErrConfig, n, len(co.Bounds))
	}
	if err := co.Bounds.Validate(); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if len(co.Bounds.Free()) == 0 {
		return nil, "", fmt.Errorf("%w: all parameters are fixed", ErrConfig)
	}
	if len(obs) != frc.Len() {
		return nil, "", fmt.Errorf("%w: %d observations for %d days", ErrConfig, len(obs), frc.Len())
	}
	if co.Warmup < 0 || co.Warmup >= frc.Len() {
		return nil, "", fmt.Errorf("%w: warmup %d outside record of %d days", ErrConfig, co.Warmup, frc.Len())
	}
	if o, _ := objfunc.Valid(obs[co.Warmup:], obs[co.Warmup:]); len(o) < 2 {
		return nil, "", fmt.Errorf("%w: fewer than 2 observations after warmup", ErrConfig)
	}
	obj, err := ParseObjective(string(co.Objective))
	if err != nil {
		return nil, "", err
	}
	if co.Model.PET == nil {
		co.Model.PET = defaultPET()
	}
	if co.Concurrency <= 0 {
		co.Concurrency = runtime.GOMAXPROCS(0)
	}
	return &scorer{
		frc:     frc,
		obs:     obs,
		ep:      co.Model.PET.Evaporation(frc.T, frc.Tm, frc.Lat, 1.),
		warmup:  co.Warmup,
		opts:    co.Model,
		routing: routing,
	}, obj, nil
}

// Calibrate searches the parameter bounds for the set minimizing the objective
// of simulated against observed discharge. Observations may hold NaN for
// missing days.
func Calibrate(ctx context.Context, station string, frc *Forcing, obs []float64, co CalibrationOptions) (*Calibration, error) {
	tt := time.Now()
	sc, obj, err := newScorer(frc, obs, &co)
	if err != nil {
		return nil, err
	}
	mzr, err := co.minimizer()
	if err != nil {
		return nil, err
	}

	gen := func(u []float64) float64 {
		_, sim, err := sc.simulate(co.Bounds.Transform(u))
		if err != nil {
			return math.NaN()
		}
		return obj.score(sc.pairs(sim))
	}

	ndim := len(co.Bounds.Free())
	log.Debugw("calibrating", "station", station, "method", co.Method, "objective", obj, "dimensions", ndim, "days", frc.Len())
	res, err := mzr.Minimize(ctx, gen, ndim)
	if err != nil {
		return nil, fmt.Errorf("calibrating %s: %w", station, err)
	}

	par, sim, err := sc.simulate(co.Bounds.Transform(res.U))
	if err != nil {
		return nil, fmt.Errorf("calibrating %s: %w", station, err)
	}
	fit := objfunc.Evaluate(sc.pairs(sim))
	cal := Calibration{
		Station:     station,
		Params:      *par,
		Routing:     sc.routing,
		Objective:   obj,
		Score:       obj.score(sc.pairs(sim)), // NaN when no evaluation scored
		NSE:         fit.NSE,
		KGE:         fit.KGE,
		RMSE:        fit.RMSE,
		Bias:        fit.Bias,
		Evaluations: res.Evaluations,
		Elapsed:     time.Since(tt),
	}
	log.Infow("calibrated", "station", station, "nse", cal.NSE, "kge", cal.KGE, "evaluations", cal.Evaluations, "elapsed", cal.Elapsed)
	return &cal, nil
}

// String prints the goodness of fit
func (c *Calibration) String() string {
	return fmt.Sprintf("  KGE: %.3f  NSE: %.3f  RMSE: %.3f  Bias: %.3f", c.KGE, c.NSE, c.RMSE, c.Bias)
}
