package hbv

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/maseology/hbv/internal/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/samplemv"
)

// Sample of the parameter space
type Sample struct {
	Index  int
	U      []float64 // unit hypercube coordinates of the free parameters
	Params ParameterSet
	Score  float64 // objective, NaN when the run failed
}

// GenerateSamples evaluates n parameter sets drawn by Latin hypercube sampling
// within the calibration bounds. Samples are returned in ascending order of the
// objective. When outprfx is set, the sample space is written to
// <outprfx><batch>.samplespace.csv, where batch is the current timestamp.
func GenerateSamples(ctx context.Context, frc *Forcing, obs []float64, n int, co CalibrationOptions, outprfx string) ([]Sample, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: sample count must be positive, got %d", ErrConfig, n)
	}
	sc, obj, err := newScorer(frc, obs, &co)
	if err != nil {
		return nil, err
	}

	// build sampling plan
	p := len(co.Bounds.Free())
	src := rand.NewPCG(co.Seed, co.Seed^0x9e3779b97f4a7c15)
	sp := mat.NewDense(n, p, nil)
	samplemv.LatinHypercube{Q: distmv.NewUnitUniform(p, nil), Src: src}.Sample(sp)

	if outprfx != "" {
		batch := outprfx + time.Now().Format("060102150405") // batch number = date
		lns := make([]string, n)
		for k := 0; k < n; k++ {
			var sb strings.Builder
			fmt.Fprint(&sb, k)
			for j := 0; j < p; j++ {
				fmt.Fprintf(&sb, ",%f", sp.At(k, j))
			}
			lns[k] = sb.String()
		}
		if err := writeLines(batch+".samplespace.csv", lns); err != nil {
			return nil, err
		}
	}

	smpls := make([]Sample, n)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(co.Concurrency)
	for k := range smpls {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			u := mat.Row(nil, k, sp)
			smpls[k] = Sample{Index: k, U: u, Score: math.NaN()}
			par, sim, err := sc.simulate(co.Bounds.Transform(u))
			if err != nil {
				log.Debugw("sample failed", "sample", k, "error", err)
				return nil
			}
			smpls[k].Params = *par
			smpls[k].Score = obj.score(sc.pairs(sim))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(smpls, func(i, j int) bool {
		si, sj := smpls[i].Score, smpls[j].Score
		if math.IsNaN(sj) {
			return !math.IsNaN(si)
		}
		return si < sj
	})
	return smpls, nil
}
