package hbv

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/maseology/hbv/forcing"
	"github.com/maseology/hbv/internal/log"
	"golang.org/x/sync/errgroup"
)

// Unit of batch work: one station, loaded from Path when Station is nil.
type Unit struct {
	ID      string
	Path    string
	Station *forcing.Station
}

// BatchResult of a unit, carrying either a calibration or an error
type BatchResult struct {
	Station     string
	Calibration *Calibration
	Err         error
}

// BatchOptions of RunBatch
type BatchOptions struct {
	Calibration CalibrationOptions
	Until       time.Time         // end of the calibration period (exclusive), zero for the whole record
	Workers     int               // stations calibrated at once, 0: GOMAXPROCS
	Progress    func(BatchResult) // called once per completed unit, never concurrently
}

// RunBatch calibrates independent stations concurrently. Results are returned
// in the order of units; a failing unit does not stop the others.
func RunBatch(ctx context.Context, units []Unit, bo BatchOptions) []BatchResult {
	nwrkrs := bo.Workers
	if nwrkrs <= 0 {
		nwrkrs = runtime.GOMAXPROCS(0)
	}
	co := bo.Calibration
	if co.Concurrency <= 0 && nwrkrs > 1 {
		co.Concurrency = max(1, runtime.GOMAXPROCS(0)/nwrkrs)
	}

	res := make([]BatchResult, len(units))
	var mu sync.Mutex
	var eg errgroup.Group
	eg.SetLimit(nwrkrs)
	for k, u := range units {
		eg.Go(func() error {
			res[k] = runUnit(ctx, u, bo.Until, co)
			if res[k].Err != nil {
				log.Warnw("unit failed", "station", u.ID, "error", res[k].Err)
			}
			if bo.Progress != nil {
				mu.Lock()
				bo.Progress(res[k])
				mu.Unlock()
			}
			return nil
		})
	}
	eg.Wait()
	return res
}

func runUnit(ctx context.Context, u Unit, until time.Time, co CalibrationOptions) BatchResult {
	br := BatchResult{Station: u.ID}
	if err := ctx.Err(); err != nil {
		br.Err = err
		return br
	}
	st := u.Station
	if st == nil {
		if st, br.Err = forcing.LoadStation(u.Path, u.ID); br.Err != nil {
			return br
		}
	}
	if !until.IsZero() {
		st = st.Before(until)
	}
	br.Calibration, br.Err = Calibrate(ctx, u.ID, NewForcing(st), st.Qobs, co)
	return br
}
