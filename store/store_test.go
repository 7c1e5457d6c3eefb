package store

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/maseology/hbv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calibration(station string, nse float64, routing bool) *hbv.Calibration {
	return &hbv.Calibration{
		Station: station,
		Params: hbv.ParameterSet{
			FC: 250., Beta: 2.5, LP: .6, SFCF: 1.1, TT: .5, CFMax: 4., CFR: .05, CWH: .1,
			K0: .25, K1: .08, K2: .005, UZL: 15., Perc: 2., CoeffPET: 1.1, MaxBas: 2.5,
		},
		Routing:     routing,
		Objective:   hbv.ObjectiveNSE,
		Score:       1. - nse,
		NSE:         nse,
		KGE:         .8,
		RMSE:        1.2,
		Bias:        math.NaN(),
		Evaluations: 500,
		Elapsed:     1500 * time.Millisecond,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	fp := filepath.Join(t.TempDir(), "db", "hbv.db")
	s, err := Open(ctx, fp)
	require.NoError(t, err)

	id1, err := s.Save(ctx, "b1", calibration("01094400", .6, false))
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	id2, err := s.Save(ctx, "b2", calibration("01094400", .7, true))
	require.NoError(t, err)
	_, err = s.Save(ctx, "b1", calibration("01013500", .5, false))
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	r, err := s.Latest(ctx, "01094400")
	require.NoError(t, err)
	assert.Equal(t, id2, r.ID)
	assert.Equal(t, "b2", r.Batch)
	assert.True(t, r.Calibration.Routing)
	assert.InDelta(t, .7, r.Calibration.NSE, 1e-12)
	assert.True(t, math.IsNaN(r.Calibration.Bias))
	assert.Equal(t, 1500*time.Millisecond, r.Calibration.Elapsed)
	assert.Equal(t, calibration("", 0, true).Params, r.Calibration.Params)

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "01013500", all[0].Calibration.Station)
	assert.Equal(t, id1, all[1].ID)

	b1, err := s.Batch(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, b1, 2)
	assert.Equal(t, 0., b1[0].Calibration.Params.MaxBas) // lumped variant drops maxbas

	_, err = s.Latest(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
	require.NoError(t, s.Close())

	// reopen keeps the records and schema version
	s, err = Open(ctx, fp)
	require.NoError(t, err)
	defer s.Close()
	all, err = s.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
