package main

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/maseology/hbv"
	"github.com/maseology/hbv/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeStation writes a synthetic station record whose flows come from the model.
func writeStation(t *testing.T, dir, id string, seed uint64) {
	t.Helper()
	const nt = 400
	rng := rand.New(rand.NewPCG(seed, seed+1))
	frc := &hbv.Forcing{T: make([]time.Time, nt), P: make([]float64, nt), Tm: make([]float64, nt), Lat: 45.}
	for j := range nt {
		frc.T[j] = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, j)
		if rng.Float64() < .35 {
			frc.P[j] = 20. * rng.Float64()
		}
		frc.Tm[j] = 8. - 14.*math.Cos(2.*math.Pi*float64(j)/365.) + 3.*rng.NormFloat64()
	}
	par := hbv.ParameterSet{
		FC: 200., Beta: 2., LP: .7, SFCF: 1., TT: 0., CFMax: 3.5, CFR: .05, CWH: .1,
		K0: .3, K1: .1, K2: .01, UZL: 20., Perc: 1.5, CoeffPET: 1.,
	}
	out, err := hbv.Simulate(&par, frc, hbv.Options{})
	require.NoError(t, err)

	var sb strings.Builder
	sb.WriteString("date,precip,tavg,latitude,qobs\n")
	for j := range nt {
		fmt.Fprintf(&sb, "%s,%.3f,%.3f,45,%.5f\n", frc.T[j].Format(time.DateOnly), frc.P[j], frc.Tm[j], out.Q[j])
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hbv_input_"+id+".csv"), []byte(sb.String()), 0644))
}

func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	yml := fmt.Sprintf(`
data:
  dir: %s
output:
  dir: %s
calibration:
  method: cmaes
  max_evaluations: 120
  population: 10
  concurrency: 2
  warmup: 30
  bounds:
    beta: [2, 2]
    lp: [0.7, 0.7]
    sfcf: [1, 1]
    tt: [0, 0]
    cfmax: [3.5, 3.5]
    cfr: [0.05, 0.05]
    cwh: [0.1, 0.1]
    k0: [0.3, 0.3]
    k2: [0.01, 0.01]
    uzl: [20, 20]
    perc: [1.5, 1.5]
    coeff_pet: [1, 1]
batch:
  workers: 2
`, filepath.Join(dir, "data"), filepath.Join(dir, "out"))
	fp := filepath.Join(dir, "hbv.yaml")
	require.NoError(t, os.WriteFile(fp, []byte(yml), 0644))
	return fp
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0755))
	writeStation(t, filepath.Join(dir, "data"), "01013500", 1)
	writeStation(t, filepath.Join(dir, "data"), "01094400", 2)
	cfg := writeTestConfig(t, dir)

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "hbv version")

	out, err = execute(t, "--config", cfg, "calibrate", "01013500")
	require.NoError(t, err)
	assert.Contains(t, out, "NSE:")
	assert.FileExists(t, filepath.Join(dir, "out", "param_01013500.csv"))
	assert.FileExists(t, filepath.Join(dir, "out", "hyd_01013500.csv"))

	// parameters from the result database
	out, err = execute(t, "--config", cfg, "simulate", "01013500", "--bins")
	require.NoError(t, err)
	assert.Contains(t, out, "01013500")
	assert.FileExists(t, filepath.Join(dir, "out", "01013500.hyd.bin"))

	// parameters from file
	_, err = execute(t, "--config", cfg, "simulate", filepath.Join(dir, "data", "hbv_input_01094400.csv"),
		"--params", filepath.Join(dir, "out", "param_01013500.csv"))
	require.NoError(t, err)

	_, err = execute(t, "--config", cfg, "simulate", "01094400")
	assert.ErrorIs(t, err, store.ErrNotFound)

	out, err = execute(t, "--config", cfg, "batch")
	require.NoError(t, err)
	assert.Contains(t, out, "01094400")

	out, err = execute(t, "--config", cfg, "summarize", "--bins", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "2 stations")
	assert.Contains(t, out, "fc")

	out, err = execute(t, "--config", cfg, "sample", "01094400", "-n", "20", "--top", "3")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "out", "samples_01094400.csv"))
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 4)
}

func TestSummarize(t *testing.T) {
	rec := func(stn string, fc, nse float64, routing bool) store.Record {
		return store.Record{Calibration: hbv.Calibration{
			Station: stn, Routing: routing, NSE: nse,
			Params: hbv.ParameterSet{FC: fc, MaxBas: 2.},
		}}
	}
	s := summarize([]store.Record{
		rec("a", 100., .9, false),
		rec("b", 300., 1., true),
		rec("b", 200., -5., false),
		rec("c", 200., math.NaN(), false),
	}, 4)
	assert.Equal(t, 3, s.Stations)
	require.Len(t, s.Params, hbv.NumParameters(true))
	assert.Equal(t, "fc", s.Params[0].Name)
	assert.Equal(t, 4, s.Params[0].N)
	assert.InDelta(t, 200., s.Params[0].Mean, 1e-12)
	assert.Equal(t, "maxbas", s.Params[14].Name)
	assert.Equal(t, 1, s.Params[14].N)
	assert.Equal(t, []float64{1, 0, 0, 2}, s.Counts) // -5 clamped into the first bin
	assert.InDelta(t, .9, s.MedianNSE, 1e-12)

	var buf bytes.Buffer
	s.print(&buf)
	assert.Contains(t, buf.String(), "3 stations")
}

func TestStationID(t *testing.T) {
	assert.Equal(t, "01094400", stationID(`^hbv_input_(\w+)\.csv$`, "/data/hbv_input_01094400.csv"))
	assert.Equal(t, "gauge", stationID(`^hbv_input_(\w+)\.csv$`, "gauge.csv"))
}
