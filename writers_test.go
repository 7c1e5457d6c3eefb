package hbv

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, fp string) [][]string {
	t.Helper()
	f, err := os.Open(fp)
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return recs
}

func TestParameterCSV(t *testing.T) {
	dir := t.TempDir()
	for _, routing := range []bool{false, true} {
		cal := &Calibration{Station: "01094400", Params: testParameters(), Routing: routing}
		fp := filepath.Join(dir, "param_01094400.csv")
		require.NoError(t, WriteParameterCSV(fp, cal))

		recs := readCSV(t, fp)
		require.Len(t, recs, 2)
		assert.Equal(t, "fc", recs[0][0])
		assert.Equal(t, "station_id", recs[0][len(recs[0])-1])
		assert.Equal(t, "01094400", recs[1][len(recs[1])-1])

		par, id, rt, err := ReadParameterCSV(fp)
		require.NoError(t, err)
		assert.Equal(t, "01094400", id)
		assert.Equal(t, routing, rt)
		assert.Equal(t, cal.Params.Slice(routing), par.Slice(routing))
	}
}

func TestScoreCSV(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "nse_x.csv")
	require.NoError(t, WriteScoreCSV(fp, &Calibration{Station: "x", NSE: .75, Objective: ObjectiveNSE, Score: .25, Evaluations: 10}))
	recs := readCSV(t, fp)
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"station_id", "nse"}, recs[0][:2])
	assert.Equal(t, []string{"x", "0.75"}, recs[1][:2])
	assert.Equal(t, "10", recs[1][7])
}

func TestHydrographOutputs(t *testing.T) {
	par := testParameters()
	frc := testForcing([]float64{10, 0, 0, 5, 0}, []float64{2, 3, -1, 4, 1})
	out, err := Simulate(&par, frc, Options{Routing: true})
	require.NoError(t, err)
	dir := t.TempDir()

	fp := filepath.Join(dir, "hyd.csv")
	require.NoError(t, WriteHydrographCSV(fp, frc.T, nil, out))
	recs := readCSV(t, fp)
	require.Len(t, recs, 6)
	assert.Equal(t, "2001-04-01", recs[1][0])
	assert.Equal(t, "", recs[1][1]) // no observation
	assert.Error(t, WriteHydrographCSV(fp, frc.T[:2], nil, out))

	prfx := filepath.Join(dir, "run.")
	require.NoError(t, out.SaveToBins(frc.T, prfx))
	fi, err := os.Stat(prfx + "hyd.bin")
	require.NoError(t, err)
	assert.EqualValues(t, 4*5, fi.Size())
	fi, err = os.Stat(prfx + "sae.bin")
	require.NoError(t, err)
	assert.EqualValues(t, 4*12, fi.Size())
}

func TestSampleCSV(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "samples.csv")
	smpls := []Sample{{Index: 3, Score: .2, Params: testParameters()}, {Index: 0, Score: math.NaN()}}
	require.NoError(t, WriteSampleCSV(fp, smpls, true))
	recs := readCSV(t, fp)
	require.Len(t, recs, 3)
	assert.Len(t, recs[0], 2+NumParameters(true))
	assert.Equal(t, "maxbas", recs[0][len(recs[0])-1])
	assert.Equal(t, []string{"3", "0.2", "200"}, recs[1][:3])
	assert.Equal(t, "", recs[2][1])
}

func TestEvaluateSerialMatchesRun(t *testing.T) {
	par := testParameters()
	frc := testForcing([]float64{10, 0, 0, 5, 0, 2, 0}, []float64{2, 3, -1, 4, 1, 0, 5})
	ev, err := NewEvaluator(&par, Options{Routing: true, PET: constantPET(1.)})
	require.NoError(t, err)
	want, err := ev.Run(frc)
	require.NoError(t, err)

	prfx := filepath.Join(t.TempDir(), "serial.")
	got, err := ev.EvaluateSerial(frc, prfx)
	require.NoError(t, err)
	assert.Equal(t, want.Q, got.Q)
	assert.Equal(t, want.Storage, got.Storage)
	assert.FileExists(t, prfx+"hyd.bin")
}
