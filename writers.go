package hbv

import (
	"bytes"
	"encoding/binary"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

func writeFloats(fp string, f []float64) error {
	f32 := make([]float32, len(f))
	for i, v := range f {
		f32[i] = float32(v)
	}
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, f32); err != nil {
		return fmt.Errorf("writeFloats failed: %v", err)
	}
	if err := os.WriteFile(fp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writeFloats failed: %v", err)
	}
	return nil
}

func writeLines(fp string, lns []string) error {
	if err := os.WriteFile(fp, []byte(strings.Join(lns, "\n")+"\n"), 0644); err != nil {
		return fmt.Errorf("writeLines failed: %v", err)
	}
	return nil
}

func writeCSV(fp string, recs [][]string) error {
	f, err := os.Create(fp)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(recs); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", fp, err)
	}
	return f.Close()
}

func ftoa(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteParameterCSV writes a calibrated parameter set with its station ID,
// typically to param_<station>.csv
func WriteParameterCSV(fp string, c *Calibration) error {
	v := c.Params.Slice(c.Routing)
	hdr := append(append([]string{}, ParameterNames[:len(v)]...), "station_id")
	rec := make([]string, 0, len(hdr))
	for _, x := range v {
		rec = append(rec, ftoa(x))
	}
	rec = append(rec, c.Station)
	return writeCSV(fp, [][]string{hdr, rec})
}

// ReadParameterCSV reads a file written by WriteParameterCSV. Routing is
// enabled when a maxbas column is present.
func ReadParameterCSV(fp string) (*ParameterSet, string, bool, error) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, "", false, err
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, "", false, fmt.Errorf("ReadParameterCSV %s: %w", fp, err)
	}
	if len(recs) < 2 {
		return nil, "", false, fmt.Errorf("ReadParameterCSV %s: no parameter record", fp)
	}
	m := make(map[string]string, len(recs[0]))
	for i, h := range recs[0] {
		m[strings.ToLower(strings.TrimSpace(h))] = strings.TrimSpace(recs[1][i])
	}
	_, routing := m["maxbas"]
	v := make([]float64, NumParameters(routing))
	for i := range v {
		s, ok := m[ParameterNames[i]]
		if !ok {
			return nil, "", false, fmt.Errorf("ReadParameterCSV %s: missing %s", fp, ParameterNames[i])
		}
		if v[i], err = strconv.ParseFloat(s, 64); err != nil {
			return nil, "", false, fmt.Errorf("ReadParameterCSV %s: %s: %w", fp, ParameterNames[i], err)
		}
	}
	par, err := FromSlice(v, routing)
	if err != nil {
		return nil, "", false, err
	}
	return &par, m["station_id"], routing, nil
}

// WriteScoreCSV writes the goodness of fit of a calibration, typically to
// nse_<station>.csv
func WriteScoreCSV(fp string, c *Calibration) error {
	return writeCSV(fp, [][]string{
		{"station_id", "nse", "kge", "rmse", "bias", "objective", "score", "evaluations"},
		{c.Station, ftoa(c.NSE), ftoa(c.KGE), ftoa(c.RMSE), ftoa(c.Bias), string(c.Objective), ftoa(c.Score), strconv.Itoa(c.Evaluations)},
	})
}

// WriteHydrographCSV writes observed and simulated discharge with the runoff
// components. obs may be nil.
func WriteHydrographCSV(fp string, dates []time.Time, obs []float64, out *Output) error {
	if len(dates) != len(out.Q) || (obs != nil && len(obs) != len(out.Q)) {
		return fmt.Errorf("WriteHydrographCSV: series lengths differ")
	}
	recs := make([][]string, 0, len(dates)+1)
	recs = append(recs, []string{"date", "obs", "sim", "qs", "qi", "qb", "aet", "swe", "soil"})
	for j, t := range dates {
		o := math.NaN()
		if obs != nil {
			o = obs[j]
		}
		recs = append(recs, []string{t.Format(time.DateOnly), ftoa(o), ftoa(out.Q[j]), ftoa(out.Qs[j]), ftoa(out.Qi[j]), ftoa(out.Qb[j]), ftoa(out.AET[j]), ftoa(out.SWE[j]), ftoa(out.Soil[j])})
	}
	return writeCSV(fp, recs)
}

// WriteSampleCSV writes scored Monte Carlo samples, one row per sample.
func WriteSampleCSV(fp string, smpls []Sample, routing bool) error {
	n := NumParameters(routing)
	recs := make([][]string, 0, len(smpls)+1)
	recs = append(recs, append([]string{"sample", "score"}, ParameterNames[:n]...))
	for _, s := range smpls {
		rec := make([]string, 0, n+2)
		rec = append(rec, strconv.Itoa(s.Index), ftoa(s.Score))
		for _, x := range s.Params.Slice(routing) {
			rec = append(rec, ftoa(x))
		}
		recs = append(recs, rec)
	}
	return writeCSV(fp, recs)
}
