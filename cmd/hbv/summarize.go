package main

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/maseology/hbv"
	"github.com/maseology/hbv/store"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// nseFloor collects the NSE of poor fits into the first histogram bin
const nseFloor = -1.

type parameterSummary struct {
	Name      string
	N         int
	Mean, Std float64
	Min, Max  float64
}

type summary struct {
	Stations  int
	Params    []parameterSummary
	Dividers  []float64 // NSE histogram bin edges
	Counts    []float64
	MedianNSE float64
}

// summarize reduces calibration records to per-parameter statistics and a
// histogram of NSE over nbins equal bins from -1 to 1.
func summarize(recs []store.Record, nbins int) summary {
	var s summary
	stns := make(map[string]bool)
	vals := make([][]float64, len(hbv.ParameterNames))
	var nse []float64
	for _, r := range recs {
		c := &r.Calibration
		stns[c.Station] = true
		for i, v := range c.Params.Slice(c.Routing) {
			vals[i] = append(vals[i], v)
		}
		if !math.IsNaN(c.NSE) {
			nse = append(nse, max(c.NSE, nseFloor))
		}
	}
	s.Stations = len(stns)

	for i, v := range vals {
		if len(v) == 0 {
			continue
		}
		ps := parameterSummary{Name: hbv.ParameterNames[i], N: len(v), Min: floats.Min(v), Max: floats.Max(v)}
		ps.Mean, ps.Std = stat.MeanStdDev(v, nil)
		s.Params = append(s.Params, ps)
	}

	s.Dividers = make([]float64, nbins+1)
	floats.Span(s.Dividers, nseFloor, 1.)
	s.Dividers[nbins] = math.Nextafter(1., 2.) // include NSE = 1
	s.MedianNSE = math.NaN()
	if len(nse) > 0 {
		sort.Float64s(nse)
		s.Counts = stat.Histogram(nil, s.Dividers, nse, nil)
		s.MedianNSE = stat.Quantile(.5, stat.Empirical, nse, nil)
	} else {
		s.Counts = make([]float64, nbins)
	}
	return s
}

func (s summary) print(w io.Writer) {
	fmt.Fprintf(w, "%d stations\n\n", s.Stations)
	fmt.Fprintf(w, "%10s %6s %10s %10s %10s %10s\n", "parameter", "n", "mean", "std", "min", "max")
	for _, p := range s.Params {
		fmt.Fprintf(w, "%10s %6d %10.4f %10.4f %10.4f %10.4f\n", p.Name, p.N, p.Mean, p.Std, p.Min, p.Max)
	}
	fmt.Fprintf(w, "\nNSE (median %.3f)\n", s.MedianNSE)
	cmax := floats.Max(append([]float64{1}, s.Counts...))
	for i, c := range s.Counts {
		fmt.Fprintf(w, " [%5.2f,%5.2f) %4d %s\n", s.Dividers[i], math.Min(s.Dividers[i+1], 1.), int(c), strings.Repeat("#", int(40*c/cmax)))
	}
}
