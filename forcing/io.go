package forcing

import (
	"encoding/csv"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// column aliases, first match wins
var (
	colDate   = []string{"date"}
	colYear   = []string{"year"}
	colMonth  = []string{"month"}
	colDay    = []string{"day"}
	colPrecip = []string{"precip", "prcp_mm", "prcp", "p"}
	colTemp   = []string{"tavg", "t_avg", "temp", "tm"}
	colLat    = []string{"latitude", "lat"}
	colQobs   = []string{"qobs", "obs_flow", "q"}
)

// LoadStation reads a station csv having a header row. Dates are read from a
// date column (YYYY-MM-DD) or from year, month and day columns.
func LoadStation(fp, id string) (*Station, error) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	st, err := ReadStation(f, id)
	if err != nil {
		return nil, fmt.Errorf("LoadStation %s: %w", fp, err)
	}
	return st, nil
}

// ReadStation parses station csv content, see LoadStation.
func ReadStation(r io.Reader, id string) (*Station, error) {
	rdr := csv.NewReader(r)
	rdr.TrimLeadingSpace = true
	rdr.ReuseRecord = true

	hdr, err := rdr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols := make(map[string]int, len(hdr))
	for i, h := range hdr {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	find := func(aliases []string) int {
		for _, a := range aliases {
			if i, ok := cols[a]; ok {
				return i
			}
		}
		return -1
	}

	idt, iy, im, iday := find(colDate), find(colYear), find(colMonth), find(colDay)
	ip, it, ila, iq := find(colPrecip), find(colTemp), find(colLat), find(colQobs)
	switch {
	case idt < 0 && (iy < 0 || im < 0 || iday < 0):
		return nil, errors.New("missing date or year/month/day columns")
	case ip < 0:
		return nil, errors.New("missing precipitation column")
	case it < 0:
		return nil, errors.New("missing temperature column")
	case ila < 0:
		return nil, errors.New("missing latitude column")
	}

	st := Station{ID: id}
	for ln := 2; ; ln++ {
		rec, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		var t time.Time
		if idt >= 0 {
			if t, err = time.Parse(time.DateOnly, strings.TrimSpace(rec[idt])); err != nil {
				return nil, fmt.Errorf("line %d column %q: %w", ln, hdr[idt], err)
			}
		} else {
			ymd := [3]int{}
			for k, i := range []int{iy, im, iday} {
				v, err := strconv.Atoi(strings.TrimSpace(rec[i]))
				if err != nil {
					return nil, fmt.Errorf("line %d column %q: %w", ln, hdr[i], err)
				}
				ymd[k] = v
			}
			t = time.Date(ymd[0], time.Month(ymd[1]), ymd[2], 0, 0, 0, 0, time.UTC)
		}

		p, err := parseValue(rec[ip])
		if err != nil || math.IsNaN(p) {
			return nil, fmt.Errorf("line %d column %q: invalid precipitation %q", ln, hdr[ip], rec[ip])
		}
		if p < 0. {
			return nil, fmt.Errorf("line %d column %q: negative precipitation %g", ln, hdr[ip], p)
		}
		tm, err := parseValue(rec[it])
		if err != nil || math.IsNaN(tm) {
			return nil, fmt.Errorf("line %d column %q: invalid temperature %q", ln, hdr[it], rec[it])
		}
		if st.Len() == 0 {
			if st.Lat, err = parseValue(rec[ila]); err != nil || math.IsNaN(st.Lat) || math.Abs(st.Lat) > 90. {
				return nil, fmt.Errorf("line %d column %q: invalid latitude %q", ln, hdr[ila], rec[ila])
			}
		}
		q := math.NaN()
		if iq >= 0 {
			if v, err := parseValue(rec[iq]); err == nil && v >= 0. {
				q = v
			}
		}

		st.T = append(st.T, t)
		st.P = append(st.P, p)
		st.Tm = append(st.Tm, tm)
		st.Qobs = append(st.Qobs, q)
	}

	if st.Len() == 0 {
		return nil, errors.New("no records")
	}
	if err := checkSequence(st.T); err != nil {
		return nil, err
	}
	return &st, nil
}

// parseValue reads a float, returning NaN for empty or NA fields
func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "na", "nan", "null":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// SaveGob writes the station record to a gob file
func (st *Station) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf("Station.SaveGob: %w", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(st); err != nil {
		return fmt.Errorf("Station.SaveGob: %w", err)
	}
	return nil
}

// LoadGobStation reads a station record written by SaveGob
func LoadGobStation(fp string) (*Station, error) {
	var st Station
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(&st); err != nil {
		return nil, fmt.Errorf("LoadGobStation: %w", err)
	}
	return &st, nil
}
