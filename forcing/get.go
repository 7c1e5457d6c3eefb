package forcing

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// DefaultPattern matches station input files, capturing the station ID
const DefaultPattern = `^(?:hbv|lstm)_input_(\w+)\.csv$`

// Source of a station record
type Source struct {
	ID, Path string
}

// ReadStationList reads the station_id column of a csv, keeping IDs as text so
// leading zeros are preserved.
func ReadStationList(fp string) ([]string, error) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ReadStationList %s: %w", fp, err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("ReadStationList %s: empty file", fp)
	}
	ic := -1
	for i, h := range recs[0] {
		if strings.EqualFold(strings.TrimSpace(h), "station_id") {
			ic = i
			break
		}
	}
	if ic < 0 {
		return nil, fmt.Errorf("ReadStationList %s: no station_id column", fp)
	}
	ids := make([]string, 0, len(recs)-1)
	for _, r := range recs[1:] {
		if id := strings.TrimSpace(r[ic]); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// DiscoverStations lists the files in dir whose name matches pattern. The
// first capture group of the pattern is taken as the station ID.
func DiscoverStations(dir, pattern string) ([]Source, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("DiscoverStations: %w", err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("DiscoverStations: pattern %q has no capture group", pattern)
	}
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var o []Source
	for _, de := range des {
		if de.IsDir() {
			continue
		}
		if m := re.FindStringSubmatch(de.Name()); m != nil {
			o = append(o, Source{ID: m[1], Path: filepath.Join(dir, de.Name())})
		}
	}
	sort.Slice(o, func(i, j int) bool { return o[i].ID < o[j].ID })
	return o, nil
}

// StationPath returns the input file of a station following the default naming.
func StationPath(dir, id string) string {
	return filepath.Join(dir, "hbv_input_"+id+".csv")
}
