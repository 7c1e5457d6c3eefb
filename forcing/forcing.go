// Package forcing loads daily station climate records used to drive the model.
package forcing

import (
	"math"
	"time"
)

// Station daily record of a gauged catchment
type Station struct {
	ID   string
	T    []time.Time // [date ID]
	P    []float64   // precipitation [mm/d]
	Tm   []float64   // mean air temperature [°C]
	Qobs []float64   // observed discharge [mm/d], NaN where missing
	Lat  float64     // representative latitude [deg], taken from the first record
}

// Len number of days
func (st *Station) Len() int { return len(st.T) }

// HasObservations returns true when at least one discharge observation is present.
func (st *Station) HasObservations() bool {
	for _, q := range st.Qobs {
		if !math.IsNaN(q) {
			return true
		}
	}
	return false
}
