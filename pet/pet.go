// Package pet computes daily potential evapotranspiration from air temperature.
package pet

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/solar"
)

// Provider yields a daily potential evapotranspiration series [mm/d] of the
// same length as the temperature series tm [°C]. The result scales linearly
// with coeff.
type Provider interface {
	Evaporation(dates []time.Time, tm []float64, lat, coeff float64) []float64
}

// Hamon temperature-based PET: coeff·(DL/12)²·exp(T/16), DL daylight hours.
type Hamon struct{}

// Evaporation implements Provider
func (Hamon) Evaporation(dates []time.Time, tm []float64, lat, coeff float64) []float64 {
	ep := make([]float64, len(tm))
	for i, t := range tm {
		dl := DaylightHours(dates[i], lat) / 12.
		ep[i] = coeff * dl * dl * math.Exp(t/16.)
	}
	return ep
}

// DaylightHours returns the astronomical day length [h] at latitude lat [deg]
// for the date of t, using the apparent solar declination at noon UTC.
func DaylightHours(t time.Time, lat float64) float64 {
	noon := time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
	_, dec := solar.ApparentEquatorial(julian.TimeToJD(noon))
	x := -math.Tan(lat*math.Pi/180.) * math.Tan(dec.Rad())
	switch {
	case x >= 1.: // polar night
		return 0.
	case x <= -1.: // midnight sun
		return 24.
	}
	return 24. / math.Pi * math.Acos(x)
}
