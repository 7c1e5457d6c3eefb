package pet

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaylightHours(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		lat      float64
		min, max float64
	}{
		{"equator", time.Date(2001, 3, 20, 0, 0, 0, 0, time.UTC), 0., 11.9, 12.1},
		{"45N summer solstice", time.Date(2001, 6, 21, 0, 0, 0, 0, time.UTC), 45., 15.2, 15.6},
		{"45N winter solstice", time.Date(2001, 12, 21, 0, 0, 0, 0, time.UTC), 45., 8.4, 8.8},
		{"arctic midsummer", time.Date(2001, 6, 21, 0, 0, 0, 0, time.UTC), 80., 24., 24.},
		{"arctic midwinter", time.Date(2001, 12, 21, 0, 0, 0, 0, time.UTC), 80., 0., 0.},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dl := DaylightHours(tt.date, tt.lat)
			assert.GreaterOrEqual(t, dl, tt.min)
			assert.LessOrEqual(t, dl, tt.max)
		})
	}
}

func TestHamonEvaporation(t *testing.T) {
	dates := make([]time.Time, 365)
	tm := make([]float64, 365)
	for i := range dates {
		dates[i] = time.Date(2003, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
		tm[i] = 10. - 15.*math.Cos(2.*math.Pi*float64(i)/365.)
	}
	ep := Hamon{}.Evaporation(dates, tm, 42.5, 1.)
	require.Len(t, ep, len(tm))
	for _, v := range ep {
		assert.Greater(t, v, 0.)
	}
	assert.Greater(t, ep[180], 5.*ep[0]) // summer demand far exceeds winter

	ep2 := Hamon{}.Evaporation(dates, tm, 42.5, 2.)
	assert.InDelta(t, 2.*ep[100], ep2[100], 1e-12)
}
