package forcing

import (
	"fmt"
	"math"
	"time"

	"github.com/maseology/hbv/pet"
)

// Summary of a station record
type Summary struct {
	ID         string
	Start, End time.Time
	N          int
	Observed   int     // days with discharge observations
	Precip     float64 // mean annual precipitation [mm/yr]
	PET        float64 // mean annual potential evapotranspiration, unit coefficient [mm/yr]
	Qobs       float64 // mean annual observed discharge [mm/yr]
	Temp       float64 // mean air temperature [°C]
}

// Summary computes period totals of the record
func (st *Station) Summary() Summary {
	s := Summary{ID: st.ID, N: st.Len()}
	if s.N == 0 {
		return s
	}
	s.Start, s.End = st.T[0], st.T[s.N-1]
	ep := pet.Hamon{}.Evaporation(st.T, st.Tm, st.Lat, 1.)
	sq := 0.
	for j := range st.T {
		s.Precip += st.P[j]
		s.PET += ep[j]
		s.Temp += st.Tm[j]
		if !math.IsNaN(st.Qobs[j]) {
			sq += st.Qobs[j]
			s.Observed++
		}
	}
	f := 365.24 / float64(s.N)
	s.Precip *= f
	s.PET *= f
	s.Temp /= float64(s.N)
	if s.Observed > 0 {
		s.Qobs = sq * 365.24 / float64(s.Observed)
	}
	return s
}

// CheckAndPrint writes the station summary
func (st *Station) CheckAndPrint() {
	s := st.Summary()
	fmt.Printf("Station %s summary:\n", s.ID)
	if s.N == 0 {
		fmt.Println(" (empty)")
		return
	}
	fmt.Printf(" %s to %s, daily (%d timesteps), latitude %.3f\n", s.Start.Format(time.DateOnly), s.End.Format(time.DateOnly), s.N, st.Lat)
	fmt.Printf(" totals (mm/yr): P: %.1f   PET: %.1f   Qobs: %.1f (%d observed)   mean T: %.2f\n", s.Precip, s.PET, s.Qobs, s.Observed, s.Temp)
}
