package hbv

import "github.com/maseology/hbv/forcing"

// NewForcing builds the model forcing from a station record. The series are
// shared with the station.
func NewForcing(st *forcing.Station) *Forcing {
	return &Forcing{
		T:   st.T,
		P:   st.P,
		Tm:  st.Tm,
		Lat: st.Lat,
	}
}
