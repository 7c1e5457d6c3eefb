package forcing

import (
	"sort"
	"time"
)

// Window returns the records within [from, to). Zero times leave that end open.
// The returned station shares its backing arrays with st.
func (st *Station) Window(from, to time.Time) *Station {
	i0, i1 := 0, st.Len()
	if !from.IsZero() {
		i0 = sort.Search(st.Len(), func(i int) bool { return !st.T[i].Before(from) })
	}
	if !to.IsZero() {
		i1 = sort.Search(st.Len(), func(i int) bool { return !st.T[i].Before(to) })
	}
	if i1 < i0 {
		i1 = i0
	}
	return &Station{
		ID:   st.ID,
		T:    st.T[i0:i1],
		P:    st.P[i0:i1],
		Tm:   st.Tm[i0:i1],
		Qobs: st.Qobs[i0:i1],
		Lat:  st.Lat,
	}
}

// Before returns the records preceding t
func (st *Station) Before(t time.Time) *Station { return st.Window(time.Time{}, t) }

// After returns the records from t onward
func (st *Station) After(t time.Time) *Station { return st.Window(t, time.Time{}) }
