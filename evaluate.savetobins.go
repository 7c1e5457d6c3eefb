package hbv

import (
	"fmt"
	"time"
)

// SaveToBins writes the output series as little-endian float32 binaries named
// <outdirprfx><series>.bin, along with mean monthly totals (12 values) of the
// water budget fluxes.
func (o *Output) SaveToBins(dates []time.Time, outdirprfx string) error {
	if len(dates) != len(o.Q) {
		return fmt.Errorf("Output.SaveToBins: %d dates for %d timesteps", len(dates), len(o.Q))
	}
	for nam, s := range map[string][]float64{
		"hyd":  o.Q,
		"qgen": o.Qgen,
		"pet":  o.PET,
		"aet":  o.AET,
		"rch":  o.Recharge,
		"swe":  o.SWE,
		"sm":   o.Soil,
		"suz":  o.S1,
		"slz":  o.S2,
	} {
		if err := writeFloats(outdirprfx+nam+".bin", s); err != nil {
			return err
		}
	}

	sae, srch, sq, nyr := make([]float64, 12), make([]float64, 12), make([]float64, 12), make([]float64, 12)
	for j, t := range dates {
		m := int(t.Month()) - 1
		sae[m] += o.AET[j]
		srch[m] += o.Recharge[j]
		sq[m] += o.Q[j]
		if t.Day() == 1 || j == 0 {
			nyr[m]++
		}
	}
	for m := range 12 {
		if nyr[m] > 0 {
			sae[m] /= nyr[m]
			srch[m] /= nyr[m]
			sq[m] /= nyr[m]
		}
	}
	for nam, s := range map[string][]float64{"sae": sae, "srch": srch, "sq": sq} {
		if err := writeFloats(outdirprfx+nam+".bin", s); err != nil {
			return err
		}
	}
	return nil
}
