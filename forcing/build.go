package forcing

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// checkSequence ensures dates advance by exactly one day
func checkSequence(ts []time.Time) error {
	for j := 1; j < len(ts); j++ {
		switch d := ts[j].Sub(ts[j-1]); {
		case d == day:
			continue
		case d > day:
			return fmt.Errorf("missing dates: %s to %s (%d days)", ts[j-1].Format(time.DateOnly), ts[j].Format(time.DateOnly), int(d/day)-1)
		default:
			return fmt.Errorf("dates out of sequence at %s", ts[j].Format(time.DateOnly))
		}
	}
	return nil
}
