package hbv

import (
	"encoding/gob"
	"fmt"
	"os"
	"time"
)

// Forcing holds the aligned daily climate sequences of a lumped catchment
type Forcing struct {
	T   []time.Time // [date ID]
	P   []float64   // precipitation [mm/d]
	Tm  []float64   // mean daily air temperature [°C]
	Lat float64     // representative latitude [deg]
}

// Len number of days
func (frc *Forcing) Len() int { return len(frc.T) }

// Validate checks that all sequences are non-empty and share the same length.
func (frc *Forcing) Validate() error {
	if frc == nil {
		return fmt.Errorf("%w: nil forcing", ErrConfig)
	}
	nt := len(frc.T)
	if nt == 0 {
		return fmt.Errorf("%w: empty forcing", ErrConfig)
	}
	if len(frc.P) != nt || len(frc.Tm) != nt {
		return fmt.Errorf("%w: forcing series lengths differ (dates %d, precipitation %d, temperature %d)", ErrConfig, nt, len(frc.P), len(frc.Tm))
	}
	return nil
}

// CheckAndPrint writes a summary of the forcing period and its totals.
func (frc *Forcing) CheckAndPrint() {
	fmt.Println("Forcing summary:")
	nt := len(frc.T)
	if nt == 0 {
		fmt.Println(" (empty)")
		return
	}
	fmt.Printf(" %s to %s, daily (%d timesteps), latitude %.3f\n", frc.T[0].Format(time.DateOnly), frc.T[nt-1].Format(time.DateOnly), nt, frc.Lat)
	sp, st := 0., 0.
	for j := range frc.T {
		sp += frc.P[j]
		st += frc.Tm[j]
	}
	fmt.Printf(" precipitation (/yr): %.1f   mean temperature: %.2f\n", sp*365.24/float64(nt), st/float64(nt))
}

// SaveGob writes the forcing to a gob file
func (frc *Forcing) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf("Forcing.SaveGob: %w", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(frc); err != nil {
		return fmt.Errorf("Forcing.SaveGob: %w", err)
	}
	return nil
}

// LoadGobForcing reads a forcing written by SaveGob
func LoadGobForcing(fp string) (*Forcing, error) {
	var frc Forcing
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(&frc); err != nil {
		return nil, fmt.Errorf("LoadGobForcing: %w", err)
	}
	return &frc, nil
}
