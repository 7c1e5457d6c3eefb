package hbv

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/maseology/hbv/gwru"
	"github.com/maseology/hbv/hru"
	"github.com/maseology/hbv/snowpack"
	"gopkg.in/yaml.v3"
)

const (
	nParam        = 14 // lumped model
	nParamRouting = 15 // with triangular routing
)

// ParameterNames in vector order
var ParameterNames = []string{"fc", "beta", "lp", "sfcf", "tt", "cfmax", "cfr", "cwh", "k0", "k1", "k2", "uzl", "perc", "coeff_pet", "maxbas"}

// ParameterSet of the HBV model
type ParameterSet struct {
	FC       float64 `yaml:"fc"`        // maximum soil moisture storage, field capacity [mm]
	Beta     float64 `yaml:"beta"`      // shape coefficient governing the fate of water input to soil moisture
	LP       float64 `yaml:"lp"`        // fraction of fc above which actual ET reaches potential ET
	SFCF     float64 `yaml:"sfcf"`      // snowfall correction factor
	TT       float64 `yaml:"tt"`        // threshold temperature [°C]
	CFMax    float64 `yaml:"cfmax"`     // degree-day factor [mm/°C/d]
	CFR      float64 `yaml:"cfr"`       // refreezing coefficient (usually fixed .05)
	CWH      float64 `yaml:"cwh"`       // water holding capacity of the snowpack (usually fixed .1)
	K0       float64 `yaml:"k0"`        // recession constant, upper storage near surface [1/d]
	K1       float64 `yaml:"k1"`        // recession constant, upper storage [1/d]
	K2       float64 `yaml:"k2"`        // recession constant, lower storage [1/d]
	UZL      float64 `yaml:"uzl"`       // upper storage threshold for shallow flow [mm]
	Perc     float64 `yaml:"perc"`      // maximum percolation rate from upper to lower storage [mm/d]
	CoeffPET float64 `yaml:"coeff_pet"` // potential evapotranspiration coefficient
	MaxBas   float64 `yaml:"maxbas,omitempty"` // base of the triangular weighting function [d]
}

// NumParameters returns the vector length for the model variant.
func NumParameters(routing bool) int {
	if routing {
		return nParamRouting
	}
	return nParam
}

// FromSlice builds a parameter set from an ordered vector. The vector length
// must match the model variant.
func FromSlice(v []float64, routing bool) (ParameterSet, error) {
	if n := NumParameters(routing); len(v) != n {
		return ParameterSet{}, fmt.Errorf("%w: expecting %d parameters (routing=%t), got %d", ErrConfig, n, routing, len(v))
	}
	p := ParameterSet{
		FC:       v[0],
		Beta:     v[1],
		LP:       v[2],
		SFCF:     v[3],
		TT:       v[4],
		CFMax:    v[5],
		CFR:      v[6],
		CWH:      v[7],
		K0:       v[8],
		K1:       v[9],
		K2:       v[10],
		UZL:      v[11],
		Perc:     v[12],
		CoeffPET: v[13],
	}
	if routing {
		p.MaxBas = v[14]
	}
	return p, nil
}

// Slice returns the ordered parameter vector.
func (p *ParameterSet) Slice(routing bool) []float64 {
	v := []float64{p.FC, p.Beta, p.LP, p.SFCF, p.TT, p.CFMax, p.CFR, p.CWH, p.K0, p.K1, p.K2, p.UZL, p.Perc, p.CoeffPET}
	if routing {
		v = append(v, p.MaxBas)
	}
	return v
}

func (p *ParameterSet) snow() snowpack.Params {
	return snowpack.Params{TT: p.TT, SFCF: p.SFCF, CFMax: p.CFMax, CFR: p.CFR, CWH: p.CWH}
}

func (p *ParameterSet) soil() hru.Params {
	return hru.Params{FC: p.FC, Beta: p.Beta, LP: p.LP}
}

func (p *ParameterSet) response() gwru.Params {
	return gwru.Params{K0: p.K0, K1: p.K1, K2: p.K2, UZL: p.UZL, Perc: p.Perc}
}

// SaveGob writes the parameter set to a gob file
func (p *ParameterSet) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf("ParameterSet.SaveGob: %w", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(p); err != nil {
		return fmt.Errorf("ParameterSet.SaveGob: %w", err)
	}
	return nil
}

// LoadGobParameterSet reads a parameter set written by SaveGob
func LoadGobParameterSet(fp string) (*ParameterSet, error) {
	var p ParameterSet
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(&p); err != nil {
		return nil, fmt.Errorf("LoadGobParameterSet: %w", err)
	}
	return &p, nil
}

// SaveYAML writes the named parameters to a yaml file
func (p *ParameterSet) SaveYAML(fp string) error {
	b, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("ParameterSet.SaveYAML: %w", err)
	}
	return os.WriteFile(fp, b, 0644)
}

// LoadYAMLParameterSet reads a named parameter file
func LoadYAMLParameterSet(fp string) (*ParameterSet, error) {
	b, err := os.ReadFile(fp)
	if err != nil {
		return nil, err
	}
	var p ParameterSet
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("LoadYAMLParameterSet %s: %w", fp, err)
	}
	return &p, nil
}
