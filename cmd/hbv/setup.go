package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/maseology/hbv"
	"github.com/maseology/hbv/config"
	"github.com/maseology/hbv/forcing"
	"github.com/maseology/hbv/internal/log"
	"github.com/maseology/hbv/store"
	"github.com/spf13/cobra"
)

// setup loads the configuration, initializes logging and creates the output directory.
func setup(cmd *cobra.Command) (*config.Config, error) {
	fp, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(fp)
	if err != nil {
		return nil, err
	}
	debug, _ := cmd.Flags().GetBool("debug")
	if err := log.Init(debug || cfg.Log.Debug); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return cfg, nil
}

// stationID extracts the station ID from an input file name, falling back to
// the name without extension.
func stationID(pattern, fp string) string {
	nam := filepath.Base(fp)
	if re, err := regexp.Compile(pattern); err == nil {
		if m := re.FindStringSubmatch(nam); len(m) > 1 {
			return m[1]
		}
	}
	return strings.TrimSuffix(nam, filepath.Ext(nam))
}

// loadStation reads a station given either its input file or its ID.
func loadStation(cfg *config.Config, arg string) (*forcing.Station, error) {
	if _, err := os.Stat(arg); err == nil {
		return forcing.LoadStation(arg, stationID(cfg.Data.Pattern, arg))
	}
	return forcing.LoadStation(forcing.StationPath(cfg.Data.Dir, arg), arg)
}

// openStore opens the result database, nil when disabled.
func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	fp := cfg.DatabasePath()
	if fp == "" {
		return nil, nil
	}
	return store.Open(ctx, fp)
}

// writeResults writes the parameter, score and hydrograph files of a calibration.
func writeResults(cfg *config.Config, cal *hbv.Calibration, st *forcing.Station) error {
	dir := cfg.Output.Dir
	if err := hbv.WriteParameterCSV(filepath.Join(dir, "param_"+cal.Station+".csv"), cal); err != nil {
		return err
	}
	if err := hbv.WriteScoreCSV(filepath.Join(dir, "nse_"+cal.Station+".csv"), cal); err != nil {
		return err
	}
	opts := cfg.ModelOptions()
	opts.Routing = cal.Routing
	out, err := hbv.Simulate(&cal.Params, hbv.NewForcing(st), opts)
	if err != nil {
		return err
	}
	return hbv.WriteHydrographCSV(filepath.Join(dir, "hyd_"+cal.Station+".csv"), st.T, st.Qobs, out)
}
