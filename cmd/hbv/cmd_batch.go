package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/gosuri/uiprogress"
	"github.com/maseology/hbv"
	"github.com/maseology/hbv/config"
	"github.com/maseology/hbv/forcing"
	"github.com/maseology/hbv/internal/log"
	"github.com/maseology/hbv/store"
	"github.com/spf13/cobra"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Calibrate every station of the data directory",
		Long: `Calibrate independent stations concurrently. Stations are read from the
configured station list, otherwise discovered in the data directory by file
name pattern. A failing station is reported and does not stop the batch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			co, err := cfg.CalibrationOptions()
			if err != nil {
				return err
			}
			units, err := batchUnits(cfg)
			if err != nil {
				return err
			}
			if len(units) == 0 {
				return fmt.Errorf("no stations found in %s", cfg.Data.Dir)
			}
			db, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
			}
			batch := uuid.NewString()
			log.Infow("batch started", "batch", batch, "stations", len(units), "method", co.Method)

			prg := uiprogress.New()
			prg.Start()
			bar := prg.AddBar(len(units)).AppendCompleted().PrependElapsed()
			res := hbv.RunBatch(cmd.Context(), units, hbv.BatchOptions{
				Calibration: co,
				Until:       cfg.Until(),
				Workers:     cfg.Batch.Workers,
				Progress:    func(hbv.BatchResult) { bar.Incr() },
			})
			prg.Stop()

			nfail := 0
			for i, r := range res {
				if r.Err == nil && units[i].Path != "" {
					r.Err = storeResult(cmd, cfg, db, batch, units[i], r.Calibration)
				}
				if r.Err != nil {
					nfail++
					log.Errorw("station failed", "station", r.Station, "error", r.Err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", r.Station, r.Calibration)
			}
			log.Infow("batch complete", "batch", batch, "stations", len(units), "failed", nfail)
			if nfail == len(units) {
				return fmt.Errorf("all %d stations failed", nfail)
			}
			return nil
		},
	}
	return cmd
}

func batchUnits(cfg *config.Config) ([]hbv.Unit, error) {
	if cfg.Data.Stations != "" {
		ids, err := forcing.ReadStationList(cfg.Data.Stations)
		if err != nil {
			return nil, err
		}
		units := make([]hbv.Unit, len(ids))
		for i, id := range ids {
			units[i] = hbv.Unit{ID: id, Path: forcing.StationPath(cfg.Data.Dir, id)}
		}
		return units, nil
	}
	srcs, err := forcing.DiscoverStations(cfg.Data.Dir, cfg.Data.Pattern)
	if err != nil {
		return nil, err
	}
	units := make([]hbv.Unit, len(srcs))
	for i, s := range srcs {
		units[i] = hbv.Unit{ID: s.ID, Path: s.Path}
	}
	return units, nil
}

// storeResult writes the result files of a unit and saves it to the database.
func storeResult(cmd *cobra.Command, cfg *config.Config, db *store.Store, batch string, u hbv.Unit, cal *hbv.Calibration) error {
	st, err := forcing.LoadStation(u.Path, u.ID)
	if err != nil {
		return err
	}
	if until := cfg.Until(); !until.IsZero() {
		st = st.Before(until)
	}
	if err := writeResults(cfg, cal, st); err != nil {
		return err
	}
	if db == nil {
		return nil
	}
	_, err = db.Save(cmd.Context(), batch, cal)
	return err
}
