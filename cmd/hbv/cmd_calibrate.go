package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/maseology/hbv"
	"github.com/maseology/hbv/internal/log"
	"github.com/spf13/cobra"
)

func newCalibrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibrate <station>",
		Short: "Calibrate the model to a station's observed flows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			if m, _ := cmd.Flags().GetString("method"); m != "" {
				cfg.Calibration.Method = m
			}
			co, err := cfg.CalibrationOptions()
			if err != nil {
				return err
			}

			st, err := loadStation(cfg, args[0])
			if err != nil {
				return err
			}
			if until := cfg.Until(); !until.IsZero() {
				st = st.Before(until)
			}
			if !st.HasObservations() {
				return fmt.Errorf("station %s has no observed flows", st.ID)
			}

			cal, err := hbv.Calibrate(cmd.Context(), st.ID, hbv.NewForcing(st), st.Qobs, co)
			if err != nil {
				return err
			}
			if err := writeResults(cfg, cal, st); err != nil {
				return err
			}
			db, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
				id, err := db.Save(cmd.Context(), uuid.NewString(), cal)
				if err != nil {
					return err
				}
				log.Debugw("stored calibration", "station", st.ID, "record", id)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", st.ID, cal)
			for i, v := range cal.Params.Slice(cal.Routing) {
				fmt.Fprintf(cmd.OutOrStdout(), " %10s: %.4f\n", hbv.ParameterNames[i], v)
			}
			return nil
		},
	}
	cmd.Flags().String("method", "", "Override the calibration method (genetic, cmaes, neldermead)")
	return cmd
}
