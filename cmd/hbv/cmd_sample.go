package main

import (
	"fmt"
	"path/filepath"

	"github.com/maseology/hbv"
	"github.com/maseology/hbv/internal/log"
	"github.com/spf13/cobra"
)

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample <station>",
		Short: "Monte Carlo sampling of the parameter space",
		Long: `Evaluate n parameter sets drawn by Latin hypercube sampling within the
calibration bounds. The sample space and the scored samples are written to
the output directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			n, _ := cmd.Flags().GetInt("n")
			top, _ := cmd.Flags().GetInt("top")
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

			prfx := filepath.Join(cfg.Output.Dir, st.ID+".")
			smpls, err := hbv.GenerateSamples(cmd.Context(), hbv.NewForcing(st), st.Qobs, n, co, prfx)
			if err != nil {
				return err
			}
			fp := filepath.Join(cfg.Output.Dir, "samples_"+st.ID+".csv")
			if err := hbv.WriteSampleCSV(fp, smpls, cfg.Model.Routing); err != nil {
				return err
			}
			log.Infow("sampled", "station", st.ID, "samples", n, "output", fp)

			fmt.Fprintf(cmd.OutOrStdout(), "%8s %10s\n", "sample", co.Objective)
			for _, s := range smpls[:min(top, len(smpls))] {
				fmt.Fprintf(cmd.OutOrStdout(), "%8d %10.4f\n", s.Index, s.Score)
			}
			return nil
		},
	}
	cmd.Flags().IntP("n", "n", 1000, "Number of samples")
	cmd.Flags().Int("top", 10, "Number of best samples printed")
	return cmd
}
