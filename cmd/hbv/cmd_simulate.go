package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/maseology/hbv"
	"github.com/maseology/hbv/config"
	"github.com/maseology/hbv/internal/log"
	"github.com/maseology/hbv/objfunc"
	"github.com/spf13/cobra"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <station>",
		Short: "Run the model over a station record",
		Long: `Run the model over a station record, given as an input file or a station ID
found in the data directory. Parameters are read from --params (yaml, csv or
gob), otherwise the latest calibration of the station in the result database
is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			fp, _ := cmd.Flags().GetString("params")
			bins, _ := cmd.Flags().GetBool("bins")
			progress, _ := cmd.Flags().GetBool("progress")

			st, err := loadStation(cfg, args[0])
			if err != nil {
				return err
			}
			par, routing, err := loadParameters(cmd, cfg, fp, st.ID)
			if err != nil {
				return err
			}
			opts := cfg.ModelOptions()
			opts.Routing = routing
			ev, err := hbv.NewEvaluator(par, opts)
			if err != nil {
				return err
			}
			frc := hbv.NewForcing(st)

			var out *hbv.Output
			if progress {
				prfx := ""
				if bins {
					prfx = filepath.Join(cfg.Output.Dir, st.ID+".")
				}
				out, err = ev.EvaluateSerial(frc, prfx)
			} else {
				out, err = ev.Run(frc)
				if err == nil && bins {
					err = out.SaveToBins(frc.T, filepath.Join(cfg.Output.Dir, st.ID+"."))
				}
			}
			if err != nil {
				return err
			}

			hfp := filepath.Join(cfg.Output.Dir, "hyd_"+st.ID+".csv")
			if err := hbv.WriteHydrographCSV(hfp, st.T, st.Qobs, out); err != nil {
				return err
			}
			log.Infow("simulated", "station", st.ID, "days", frc.Len(), "output", hfp)
			if st.HasObservations() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", st.ID, objfunc.Evaluate(st.Qobs, out.Q))
			}
			return nil
		},
	}
	cmd.Flags().StringP("params", "p", "", "Parameter file (.yaml, .csv or .gob)")
	cmd.Flags().Bool("bins", false, "Also write the output series as float32 binaries")
	cmd.Flags().Bool("progress", false, "Show a progress bar")
	return cmd
}

// loadParameters reads a parameter file, or the latest stored calibration of
// the station when fp is empty. It returns whether the set carries routing.
func loadParameters(cmd *cobra.Command, cfg *config.Config, fp, station string) (*hbv.ParameterSet, bool, error) {
	switch strings.ToLower(filepath.Ext(fp)) {
	case "":
		if fp != "" {
			break
		}
		db, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return nil, false, err
		}
		if db == nil {
			return nil, false, fmt.Errorf("no parameter file given and no result database configured")
		}
		defer db.Close()
		r, err := db.Latest(cmd.Context(), station)
		if err != nil {
			return nil, false, err
		}
		return &r.Calibration.Params, r.Calibration.Routing, nil
	case ".yaml", ".yml":
		par, err := hbv.LoadYAMLParameterSet(fp)
		return par, cfg.Model.Routing, err
	case ".csv":
		par, _, routing, err := hbv.ReadParameterCSV(fp)
		return par, routing, err
	case ".gob":
		par, err := hbv.LoadGobParameterSet(fp)
		return par, cfg.Model.Routing, err
	}
	return nil, false, fmt.Errorf("unsupported parameter file %s", fp)
}
