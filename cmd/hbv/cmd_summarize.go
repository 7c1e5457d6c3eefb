package main

import (
	"fmt"

	"github.com/maseology/hbv/store"
	"github.com/spf13/cobra"
)

func newSummarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize the stored calibrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			batch, _ := cmd.Flags().GetString("batch")
			nbins, _ := cmd.Flags().GetInt("bins")
			if nbins < 1 {
				return fmt.Errorf("--bins must be positive")
			}
			db, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if db == nil {
				return fmt.Errorf("no result database configured")
			}
			defer db.Close()

			var recs []store.Record
			if batch != "" {
				recs, err = db.Batch(cmd.Context(), batch)
			} else {
				recs, err = db.All(cmd.Context())
			}
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				return fmt.Errorf("%w: nothing to summarize", store.ErrNotFound)
			}
			summarize(recs, nbins).print(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().String("batch", "", "Only the calibrations of this batch")
	cmd.Flags().Int("bins", 10, "Number of NSE histogram bins")
	return cmd
}
