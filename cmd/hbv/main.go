package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/maseology/hbv/internal/log"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hbv",
		Short: "HBV lumped rainfall-runoff model",
		Long: `hbv simulates daily streamflow with the HBV model (snow, soil moisture and
groundwater response routines, optional triangular routing).

It calibrates single stations or batches of independent stations, samples
the parameter space and keeps calibration results in a local database.`,
		SilenceUsage: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Sync()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Configuration file (default ./hbv.yaml when present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Debug logging")

	rootCmd.AddCommand(
		newVersionCmd(),
		newSimulateCmd(),
		newCalibrateCmd(),
		newBatchCmd(),
		newSampleCmd(),
		newSummarizeCmd(),
	)
	return rootCmd
}
