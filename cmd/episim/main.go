package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "episim",
		Short:         "RK4 engine for SIR and SEIR epidemic models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".episim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(
		newRunCmd(),
		newListCmd(),
		newPlotCmd(),
		newPhaseCmd(),
		newExportJSONCmd(),
		newPresetsCmd(),
		newSweepCmd(),
		newConvergenceCmd(),
		newStabilityCmd(),
		newEigenCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.Error(err)
		stop()
		os.Exit(1)
	}
}
