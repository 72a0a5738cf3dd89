package main

import (
	"fmt"
	"time"

	"github.com/san-kum/episim/internal/analysis"
	"github.com/san-kum/episim/internal/config"
	"github.com/san-kum/episim/internal/dynamo"
	"github.com/san-kum/episim/internal/integrators"
	"github.com/san-kum/episim/internal/metrics"
	"github.com/san-kum/episim/internal/storage"
	"github.com/san-kum/episim/internal/viz"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var (
		scn    scenarioFlags
		noPlot bool
	)
	cmd := &cobra.Command{
		Use:   "run [model]",
		Short: "integrate a scenario and store the run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := scn.resolve(cmd, args)
			if err != nil {
				return err
			}
			m, y0, grid, err := cfg.Build()
			if err != nil {
				return err
			}

			st := storage.New(dataDir)
			if err := st.Init(); err != nil {
				return err
			}

			log := logrus.WithFields(logrus.Fields{"model": m.String(), "points": len(grid)})
			log.Info("running simulation")
			start := time.Now()

			traj, err := integrators.Integrate(m, y0, grid)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			if !traj.Last().IsValid() {
				log.WithField("dt", cfg.Dt).Warn("trajectory diverged, try a smaller --dt")
				return fmt.Errorf("%w: run diverged at dt=%g, not saved", dynamo.ErrInvalidValue, cfg.Dt)
			}

			peak, peakIdx, err := analysis.Peak(traj, m.InfectedIndex())
			if err != nil {
				return err
			}
			final, err := analysis.FinalSize(traj, m.RecoveredIndex())
			if err != nil {
				return err
			}

			meta := storage.RunMetadata{
				Model:        cfg.Model,
				Kind:         m.Kind().String(),
				Coupling:     m.Coupling().String(),
				Compartments: m.Compartments(),
				Params:       m.GetParams(),
				R0:           m.R0(),
				Peak:         peak,
				PeakTime:     grid[peakIdx],
				FinalSize:    final,
				Dt:           cfg.Dt,
				Duration:     cfg.Duration,
				Metrics:      metrics.Evaluate(traj, grid, metrics.Default()...),
			}
			runID, err := st.Save(meta, grid, traj)
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{"id": runID, "elapsed": elapsed}).Info("run stored")

			fmt.Println(viz.Summary(m.String(), []viz.Metric{
				{Label: "run id", Value: runID},
				{Label: "steps", Value: fmt.Sprint(len(grid) - 1)},
				{Label: "elapsed", Value: elapsed.String()},
				{Label: "R0", Value: fmt.Sprintf("%.4f", meta.R0)},
				{Label: "peak I", Value: fmt.Sprintf("%.6g at t=%.2f", peak, meta.PeakTime)},
				{Label: "final R", Value: fmt.Sprintf("%.6g", final)},
				{Label: "total N(T)", Value: fmt.Sprintf("%.6g", traj.Last().Sum())},
				{Label: "N drift", Value: fmt.Sprintf("%.3e", meta.Metrics["population_drift"])},
			}))
			fmt.Println("I  " + viz.SparklineChart(traj.Column(m.InfectedIndex()), 60))

			if noPlot {
				return nil
			}
			graph, err := viz.Trajectory(traj, m.Compartments(), viz.DefaultWidth, viz.DefaultHeight)
			if err != nil {
				return err
			}
			fmt.Println()
			fmt.Println(graph)
			return nil
		},
	}
	scn.register(cmd)
	cmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip the trajectory chart")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, name := range presets {
				p := config.GetPreset(args[0], name)
				fmt.Printf("  %-12s %s\n", name, viz.Subtle.Render(describePreset(p)))
			}
			return nil
		},
	}
}

func describePreset(c *config.Config) string {
	m, err := c.BuildModel()
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("%s, R0=%.2f, T=%g, dt=%g", m, m.R0(), c.Duration, c.Dt)
}
