package main

import (
	"fmt"

	"github.com/san-kum/episim/internal/analysis"
	"github.com/san-kum/episim/internal/dynamo"
	"github.com/san-kum/episim/internal/storage"
	"github.com/san-kum/episim/internal/viz"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					run.Kind,
					run.Coupling,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					fmt.Sprintf("%.4f", run.R0),
					fmt.Sprintf("%.4g", run.Peak),
					fmt.Sprintf("%.4g", run.FinalSize),
					fmt.Sprintf("%g", run.Dt),
					fmt.Sprintf("%g", run.Duration),
				})
			}
			fmt.Println(viz.Table(
				[]string{"ID", "KIND", "COUPLING", "TIME", "R0", "PEAK I", "FINAL R", "DT", "T"},
				rows,
			))
			return nil
		},
	}
}

// loadRun reads a stored run and refuses empty trajectories.
func loadRun(runID string) (*storage.RunMetadata, []float64, dynamo.Trajectory, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	traj, times, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(traj) == 0 {
		return nil, nil, nil, fmt.Errorf("%w: run %s has no data", dynamo.ErrInsufficientData, runID)
	}
	return meta, times, traj, nil
}

func newPlotCmd() *cobra.Command {
	var separate bool
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, times, traj, err := loadRun(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("model: %s (%s)\n", meta.Kind, meta.Coupling)
			fmt.Printf("samples: %d over [%g, %g]\n\n", len(traj), times[0], times[len(times)-1])

			if !separate {
				graph, err := viz.Trajectory(traj, meta.Compartments, viz.DefaultWidth, viz.DefaultHeight)
				if err != nil {
					return err
				}
				fmt.Println(graph)
				return nil
			}

			for j := 0; j < traj.Dim(); j++ {
				caption := fmt.Sprintf("x%d vs time", j)
				if j < len(meta.Compartments) {
					caption = meta.Compartments[j] + " vs time"
				}
				graph, err := viz.Series(traj.Column(j), caption, viz.DefaultWidth, viz.DefaultHeight)
				if err != nil {
					return err
				}
				if j > 0 {
					fmt.Println(viz.Separator(viz.DefaultWidth))
				}
				fmt.Println(graph)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&separate, "separate", false, "one chart per compartment")
	return cmd
}

func newPhaseCmd() *cobra.Command {
	var xAxis, yAxis string
	cmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, _, traj, err := loadRun(args[0])
			if err != nil {
				return err
			}

			xIdx, err := compartmentIndex(meta.Compartments, xAxis)
			if err != nil {
				return err
			}
			yIdx, err := compartmentIndex(meta.Compartments, yAxis)
			if err != nil {
				return err
			}

			portrait, err := analysis.PhasePortrait(traj, xIdx, yIdx)
			if err != nil {
				return err
			}

			fmt.Printf("phase space plot: %s\n", meta.ID)
			fmt.Printf("x-axis: %s, y-axis: %s\n\n", xAxis, yAxis)
			fmt.Println(analysis.PhasePortraitToASCII(portrait, 70, 20))
			return nil
		},
	}
	cmd.Flags().StringVar(&xAxis, "x-axis", "S", "compartment for x-axis")
	cmd.Flags().StringVar(&yAxis, "y-axis", "I", "compartment for y-axis")
	return cmd
}

func compartmentIndex(compartments []string, name string) (int, error) {
	for i, c := range compartments {
		if c == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: no compartment %q in %v", dynamo.ErrDimensionMismatch, name, compartments)
}

func newExportJSONCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, times, traj, err := loadRun(args[0])
			if err != nil {
				return err
			}
			return storage.ExportJSON(out, *meta, times, traj)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	return cmd
}
