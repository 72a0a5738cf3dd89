package main

import (
	"fmt"
	"strings"

	"github.com/san-kum/episim/internal/analysis"
	"github.com/san-kum/episim/internal/dynamo"
	"github.com/san-kum/episim/internal/metrics"
	"github.com/san-kum/episim/internal/models"
	"github.com/san-kum/episim/internal/sweep"
	"github.com/san-kum/episim/internal/viz"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	var (
		scn      scenarioFlags
		param    string
		from, to float64
		n        int
		workers  int
	)
	cmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "vary one rate and report peak and final size",
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
			if n < 2 {
				return fmt.Errorf("%w: --n must be at least 2, got %d", dynamo.ErrInvalidValue, n)
			}

			values := sweep.Range(from, to, n)
			points, err := sweep.Parameters(cmd.Context(), values, sweep.Vary(m, param), y0, grid, sweep.Options{Workers: workers})
			if err != nil {
				return err
			}

			peaks, err := sweep.Peaks(points, m.InfectedIndex())
			if err != nil {
				return err
			}
			finals, err := sweep.FinalSizes(points, m.RecoveredIndex())
			if err != nil {
				return err
			}
			r0s := sweep.R0s(points)

			rows := make([][]string, len(points))
			for i, p := range points {
				rows[i] = []string{
					fmt.Sprintf("%.4g", p.Value),
					fmt.Sprintf("%.4f", r0s[i]),
					fmt.Sprintf("%.6g", peaks[i]),
					fmt.Sprintf("%.6g", finals[i]),
				}
			}
			fmt.Println(viz.Table([]string{strings.ToUpper(param), "R0", "PEAK I", "FINAL R"}, rows))

			graph, err := viz.Series(finals, fmt.Sprintf("final R vs %s in [%g, %g]", param, from, to), viz.DefaultWidth, viz.DefaultHeight)
			if err != nil {
				return err
			}
			fmt.Println(graph)
			return nil
		},
	}
	scn.register(cmd)
	cmd.Flags().StringVar(&param, "param", "beta", "rate to vary (beta, gamma, sigma, mu, nu)")
	cmd.Flags().Float64Var(&from, "from", 0.05, "first value")
	cmd.Flags().Float64Var(&to, "to", 0.5, "last value")
	cmd.Flags().IntVar(&n, "n", 10, "number of values")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent integrations, 0 for GOMAXPROCS")
	return cmd
}

func newConvergenceCmd() *cobra.Command {
	var (
		scn       scenarioFlags
		steps     []float64
		component string
		refine    int
	)
	cmd := &cobra.Command{
		Use:   "convergence [model]",
		Short: "measure the observed order of the integrator",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := scn.resolve(cmd, args)
			if err != nil {
				return err
			}
			m, y0, _, err := cfg.Build()
			if err != nil {
				return err
			}

			idx := -1
			if component != "all" {
				if idx = m.Index(component); idx < 0 {
					return fmt.Errorf("%w: no compartment %q in %v", dynamo.ErrDimensionMismatch, component, m.Compartments())
				}
			}

			res, err := analysis.Convergence(m, y0, cfg.Duration, steps, idx, refine)
			if res == nil {
				return err
			}

			rows := make([][]string, len(res.Steps))
			for i := range res.Steps {
				ratio := "-"
				if i > 0 && res.Errors[i] > 0 {
					ratio = fmt.Sprintf("%.2f", res.Errors[i-1]/res.Errors[i])
				}
				rows[i] = []string{
					fmt.Sprintf("%g", res.Steps[i]),
					fmt.Sprintf("%.3e", res.Errors[i]),
					ratio,
				}
			}
			fmt.Printf("reference step %g, compartment %s\n", res.RefStep, component)
			fmt.Println(viz.Table([]string{"DT", "MAX ERROR", "RATIO"}, rows))
			if err != nil {
				return err
			}
			fmt.Println(viz.Summary("convergence", []viz.Metric{
				{Label: "observed order", Value: fmt.Sprintf("%.3f", res.Order)},
			}))
			return nil
		},
	}
	scn.register(cmd)
	cmd.Flags().Float64SliceVar(&steps, "steps", []float64{1, 0.5, 0.25, 0.125}, "step sizes to compare")
	cmd.Flags().StringVar(&component, "component", "I", "compartment to measure, or all")
	cmd.Flags().IntVar(&refine, "refine", analysis.DefaultRefine, "reference step is min(steps)/refine")
	return cmd
}

func newStabilityCmd() *cobra.Command {
	var (
		scn     scenarioFlags
		steps   []float64
		workers int
	)
	cmd := &cobra.Command{
		Use:   "stability [model]",
		Short: "compare runs across step sizes, large steps included",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := scn.resolve(cmd, args)
			if err != nil {
				return err
			}
			m, y0, _, err := cfg.Build()
			if err != nil {
				return err
			}

			runs, err := sweep.Steps(cmd.Context(), m, y0, cfg.Duration, steps, sweep.Options{Workers: workers})
			if err != nil {
				return err
			}

			ref := runs[0]
			for _, r := range runs[1:] {
				if r.Step < ref.Step {
					ref = r
				}
			}
			iIdx := m.InfectedIndex()
			refI := ref.Trajectory.Column(iIdx)

			positivity := metrics.NewPositivity(0)
			rows := make([][]string, len(runs))
			for k, r := range runs {
				metrics.Evaluate(r.Trajectory, r.Times, positivity)
				last := r.Trajectory.Last()
				status, deviation := "ok", "-"
				switch {
				case !last.IsValid():
					status = viz.Warning.Render("diverged")
				case positivity.Value() < 1:
					status = viz.Warning.Render("negative")
				}
				if r.Step != ref.Step {
					d, err := analysis.MaxNormError(r.Times, r.Trajectory.Column(iIdx), ref.Times, refI)
					if err != nil {
						return err
					}
					deviation = fmt.Sprintf("%.3e", d)
				}
				rows[k] = []string{
					fmt.Sprintf("%g", r.Step),
					fmt.Sprint(len(r.Times) - 1),
					fmt.Sprintf("%.6g", last[iIdx]),
					deviation,
					status,
				}
			}

			fmt.Printf("reference step %g\n", ref.Step)
			fmt.Println(viz.Table([]string{"DT", "STEPS", "FINAL I", "MAX |I - I_REF|", "STATUS"}, rows))
			return nil
		},
	}
	scn.register(cmd)
	cmd.Flags().Float64SliceVar(&steps, "steps", []float64{5, 1, 0.1}, "step sizes to compare")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent integrations, 0 for GOMAXPROCS")
	return cmd
}

func newEigenCmd() *cobra.Command {
	var (
		scn scenarioFlags
		dfe bool
	)
	cmd := &cobra.Command{
		Use:   "eigen [model]",
		Short: "eigenvalues of the linearised model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := scn.resolve(cmd, args)
			if err != nil {
				return err
			}
			m, y0, _, err := cfg.Build()
			if err != nil {
				return err
			}

			at := y0
			if dfe {
				at = diseaseFree(m, y0)
			}
			logrus.WithField("state", at).Debug("linearising")

			jac, err := analysis.Jacobian(m, at)
			if err != nil {
				return err
			}
			eigs, err := analysis.Eigenvalues(jac)
			if err != nil {
				return err
			}

			metrics := make([]viz.Metric, 0, len(eigs)+3)
			metrics = append(metrics, viz.Metric{Label: "state", Value: fmt.Sprint(at)})
			for k, e := range eigs {
				metrics = append(metrics, viz.Metric{
					Label: fmt.Sprintf("lambda_%d", k+1),
					Value: fmt.Sprintf("%.6g %+.6gi", real(e), imag(e)),
				})
			}
			abscissa := analysis.SpectralAbscissa(eigs)
			verdict := "decaying"
			if abscissa > 0 {
				verdict = viz.Warning.Render("growing")
			}
			metrics = append(metrics,
				viz.Metric{Label: "abscissa", Value: fmt.Sprintf("%.6g (%s)", abscissa, verdict)},
				viz.Metric{Label: "R0", Value: fmt.Sprintf("%.4f", m.R0())},
			)
			fmt.Println(viz.Summary(m.String(), metrics))
			return nil
		},
	}
	scn.register(cmd)
	cmd.Flags().BoolVar(&dfe, "dfe", false, "linearise at the disease-free equilibrium instead of the initial state")
	return cmd
}

// diseaseFree returns the infection-free equilibrium. Density coupling with
// demography settles at a unit population whatever the initial total.
// Vaccination moves the balance from S to R.
func diseaseFree(m models.Model, y0 dynamo.State) dynamo.State {
	p := m.Params()
	total := y0.Sum()
	if m.Kind().HasDemography() && m.Coupling() == models.Density {
		total = 1
	}

	x := make(dynamo.State, len(y0))
	r := m.RecoveredIndex()
	switch {
	case m.Kind().HasDemography() && p.Mu+p.Nu > 0:
		x[0] = total * p.Mu / (p.Mu + p.Nu)
		x[r] = total * p.Nu / (p.Mu + p.Nu)
	case p.Nu > 0:
		x[r] = total
	default:
		x[0] = total
	}
	return x
}
