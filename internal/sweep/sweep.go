// Package sweep runs families of independent integrations concurrently:
// parameter sweeps for sensitivity and R0 studies, and step-size sweeps for
// stability studies. Each integration gets its own trajectory, and results
// come back in input order.
package sweep

import (
	"context"
	"fmt"
	"runtime"

	"github.com/san-kum/episim/internal/analysis"
	"github.com/san-kum/episim/internal/dynamo"
	"github.com/san-kum/episim/internal/integrators"
	"github.com/san-kum/episim/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

type Options struct {
	// Workers bounds concurrent integrations; 0 means GOMAXPROCS.
	Workers int
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// BuildFunc turns one swept value into a model.
type BuildFunc func(value float64) (models.Model, error)

// Vary builds a BuildFunc that replaces the named rate of base.
func Vary(base models.Model, param string) BuildFunc {
	return func(value float64) (models.Model, error) {
		return base.With(param, value)
	}
}

// Range returns n evenly spaced values from lo to hi inclusive.
func Range(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

type Point struct {
	Value      float64
	Model      models.Model
	Trajectory dynamo.Trajectory
}

// Parameters integrates one model per value over grid. The context is
// checked before each integration starts; a running integration is never
// interrupted.
func Parameters(ctx context.Context, values []float64, build BuildFunc, y0 dynamo.State, grid []float64, opts Options) ([]Point, error) {
	if err := integrators.ValidateGrid(grid); err != nil {
		return nil, err
	}

	points := make([]Point, len(values))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())

	for i, v := range values {
		i, v := i, v
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			m, err := build(v)
			if err != nil {
				return fmt.Errorf("value %g: %w", v, err)
			}

			logrus.WithFields(logrus.Fields{"value": v, "model": m.String()}).Debug("sweep: integrating")

			traj, err := integrators.Integrate(m, y0, grid)
			if err != nil {
				return fmt.Errorf("value %g: %w", v, err)
			}

			points[i] = Point{Value: v, Model: m, Trajectory: traj}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logrus.WithField("points", len(points)).Debug("sweep: parameters done")
	return points, nil
}

type StepRun struct {
	Step       float64
	Times      []float64
	Trajectory dynamo.Trajectory
}

// Steps integrates sys over [0, horizon] once per step size. Large steps
// are run as given, so instability shows up in the output.
func Steps(ctx context.Context, sys dynamo.System, y0 dynamo.State, horizon float64, steps []float64, opts Options) ([]StepRun, error) {
	runs := make([]StepRun, len(steps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())

	for i, h := range steps {
		i, h := i, h
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			grid, err := integrators.UniformGrid(0, horizon, h)
			if err != nil {
				return fmt.Errorf("step %g: %w", h, err)
			}

			logrus.WithFields(logrus.Fields{"dt": h, "points": len(grid)}).Debug("sweep: integrating")

			traj, err := integrators.Integrate(sys, y0, grid)
			if err != nil {
				return fmt.Errorf("step %g: %w", h, err)
			}

			if !traj.Last().IsValid() {
				logrus.WithField("dt", h).Warn("sweep: run diverged")
			}

			runs[i] = StepRun{Step: h, Times: grid, Trajectory: traj}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runs, nil
}

// Peaks returns the peak of compartment idx for every point.
func Peaks(points []Point, idx int) ([]float64, error) {
	out := make([]float64, len(points))
	for i, p := range points {
		v, _, err := analysis.Peak(p.Trajectory, idx)
		if err != nil {
			return nil, fmt.Errorf("value %g: %w", p.Value, err)
		}
		out[i] = v
	}
	return out, nil
}

// FinalSizes returns compartment idx at the last time point for every point.
func FinalSizes(points []Point, idx int) ([]float64, error) {
	out := make([]float64, len(points))
	for i, p := range points {
		v, err := analysis.FinalSize(p.Trajectory, idx)
		if err != nil {
			return nil, fmt.Errorf("value %g: %w", p.Value, err)
		}
		out[i] = v
	}
	return out, nil
}

func R0s(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Model.R0()
	}
	return out
}
