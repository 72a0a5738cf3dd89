package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/episim/internal/dynamo"
	"github.com/san-kum/episim/internal/integrators"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/stat"
)

// DefaultRefine is the factor between the smallest study step and the
// reference step.
const DefaultRefine = 16

// ObservedOrder fits log(errs) = c + p*log(steps) by least squares and
// returns p.
func ObservedOrder(steps, errs []float64) (float64, error) {
	if len(steps) != len(errs) {
		return 0, fmt.Errorf("%w: %d steps but %d errors", dynamo.ErrInvalidValue, len(steps), len(errs))
	}
	if len(steps) < 2 {
		return 0, fmt.Errorf("%w: need at least 2 points, got %d", dynamo.ErrInsufficientData, len(steps))
	}

	logH := make([]float64, len(steps))
	logE := make([]float64, len(errs))
	for i := range steps {
		if !positiveFinite(steps[i]) {
			return 0, fmt.Errorf("%w: step %d is %g", dynamo.ErrInvalidValue, i, steps[i])
		}
		if !positiveFinite(errs[i]) {
			return 0, fmt.Errorf("%w: error %d is %g", dynamo.ErrInvalidValue, i, errs[i])
		}
		logH[i] = math.Log(steps[i])
		logE[i] = math.Log(errs[i])
	}

	if floats.Max(logH) == floats.Min(logH) {
		return 0, fmt.Errorf("%w: all steps equal", dynamo.ErrInvalidValue)
	}

	_, slope := stat.LinearRegression(logH, logE, nil, false)
	return slope, nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// MaxNormError compares values sampled at times against a reference
// trajectory, interpolated linearly and held constant past its ends.
func MaxNormError(times, values, refTimes, refValues []float64) (float64, error) {
	if len(times) != len(values) || len(times) == 0 {
		return 0, fmt.Errorf("%w: %d times but %d values", dynamo.ErrInvalidValue, len(times), len(values))
	}

	if len(refTimes) != len(refValues) {
		return 0, fmt.Errorf("%w: reference has %d times but %d values",
			dynamo.ErrInvalidValue, len(refTimes), len(refValues))
	}

	// Fit panics on a short or unordered reference
	if err := integrators.ValidateGrid(refTimes); err != nil {
		return 0, fmt.Errorf("%w: reference: %w", dynamo.ErrInvalidValue, err)
	}

	var pl interp.PiecewiseLinear
	_ = pl.Fit(refTimes, refValues)

	ref := make([]float64, len(times))
	for i, t := range times {
		ref[i] = pl.Predict(t)
	}
	return floats.Distance(values, ref, math.Inf(1)), nil
}

type ConvergenceResult struct {
	Steps     []float64
	Errors    []float64
	Order     float64
	RefStep   float64
	Component int
}

// Convergence integrates sys over [0, horizon] once per step and measures
// the max-norm error of compartment component against a reference run at
// min(steps)/refine. A negative component takes the worst compartment.
func Convergence(sys dynamo.System, y0 dynamo.State, horizon float64, steps []float64, component, refine int) (*ConvergenceResult, error) {
	if len(steps) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 steps, got %d", dynamo.ErrInsufficientData, len(steps))
	}
	if component >= len(y0) {
		return nil, fmt.Errorf("%w: compartment %d outside state of width %d",
			dynamo.ErrDimensionMismatch, component, len(y0))
	}
	if refine < 2 {
		refine = DefaultRefine
	}

	for i, h := range steps {
		if !positiveFinite(h) {
			return nil, fmt.Errorf("%w: step %d is %g", dynamo.ErrInvalidValue, i, h)
		}
	}

	refStep := floats.Min(steps) / float64(refine)
	refGrid, err := integrators.UniformGrid(0, horizon, refStep)
	if err != nil {
		return nil, err
	}
	ref, err := integrators.Integrate(sys, y0, refGrid)
	if err != nil {
		return nil, fmt.Errorf("reference run: %w", err)
	}

	res := &ConvergenceResult{
		Steps:     append([]float64(nil), steps...),
		Errors:    make([]float64, len(steps)),
		RefStep:   refStep,
		Component: component,
	}

	for i, h := range steps {
		grid, err := integrators.UniformGrid(0, horizon, h)
		if err != nil {
			return nil, err
		}
		traj, err := integrators.Integrate(sys, y0, grid)
		if err != nil {
			return nil, fmt.Errorf("step %g: %w", h, err)
		}

		res.Errors[i], err = trajectoryError(grid, traj, refGrid, ref, component)
		if err != nil {
			return nil, err
		}
	}

	res.Order, err = ObservedOrder(res.Steps, res.Errors)
	if err != nil {
		return res, err
	}
	return res, nil
}

func trajectoryError(grid []float64, traj dynamo.Trajectory, refGrid []float64, ref dynamo.Trajectory, component int) (float64, error) {
	if component >= 0 {
		return MaxNormError(grid, traj.Column(component), refGrid, ref.Column(component))
	}

	worst := 0.0
	for k := 0; k < traj.Dim(); k++ {
		e, err := MaxNormError(grid, traj.Column(k), refGrid, ref.Column(k))
		if err != nil {
			return 0, err
		}
		worst = math.Max(worst, e)
	}
	return worst, nil
}
