package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/episim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// gridSlack absorbs rounding when (t1-t0)/dt is meant to be an integer.
const gridSlack = 1e-9

// ValidateGrid checks that grid has at least two points and strictly increases.
func ValidateGrid(grid []float64) error {
	if len(grid) < 2 {
		return fmt.Errorf("%w: need at least 2 points, got %d", dynamo.ErrInvalidGrid, len(grid))
	}
	for i := 1; i < len(grid); i++ {
		// negated so NaN differences fail too
		if !(grid[i]-grid[i-1] > 0) {
			return fmt.Errorf("%w: t[%d]=%g does not exceed t[%d]=%g",
				dynamo.ErrInvalidGrid, i, grid[i], i-1, grid[i-1])
		}
	}
	return nil
}

// Linspace returns n evenly spaced points from t0 to t1 inclusive.
func Linspace(t0, t1 float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", dynamo.ErrInvalidGrid, n)
	}
	if !(t1 > t0) || math.IsInf(t1-t0, 0) {
		return nil, fmt.Errorf("%w: empty interval [%g, %g]", dynamo.ErrInvalidGrid, t0, t1)
	}
	return floats.Span(make([]float64, n), t0, t1), nil
}

// UniformGrid returns t0, t0+dt, ... up to t1. The end point is included
// when it lies on the grid up to rounding.
func UniformGrid(t0, t1, dt float64) ([]float64, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w: step must be positive, got %g", dynamo.ErrInvalidGrid, dt)
	}
	if !(t1 > t0) || math.IsInf(t1-t0, 0) {
		return nil, fmt.Errorf("%w: empty interval [%g, %g]", dynamo.ErrInvalidGrid, t0, t1)
	}

	n := int(math.Floor((t1-t0)/dt+gridSlack)) + 1
	if n < 2 {
		return nil, fmt.Errorf("%w: step %g exceeds interval [%g, %g]", dynamo.ErrInvalidGrid, dt, t0, t1)
	}

	grid := make([]float64, n)
	for i := range grid {
		grid[i] = t0 + float64(i)*dt
	}
	return grid, nil
}
