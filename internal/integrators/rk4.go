package integrators

import (
	"fmt"

	"github.com/san-kum/episim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// RK4 is the classic fixed-step fourth-order Runge-Kutta stepper. It keeps
// scratch buffers between steps, so a single RK4 must not be shared across
// goroutines.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

// Step advances x from t to t+dt and returns the new state.
func (r *RK4) Step(sys dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, error) {
	result := make(dynamo.State, len(x))
	if err := r.stepInto(result, sys, x, t, dt); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *RK4) stepInto(dst dynamo.State, sys dynamo.System, x dynamo.State, t, dt float64) error {
	n := len(x)
	r.ensureScratch(n)

	if err := derive(r.k1, sys, x, t); err != nil {
		return err
	}

	floats.AddScaledTo(r.scratch, x, dt*0.5, r.k1)
	if err := derive(r.k2, sys, r.scratch, t+dt*0.5); err != nil {
		return err
	}

	floats.AddScaledTo(r.scratch, x, dt*0.5, r.k2)
	if err := derive(r.k3, sys, r.scratch, t+dt*0.5); err != nil {
		return err
	}

	floats.AddScaledTo(r.scratch, x, dt, r.k3)
	if err := derive(r.k4, sys, r.scratch, t+dt); err != nil {
		return err
	}

	// dst = x + dt/6 * (k1 + 2k2 + 2k3 + k4)
	for i := 0; i < n; i++ {
		r.scratch[i] = r.k1[i] + 2*r.k2[i] + 2*r.k3[i] + r.k4[i]
	}
	floats.AddScaledTo(dst, x, dt/6.0, r.scratch)
	return nil
}

func derive(dst dynamo.State, sys dynamo.System, x dynamo.State, t float64) error {
	dx := sys.Derive(x, t)
	if len(dx) != len(x) {
		return fmt.Errorf("%w: derivative has %d components, state has %d",
			dynamo.ErrDimensionMismatch, len(dx), len(x))
	}
	copy(dst, dx)
	return nil
}

// Integrate solves sys over grid starting from y0. Row n of the result holds
// the state at grid[n]; the step is recomputed per interval so non-uniform
// grids are supported. Negative compartments are never clamped.
func (r *RK4) Integrate(sys dynamo.System, y0 dynamo.State, grid []float64) (dynamo.Trajectory, error) {
	if err := ValidateGrid(grid); err != nil {
		return nil, err
	}

	traj := dynamo.NewTrajectory(len(grid), len(y0))
	copy(traj[0], y0)

	for n := 0; n < len(grid)-1; n++ {
		dt := grid[n+1] - grid[n]
		if err := r.stepInto(traj[n+1], sys, traj[n], grid[n], dt); err != nil {
			return nil, &dynamo.SimulationError{
				Step:    n,
				Time:    grid[n],
				State:   traj[n].Clone(),
				Wrapped: err,
			}
		}
	}

	return traj, nil
}

// Integrate runs a fresh RK4 over grid. It is safe to call concurrently.
func Integrate(sys dynamo.System, y0 dynamo.State, grid []float64) (dynamo.Trajectory, error) {
	return NewRK4().Integrate(sys, y0, grid)
}
