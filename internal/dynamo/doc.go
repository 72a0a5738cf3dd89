// Package dynamo provides core primitives for integrating epidemic models.
//
// The package defines the fundamental types shared by the integrator, the
// model library and the analysis routines:
//
//   - [State]: vector of compartment sizes
//   - [System]: interface for ODE right-hand sides (dX/dt = f(X, t))
//   - [Func]: adapter turning a plain function into a [System]
//   - [Trajectory]: full solution, one [State] per time grid point
//
// # Example
//
//	m, _ := models.New(models.SIR, models.Params{Beta: 0.3, Gamma: 0.1})
//	grid, _ := integrators.UniformGrid(0, 160, 0.1)
//	traj, _ := integrators.Integrate(m, dynamo.State{0.99, 0.01, 0}, grid)
//	peak, at, _ := analysis.Peak(traj, m.Index("I"))
//
// # Thread Safety
//
// Nothing in this package holds shared mutable state. A [Trajectory] belongs
// to the caller that received it; parallel sweeps must give every worker its
// own trajectory.
package dynamo
