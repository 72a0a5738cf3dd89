// Package analysis extracts derived quantities from integrated trajectories.
//
// All functions are pure and operate on a [dynamo.Trajectory] produced by the
// integrator:
//
//   - [Peak]: maximum of one compartment and the row where it first occurs
//   - [FinalSize]: value of one compartment at the last time point
//   - [ObservedOrder]: slope of log(error) against log(step)
//   - [Convergence]: errors against a refined reference plus observed order
//   - [R0]: basic reproduction number from raw rates
//   - [Jacobian] and [Eigenvalues]: local stability of a model state
//   - [PhasePortrait]: two compartments plotted against each other
//
// # Order of Accuracy
//
// RK4 should report an order close to 4 on a smooth model:
//
//	res, _ := analysis.Convergence(m, y0, 60, []float64{1, 0.5, 0.25, 0.125}, m.InfectedIndex(), 16)
//	fmt.Printf("observed order %.2f\n", res.Order)
package analysis
