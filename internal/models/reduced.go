package models

import "github.com/san-kum/episim/internal/dynamo"

// Reduced integrates every compartment except R and reconstructs R as
// total - S - [E] - I.
type Reduced struct {
	model Model
	total float64
}

// Reduced returns the closed-population form of m. For density coupling
// with demography the closure only holds for total = 1.
func (m Model) Reduced(total float64) Reduced {
	return Reduced{model: m, total: total}
}

func (r Reduced) Model() Model   { return r.model }
func (r Reduced) Total() float64 { return r.total }
func (r Reduced) StateDim() int  { return r.model.StateDim() - 1 }

func (r Reduced) Derive(x dynamo.State, t float64) dynamo.State {
	n := r.StateDim()
	if len(x) != n {
		return nil
	}

	full := make(dynamo.State, n+1)
	copy(full, x)
	full[n] = r.total - x.Sum()

	dx := r.model.Derive(full, t)
	return dx[:n:n]
}

// Reduce drops R from a full state. A state of the wrong width yields nil.
func (r Reduced) Reduce(y dynamo.State) dynamo.State {
	if len(y) != r.model.StateDim() {
		return nil
	}
	return y[:r.StateDim()].Clone()
}

// Expand rebuilds full states from a reduced trajectory.
func (r Reduced) Expand(traj dynamo.Trajectory) dynamo.Trajectory {
	n := r.StateDim()
	full := dynamo.NewTrajectory(len(traj), n+1)
	for i, row := range traj {
		copy(full[i], row)
		full[i][n] = r.total - row.Sum()
	}
	return full
}
