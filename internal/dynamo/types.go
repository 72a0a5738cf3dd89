package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Sum returns the total population held in the state.
func (s State) Sum() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v
	}
	return sum
}

// System is an ODE right-hand side. Derive must return a fresh slice and
// must not modify x.
type System interface {
	Derive(x State, t float64) State
}

// Func adapts an ordinary function to the System interface.
type Func func(t float64, x State) State

func (f Func) Derive(x State, t float64) State {
	return f(t, x)
}

// Trajectory holds one state per time grid point; row 0 is the initial state.
type Trajectory []State

// NewTrajectory allocates rows states of width dim over one backing buffer.
func NewTrajectory(rows, dim int) Trajectory {
	buf := make([]float64, rows*dim)
	traj := make(Trajectory, rows)
	for i := range traj {
		traj[i] = buf[i*dim : (i+1)*dim : (i+1)*dim]
	}
	return traj
}

// Dim returns the state width, or 0 for an empty trajectory.
func (tr Trajectory) Dim() int {
	if len(tr) == 0 {
		return 0
	}
	return len(tr[0])
}

// Column copies compartment idx out of every row.
func (tr Trajectory) Column(idx int) []float64 {
	col := make([]float64, len(tr))
	for i, row := range tr {
		col[i] = row[idx]
	}
	return col
}

// Last returns the final row.
func (tr Trajectory) Last() State {
	if len(tr) == 0 {
		return nil
	}
	return tr[len(tr)-1]
}

// Totals returns the population sum at every row.
func (tr Trajectory) Totals() []float64 {
	out := make([]float64, len(tr))
	for i, row := range tr {
		out[i] = row.Sum()
	}
	return out
}
