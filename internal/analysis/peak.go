package analysis

import (
	"fmt"

	"github.com/san-kum/episim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// Column extracts compartment idx from every row of traj.
func Column(traj dynamo.Trajectory, idx int) ([]float64, error) {
	if len(traj) == 0 {
		return nil, fmt.Errorf("%w: empty trajectory", dynamo.ErrInsufficientData)
	}
	if idx < 0 || idx >= traj.Dim() {
		return nil, fmt.Errorf("%w: compartment %d outside state of width %d",
			dynamo.ErrDimensionMismatch, idx, traj.Dim())
	}
	return traj.Column(idx), nil
}

// Peak returns the largest value of compartment idx and the first row at
// which it occurs.
func Peak(traj dynamo.Trajectory, idx int) (float64, int, error) {
	col, err := Column(traj, idx)
	if err != nil {
		return 0, 0, err
	}
	at := floats.MaxIdx(col)
	return col[at], at, nil
}

// FinalSize returns compartment idx at the last time point.
func FinalSize(traj dynamo.Trajectory, idx int) (float64, error) {
	if _, err := Column(traj, idx); err != nil {
		return 0, err
	}
	return traj.Last()[idx], nil
}
