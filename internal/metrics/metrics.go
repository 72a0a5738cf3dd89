// Package metrics observes a trajectory row by row and reduces it to
// scalar run diagnostics.
package metrics

import "github.com/san-kum/episim/internal/dynamo"

type Metric interface {
	Name() string
	Observe(x dynamo.State, t float64)
	Value() float64
	Reset()
}

// Evaluate feeds every row of traj to each metric and collects the values.
// Metrics are reset first, so they can be reused across runs.
func Evaluate(traj dynamo.Trajectory, times []float64, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for i, x := range traj {
			t := 0.0
			if i < len(times) {
				t = times[i]
			}
			m.Observe(x, t)
		}
		out[m.Name()] = m.Value()
	}
	return out
}

// Default returns the metrics recorded for every stored run.
func Default() []Metric {
	return []Metric{NewPopulationDrift(), NewPositivity(0)}
}
