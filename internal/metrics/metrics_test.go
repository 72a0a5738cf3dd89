package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/episim/internal/dynamo"
	"github.com/san-kum/episim/internal/integrators"
	"github.com/san-kum/episim/internal/models"
)

func TestPopulationDriftClosedModel(t *testing.T) {
	m, err := models.New(models.SIR, models.Params{Beta: 0.3, Gamma: 0.1})
	if err != nil {
		t.Fatal(err)
	}
	grid, err := integrators.UniformGrid(0, 160, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	traj, err := integrators.Integrate(m, dynamo.State{0.99, 0.01, 0}, grid)
	if err != nil {
		t.Fatal(err)
	}

	got := Evaluate(traj, grid, Default()...)

	if got["population_drift"] > 1e-12 {
		t.Errorf("expected negligible drift, got %e", got["population_drift"])
	}
	if got["positivity"] != 1 {
		t.Errorf("expected all rows non-negative, got %f", got["positivity"])
	}
}

func TestPopulationDrift(t *testing.T) {
	d := NewPopulationDrift()
	d.Observe(dynamo.State{90, 10, 0}, 0)
	d.Observe(dynamo.State{90, 5, 10}, 1)
	d.Observe(dynamo.State{80, 10, 10}, 2)

	if math.Abs(d.Value()-0.05) > 1e-12 {
		t.Errorf("expected drift 0.05, got %f", d.Value())
	}

	d.Observe(dynamo.State{math.NaN(), 0, 0}, 3)
	if !math.IsInf(d.Value(), 1) {
		t.Errorf("expected NaN total to count as infinite drift, got %f", d.Value())
	}

	d.Reset()
	if d.Value() != 0 {
		t.Errorf("expected zero after reset, got %f", d.Value())
	}
}

func TestPositivity(t *testing.T) {
	tests := []struct {
		name      string
		tolerance float64
		rows      []dynamo.State
		want      float64
	}{
		{"empty", 0, nil, 1},
		{"clean", 0, []dynamo.State{{1, 0, 0}, {0.5, 0.5, 0}}, 1},
		{"negative", 0, []dynamo.State{{1, 0, 0}, {1.2, -0.2, 0}}, 0.5},
		{"within tolerance", 1e-9, []dynamo.State{{1, -1e-12, 0}}, 1},
		{"diverged", 0, []dynamo.State{{1, 0, 0}, {0, math.Inf(-1), 0}, {math.NaN(), 0, 0}, {1, 0, 0}}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPositivity(tt.tolerance)
			for i, x := range tt.rows {
				p.Observe(x, float64(i))
			}
			if p.Value() != tt.want {
				t.Errorf("expected %f, got %f", tt.want, p.Value())
			}
		})
	}
}

func TestEvaluateResets(t *testing.T) {
	p := NewPositivity(0)
	p.Observe(dynamo.State{-1}, 0)

	got := Evaluate(dynamo.Trajectory{{1}, {2}}, nil, p)
	if got["positivity"] != 1 {
		t.Errorf("expected metric reset before evaluation, got %f", got["positivity"])
	}
}
