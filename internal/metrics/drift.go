package metrics

import (
	"math"

	"github.com/san-kum/episim/internal/dynamo"
)

// PopulationDrift tracks the largest relative departure of N(t) from N(0).
// Closed models should keep it at rounding level.
type PopulationDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewPopulationDrift() *PopulationDrift {
	return &PopulationDrift{name: "population_drift"}
}

func (p *PopulationDrift) Name() string { return p.name }

func (p *PopulationDrift) Observe(x dynamo.State, t float64) {
	total := x.Sum()
	if p.samples == 0 {
		p.initial = total
	}
	p.samples++

	if p.initial != 0 {
		drift := math.Abs(total-p.initial) / math.Abs(p.initial)
		if math.IsNaN(drift) {
			drift = math.Inf(1)
		}
		p.maxDrift = math.Max(p.maxDrift, drift)
	}
}

func (p *PopulationDrift) Value() float64 {
	return p.maxDrift
}

func (p *PopulationDrift) Reset() {
	p.initial = 0
	p.maxDrift = 0
	p.samples = 0
}
