package models

import (
	"fmt"
	"math"

	"github.com/san-kum/episim/internal/dynamo"
)

// Params holds the model rates. Rates a kind does not use are ignored but
// still validated.
type Params struct {
	Beta  float64 // transmission
	Gamma float64 // recovery
	Sigma float64 // incubation (E -> I)
	Mu    float64 // birth and death
	Nu    float64 // vaccination (S -> R)
}

var paramNames = []string{"beta", "gamma", "sigma", "mu", "nu"}

func (p Params) Validate() error {
	values := p.asMap()
	for _, name := range paramNames {
		v := values[name]
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s must be a non-negative finite rate, got %g",
				dynamo.ErrInvalidParameter, name, v)
		}
	}
	return nil
}

func (p Params) asMap() map[string]float64 {
	return map[string]float64{
		"beta":  p.Beta,
		"gamma": p.Gamma,
		"sigma": p.Sigma,
		"mu":    p.Mu,
		"nu":    p.Nu,
	}
}

func (p Params) with(name string, value float64) (Params, error) {
	switch name {
	case "beta":
		p.Beta = value
	case "gamma":
		p.Gamma = value
	case "sigma":
		p.Sigma = value
	case "mu":
		p.Mu = value
	case "nu":
		p.Nu = value
	default:
		return p, fmt.Errorf("%w: unknown param %q", dynamo.ErrInvalidParameter, name)
	}
	return p, nil
}

// ReproductionNumber returns beta/(gamma+mu). Pass mu = 0 for models
// without vital dynamics.
func ReproductionNumber(beta, gamma, mu float64) float64 {
	return beta / (gamma + mu)
}
