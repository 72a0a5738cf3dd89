package models

import (
	"fmt"
	"strings"

	"github.com/san-kum/episim/internal/dynamo"
)

// Kind selects the compartment structure and whether vital dynamics apply.
type Kind int

const (
	SIR Kind = iota
	SIRDemography
	SEIR
	SEIRDemography
)

var kindNames = map[Kind]string{
	SIR:            "sir",
	SIRDemography:  "sir_demography",
	SEIR:           "seir",
	SEIRDemography: "seir_demography",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) valid() bool {
	_, ok := kindNames[k]
	return ok
}

// HasExposed reports whether the kind carries an E compartment.
func (k Kind) HasExposed() bool {
	return k == SEIR || k == SEIRDemography
}

// HasDemography reports whether births and deaths are active.
func (k Kind) HasDemography() bool {
	return k == SIRDemography || k == SEIRDemography
}

// Compartments lists the state ordering for the kind.
func (k Kind) Compartments() []string {
	if k.HasExposed() {
		return []string{"S", "E", "I", "R"}
	}
	return []string{"S", "I", "R"}
}

// ParseKind maps a model family name ("sir", "seir") and the demography
// toggle to a Kind. Full kind names such as "seir_demography" are accepted
// as well.
func ParseKind(name string, demography bool) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sir":
		if demography {
			return SIRDemography, nil
		}
		return SIR, nil
	case "seir":
		if demography {
			return SEIRDemography, nil
		}
		return SEIR, nil
	case "sir_demography":
		return SIRDemography, nil
	case "seir_demography":
		return SEIRDemography, nil
	}
	return 0, fmt.Errorf("%w: unknown model %q", dynamo.ErrInvalidParameter, name)
}

// Coupling selects how the infection term scales with population.
type Coupling int

const (
	// Density uses beta*S*I.
	Density Coupling = iota
	// Frequency uses beta*S*I/N.
	Frequency
)

func (c Coupling) String() string {
	switch c {
	case Density:
		return "density"
	case Frequency:
		return "frequency"
	}
	return fmt.Sprintf("coupling(%d)", int(c))
}

func ParseCoupling(name string) (Coupling, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "density":
		return Density, nil
	case "frequency":
		return Frequency, nil
	}
	return 0, fmt.Errorf("%w: unknown coupling %q", dynamo.ErrInvalidParameter, name)
}
