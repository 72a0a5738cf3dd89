package models

import (
	"fmt"

	"github.com/san-kum/episim/internal/dynamo"
)

// Model is an immutable parameterised epidemic model.
type Model struct {
	kind     Kind
	coupling Coupling
	params   Params
}

type Option func(*Model)

func WithCoupling(c Coupling) Option {
	return func(m *Model) {
		m.coupling = c
	}
}

// New validates p and binds it to kind. It fails with
// dynamo.ErrInvalidParameter on any negative or non-finite rate.
func New(kind Kind, p Params, opts ...Option) (Model, error) {
	m := Model{kind: kind, params: p}
	for _, opt := range opts {
		opt(&m)
	}

	if !kind.valid() {
		return Model{}, fmt.Errorf("%w: unknown kind %d", dynamo.ErrInvalidParameter, int(kind))
	}
	if m.coupling != Density && m.coupling != Frequency {
		return Model{}, fmt.Errorf("%w: unknown coupling %d", dynamo.ErrInvalidParameter, int(m.coupling))
	}
	if err := p.Validate(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) Kind() Kind         { return m.kind }
func (m Model) Coupling() Coupling { return m.coupling }
func (m Model) Params() Params     { return m.params }

func (m Model) StateDim() int {
	if m.kind.HasExposed() {
		return 4
	}
	return 3
}

func (m Model) Compartments() []string {
	return m.kind.Compartments()
}

// Index returns the position of the named compartment, or -1.
func (m Model) Index(name string) int {
	for i, c := range m.Compartments() {
		if c == name {
			return i
		}
	}
	return -1
}

func (m Model) InfectedIndex() int  { return m.StateDim() - 2 }
func (m Model) RecoveredIndex() int { return m.StateDim() - 1 }

// R0 is beta/gamma, or beta/(gamma+mu) when demography is active.
func (m Model) R0() float64 {
	mu := 0.0
	if m.kind.HasDemography() {
		mu = m.params.Mu
	}
	return ReproductionNumber(m.params.Beta, m.params.Gamma, mu)
}

func (m Model) GetParams() map[string]float64 {
	return m.params.asMap()
}

// With returns a copy of m with one rate replaced.
func (m Model) With(name string, value float64) (Model, error) {
	p, err := m.params.with(name, value)
	if err != nil {
		return Model{}, err
	}
	return New(m.kind, p, WithCoupling(m.coupling))
}

// Derive returns dX/dt. A state of the wrong width yields nil, which the
// integrator reports as a dimension mismatch.
func (m Model) Derive(x dynamo.State, t float64) dynamo.State {
	if len(x) != m.StateDim() {
		return nil
	}
	if m.kind.HasExposed() {
		return m.deriveSEIR(x)
	}
	return m.deriveSIR(x)
}

func (m Model) deriveSIR(x dynamo.State) dynamo.State {
	p := m.params
	s, i, r := x[0], x[1], x[2]
	n := s + i + r

	inf := m.infection(s, i, n)
	vac := p.Nu * s

	ds := -inf - vac
	di := inf - p.Gamma*i
	dr := p.Gamma*i + vac

	if m.kind.HasDemography() {
		ds += m.births(n) - p.Mu*s
		di -= p.Mu * i
		dr -= p.Mu * r
	}

	return dynamo.State{ds, di, dr}
}

func (m Model) deriveSEIR(x dynamo.State) dynamo.State {
	p := m.params
	s, e, i, r := x[0], x[1], x[2], x[3]
	n := s + e + i + r

	inf := m.infection(s, i, n)
	vac := p.Nu * s

	ds := -inf - vac
	de := inf - p.Sigma*e
	di := p.Sigma*e - p.Gamma*i
	dr := p.Gamma*i + vac

	if m.kind.HasDemography() {
		ds += m.births(n) - p.Mu*s
		de -= p.Mu * e
		di -= p.Mu * i
		dr -= p.Mu * r
	}

	return dynamo.State{ds, de, di, dr}
}

// infection is the S -> (E|I) flow. N = 0 under frequency coupling
// propagates as NaN.
func (m Model) infection(s, i, n float64) float64 {
	f := m.params.Beta * s * i
	if m.coupling == Frequency {
		f /= n
	}
	return f
}

// births replaces deaths: mu for a unit population, mu*N for head counts.
func (m Model) births(n float64) float64 {
	if m.coupling == Frequency {
		return m.params.Mu * n
	}
	return m.params.Mu
}

func (m Model) String() string {
	p := m.params
	return fmt.Sprintf("%s/%s(beta=%g gamma=%g sigma=%g mu=%g nu=%g)",
		m.kind, m.coupling, p.Beta, p.Gamma, p.Sigma, p.Mu, p.Nu)
}
