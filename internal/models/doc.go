// Package models provides the compartmental epidemic models integrated by
// episim.
//
// A [Model] is an immutable value that binds one [Params] set to one [Kind]
// and implements [dynamo.System]:
//
//   - [SIR]: S -> I -> R
//   - [SIRDemography]: SIR with births and deaths at rate mu
//   - [SEIR]: S -> E -> I -> R
//   - [SEIRDemography]: SEIR with births and deaths at rate mu
//
// Every kind supports both infection couplings. [Density] uses beta*S*I and
// assumes a population held at unit sum; [Frequency] uses beta*S*I/N with N
// the current total, which is the form to use with head counts.
//
// # Conservation
//
// The full models carry R as an independent state, so S+[E]+I+R is an
// invariant of the integration rather than of the representation. The
// alternative convention, R = total - S - [E] - I, is available through
// [Model.Reduced].
package models
