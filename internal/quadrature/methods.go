// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quadrature

import (
	"fmt"
	"strings"

	"github.com/pdiddy/quadbench/pkg/types"
)

// Rule is the uniform call contract shared by all methods.
type Rule func(req types.IntegrationRequest) (float64, error)

// Method describes one quadrature rule for the benchmark harness and CLI.
type Method struct {
	// Name is the short identifier used on the command line (e.g. "simpson13").
	Name string

	// Label is the report label (e.g. "5. Simpson's 1/3 Rule").
	Label string

	// Order is the convergence order in n for smooth integrands.
	// Monte Carlo reports 0; its error is O(1/sqrt(n)) in probability.
	Order int

	// Multiple is the divisibility precondition on the interval count.
	Multiple int64

	// Deterministic is false for rules that draw random samples.
	Deterministic bool

	// Integrate evaluates the rule.
	Integrate Rule
}

// Method short names.
const (
	NameLeft       = "left"
	NameRight      = "right"
	NameMidpoint   = "midpoint"
	NameTrapezoid  = "trapezoid"
	NameSimpson13  = "simpson13"
	NameSimpson38  = "simpson38"
	NameMonteCarlo = "montecarlo"
)

// Names lists the method short names in report order.
var Names = []string{
	NameLeft, NameRight, NameMidpoint, NameTrapezoid,
	NameSimpson13, NameSimpson38, NameMonteCarlo,
}

// Methods returns all seven methods in report order. The Monte Carlo method
// draws from rng; pass a distinct rng to each concurrent caller.
func Methods(rng Sampler) []Method {
	return []Method{
		{Name: NameLeft, Label: "1. Left Rectangle", Order: 1, Multiple: 1, Deterministic: true, Integrate: Left},
		{Name: NameRight, Label: "2. Right Rectangle", Order: 1, Multiple: 1, Deterministic: true, Integrate: Right},
		{Name: NameMidpoint, Label: "3. Midpoint Rule", Order: 2, Multiple: 1, Deterministic: true, Integrate: Midpoint},
		{Name: NameTrapezoid, Label: "4. Trapezoidal Rule", Order: 2, Multiple: 1, Deterministic: true, Integrate: Trapezoid},
		{Name: NameSimpson13, Label: "5. Simpson's 1/3 Rule", Order: 4, Multiple: 2, Deterministic: true, Integrate: Simpson13},
		{Name: NameSimpson38, Label: "6. Simpson's 3/8 Rule", Order: 4, Multiple: 3, Deterministic: true, Integrate: Simpson38},
		{Name: NameMonteCarlo, Label: "7. Monte Carlo", Order: 0, Multiple: 1, Deterministic: false, Integrate: MonteCarlo{Rand: rng}.Integrate},
	}
}

// Lookup returns the method with the given short name. Matching is
// case-insensitive. rng is used only by Monte Carlo.
func Lookup(name string, rng Sampler) (Method, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, m := range Methods(rng) {
		if m.Name == key {
			return m, nil
		}
	}
	return Method{}, fmt.Errorf("unknown method %q: use one of %s", name, strings.Join(Names, ", "))
}

// WithSampler returns a copy of m whose Monte Carlo rule draws from rng.
// Deterministic methods are returned unchanged.
func (m Method) WithSampler(rng Sampler) Method {
	if m.Deterministic {
		return m
	}
	m.Integrate = MonteCarlo{Rand: rng}.Integrate
	return m
}
