// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package problems provides the named integrands and benchmark problems
// quadbench integrates, and loads additional problems from YAML files.
package problems

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/quadbench/pkg/types"
)

// GaussianExact is the integral of exp(-x^2) over [0, 1], sqrt(pi)/2 * erf(1).
const GaussianExact = 0.746824132812

// integrands maps a name to its function. Names double as report labels
// for the built-in problems.
var integrands = map[string]types.Integrand{
	"x^2":       func(x float64) float64 { return x * x },
	"x^3":       func(x float64) float64 { return x * x * x },
	"sin(x)":    math.Sin,
	"cos(x)":    math.Cos,
	"exp(x)":    math.Exp,
	"exp(-x^2)": func(x float64) float64 { return math.Exp(-x * x) },
	"sqrt(x)":   math.Sqrt,
	"1/(1+x^2)": func(x float64) float64 { return 1 / (1 + x*x) },
}

// Integrand returns the named integrand.
func Integrand(name string) (types.Integrand, error) {
	f, ok := integrands[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("unknown integrand %q: use one of %s", name, strings.Join(IntegrandNames(), ", "))
	}
	return f, nil
}

// IntegrandNames returns the registered integrand names, sorted.
func IntegrandNames() []string {
	names := make([]string, 0, len(integrands))
	for name := range integrands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Defaults returns the three standard problems: x^2 on [0,1], sin(x) on
// [0,pi], and exp(-x^2) on [0,1].
func Defaults() []types.Problem {
	return []types.Problem{
		{Label: "x^2", Integrand: integrands["x^2"], Lower: 0, Upper: 1, Exact: 1.0 / 3.0},
		{Label: "sin(x)", Integrand: integrands["sin(x)"], Lower: 0, Upper: math.Pi, Exact: 2.0},
		{Label: "exp(-x^2)", Integrand: integrands["exp(-x^2)"], Lower: 0, Upper: 1, Exact: GaussianExact},
	}
}

// Select returns the problems whose labels appear in labels, in the order
// of probs. An empty labels slice selects everything. Unknown labels are
// an error.
func Select(probs []types.Problem, labels []string) ([]types.Problem, error) {
	if len(labels) == 0 {
		return probs, nil
	}
	want := make(map[string]bool, len(labels))
	for _, l := range labels {
		want[strings.TrimSpace(l)] = true
	}

	var out []types.Problem
	for _, p := range probs {
		if want[p.Label] {
			out = append(out, p)
			delete(want, p.Label)
		}
	}
	if len(want) > 0 {
		missing := make([]string, 0, len(want))
		for l := range want {
			missing = append(missing, l)
		}
		sort.Strings(missing)
		return nil, fmt.Errorf("unknown problem(s): %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// ParseBound parses a bound written as a number or a multiple of pi:
// "1.5", "pi", "-pi", "pi/2", "2pi", "3*pi/4".
func ParseBound(s string) (float64, error) {
	t := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if t == "" {
		return 0, fmt.Errorf("empty bound")
	}
	if v, err := strconv.ParseFloat(t, 64); err == nil {
		return v, nil
	}

	idx := strings.Index(t, "pi")
	if idx < 0 {
		return 0, fmt.Errorf("invalid bound %q", s)
	}

	coef := 1.0
	head := strings.TrimSuffix(t[:idx], "*")
	switch head {
	case "":
	case "-":
		coef = -1
	case "+":
	default:
		v, err := strconv.ParseFloat(head, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid bound %q: %w", s, err)
		}
		coef = v
	}

	div := 1.0
	if tail := t[idx+2:]; tail != "" {
		if !strings.HasPrefix(tail, "/") {
			return 0, fmt.Errorf("invalid bound %q", s)
		}
		v, err := strconv.ParseFloat(tail[1:], 64)
		if err != nil || v == 0 {
			return 0, fmt.Errorf("invalid bound %q: bad divisor", s)
		}
		div = v
	}
	return coef * math.Pi / div, nil
}
