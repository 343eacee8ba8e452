// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package problems

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/quadbench/pkg/types"
)

// File is the on-disk representation of a problem set.
//
//	problems:
//	  - label: "sin(x) half"
//	    integrand: "sin(x)"
//	    lower: "0"
//	    upper: "pi/2"
//	    exact: 1
type File struct {
	Problems []Entry `yaml:"problems"`
}

// Entry is one problem in a File. Bounds are strings so they can be
// written as multiples of pi.
type Entry struct {
	Label     string  `yaml:"label"`
	Integrand string  `yaml:"integrand"`
	Lower     string  `yaml:"lower"`
	Upper     string  `yaml:"upper"`
	Exact     float64 `yaml:"exact"`
}

// Load reads a problem file from disk.
func Load(path string) ([]types.Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading problem file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a problem file. Every entry must have a unique label, a
// registered integrand, and bounds with lower < upper.
func Parse(data []byte) ([]types.Problem, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing problem file: %w", err)
	}
	if len(f.Problems) == 0 {
		return nil, fmt.Errorf("problem file defines no problems")
	}

	seen := make(map[string]bool, len(f.Problems))
	probs := make([]types.Problem, 0, len(f.Problems))
	for i, e := range f.Problems {
		p, err := e.toProblem()
		if err != nil {
			return nil, fmt.Errorf("problem %d: %w", i+1, err)
		}
		if seen[p.Label] {
			return nil, fmt.Errorf("problem %d: duplicate label %q", i+1, p.Label)
		}
		seen[p.Label] = true
		probs = append(probs, p)
	}
	return probs, nil
}

func (e Entry) toProblem() (types.Problem, error) {
	if e.Label == "" {
		return types.Problem{}, fmt.Errorf("missing label")
	}
	f, err := Integrand(e.Integrand)
	if err != nil {
		return types.Problem{}, err
	}
	lower, err := ParseBound(e.Lower)
	if err != nil {
		return types.Problem{}, fmt.Errorf("%s: lower: %w", e.Label, err)
	}
	upper, err := ParseBound(e.Upper)
	if err != nil {
		return types.Problem{}, fmt.Errorf("%s: upper: %w", e.Label, err)
	}
	if !(upper > lower) {
		return types.Problem{}, fmt.Errorf("%s: upper bound %g is not greater than lower bound %g", e.Label, upper, lower)
	}
	return types.Problem{
		Label:     e.Label,
		Integrand: f,
		Lower:     lower,
		Upper:     upper,
		Exact:     e.Exact,
	}, nil
}
