// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quadrature

import (
	"fmt"
	"math"

	"github.com/pdiddy/quadbench/pkg/types"
)

// Sampler yields uniformly distributed values in [0, 1).
// *math/rand/v2.Rand satisfies it.
type Sampler interface {
	Float64() float64
}

// MonteCarlo estimates the integral as (b-a) times the mean of the
// integrand at n uniformly random points. Error shrinks as O(1/sqrt(n))
// regardless of smoothness.
//
// Rand is owned by the caller and advanced on every draw. A MonteCarlo must
// not share its Sampler with a concurrent evaluation unless the Sampler is
// itself safe for concurrent use.
type MonteCarlo struct {
	Rand Sampler
}

// Integrate draws req.Intervals samples from m.Rand.
func (m MonteCarlo) Integrate(req types.IntegrationRequest) (float64, error) {
	if err := Validate(req); err != nil {
		return math.NaN(), err
	}
	if m.Rand == nil {
		return math.NaN(), fmt.Errorf("%w: Monte Carlo needs a random source", ErrInvalidRequest)
	}

	a, n, f := req.Lower, req.Intervals, req.Integrand
	width := req.Width()

	sum := 0.0
	for i := int64(0); i < n; i++ {
		sum += f(a + m.Rand.Float64()*width)
	}
	return sum / float64(n) * width, nil
}
