// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quadrature

import (
	"math"

	"github.com/pdiddy/quadbench/pkg/types"
)

// Simpson13 fits a parabola across each pair of subintervals using the
// weights 1, 4, 2, 4, ..., 2, 4, 1 scaled by dx/3. The interval count must
// be even. Fourth order; exact for polynomials up to degree 3.
func Simpson13(req types.IntegrationRequest) (float64, error) {
	if err := Validate(req); err != nil {
		return math.NaN(), err
	}
	if err := requireMultiple(req, 2, "Simpson's 1/3 rule"); err != nil {
		return math.NaN(), err
	}

	a, b, n, f := req.Lower, req.Upper, req.Intervals, req.Integrand
	dx := req.Width() / float64(n)

	sum := f(a) + f(b)
	for i := int64(1); i < n; i += 2 {
		sum += 4 * f(a+float64(i)*dx)
	}
	for i := int64(2); i < n-1; i += 2 {
		sum += 2 * f(a+float64(i)*dx)
	}
	return sum * dx / 3, nil
}

// Simpson38 fits a cubic across each triple of subintervals using the
// weights 1, 3, 3, 2, 3, 3, 2, ..., 3, 3, 1 scaled by 3dx/8. Interior
// points whose index is a multiple of 3 join two cubics and get weight 2.
// The interval count must be a multiple of 3. Fourth order.
func Simpson38(req types.IntegrationRequest) (float64, error) {
	if err := Validate(req); err != nil {
		return math.NaN(), err
	}
	if err := requireMultiple(req, 3, "Simpson's 3/8 rule"); err != nil {
		return math.NaN(), err
	}

	a, b, n, f := req.Lower, req.Upper, req.Intervals, req.Integrand
	dx := req.Width() / float64(n)

	sum := f(a) + f(b)
	for i := int64(1); i < n; i++ {
		w := 3.0
		if i%3 == 0 {
			w = 2.0
		}
		sum += w * f(a+float64(i)*dx)
	}
	return sum * dx * 3 / 8, nil
}
