// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quadrature

import (
	"math"

	"github.com/pdiddy/quadbench/pkg/types"
)

// Trapezoid sums trapezoids under the curve, which is the average of Left
// and Right: dx * [f(a)/2 + f(x1) + ... + f(x_{n-1}) + f(b)/2]. Second order.
func Trapezoid(req types.IntegrationRequest) (float64, error) {
	if err := Validate(req); err != nil {
		return math.NaN(), err
	}

	a, b, n, f := req.Lower, req.Upper, req.Intervals, req.Integrand
	dx := req.Width() / float64(n)

	sum := 0.5 * (f(a) + f(b))
	for i := int64(1); i < n; i++ {
		sum += f(a + float64(i)*dx)
	}
	return sum * dx, nil
}
