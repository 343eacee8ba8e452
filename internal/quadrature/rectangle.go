// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quadrature

import (
	"math"

	"github.com/pdiddy/quadbench/pkg/types"
)

// Left approximates the integral with rectangles whose heights are taken
// at the left edge of each subinterval: dx * sum f(a + i*dx), i = 0..n-1.
// First order; underestimates increasing integrands.
func Left(req types.IntegrationRequest) (float64, error) {
	if err := Validate(req); err != nil {
		return math.NaN(), err
	}

	a, n, f := req.Lower, req.Intervals, req.Integrand
	dx := req.Width() / float64(n)

	sum := 0.0
	for i := int64(0); i < n; i++ {
		sum += f(a + float64(i)*dx)
	}
	return sum * dx, nil
}

// Right approximates the integral with rectangles whose heights are taken
// at the right edge of each subinterval: dx * sum f(a + i*dx), i = 1..n.
// First order; overestimates increasing integrands.
func Right(req types.IntegrationRequest) (float64, error) {
	if err := Validate(req); err != nil {
		return math.NaN(), err
	}

	a, n, f := req.Lower, req.Intervals, req.Integrand
	dx := req.Width() / float64(n)

	sum := 0.0
	for i := int64(1); i <= n; i++ {
		sum += f(a + float64(i)*dx)
	}
	return sum * dx, nil
}

// Midpoint samples the center of each subinterval:
// dx * sum f(a + (i+0.5)*dx), i = 0..n-1. Second order.
func Midpoint(req types.IntegrationRequest) (float64, error) {
	if err := Validate(req); err != nil {
		return math.NaN(), err
	}

	a, n, f := req.Lower, req.Intervals, req.Integrand
	dx := req.Width() / float64(n)

	sum := 0.0
	for i := int64(0); i < n; i++ {
		sum += f(a + (float64(i)+0.5)*dx)
	}
	return sum * dx, nil
}
