// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for quadbench.
// The quadrature kernels consume IntegrationRequest; the benchmark harness,
// report writers, and results store exchange Problem and BenchmarkRecord.
package types

import (
	"math"
	"time"
)

// Integrand is a pure function of one real variable. It must be free of
// observable side effects and safe to call concurrently.
type Integrand func(x float64) float64

// IntegrationRequest carries the inputs for a single quadrature evaluation.
// It is built immediately before one method call and never reused.
type IntegrationRequest struct {
	// Integrand is the function to integrate.
	Integrand Integrand

	// Lower is the lower bound of integration (a).
	Lower float64

	// Upper is the upper bound of integration (b). Must be greater than Lower.
	Upper float64

	// Intervals is the number of equal-width subintervals (n), or the number
	// of samples for Monte Carlo.
	Intervals int64
}

// Width returns Upper - Lower.
func (r IntegrationRequest) Width() float64 {
	return r.Upper - r.Lower
}

// FailureReason tags why a method rejected a request.
type FailureReason string

const (
	// ReasonNone marks a successful evaluation.
	ReasonNone FailureReason = ""

	// ReasonInvalidRequest marks a request that failed the shared validity
	// check: missing integrand, non-positive interval count, or bounds
	// that are not strictly increasing.
	ReasonInvalidRequest FailureReason = "invalid_request"

	// ReasonPrecondition marks a method-specific divisibility failure
	// (odd count for Simpson's 1/3, non-multiple of 3 for Simpson's 3/8).
	ReasonPrecondition FailureReason = "precondition_failed"

	// ReasonNonFinite marks an accepted request whose result is NaN or
	// infinite, e.g. an integrand undefined on part of the interval.
	ReasonNonFinite FailureReason = "non_finite_result"
)

// Problem is an integrand with bounds and a known exact integral.
type Problem struct {
	// Label names the problem in reports (e.g. "sin(x)").
	Label string `json:"label" yaml:"label"`

	// Integrand is the function to integrate.
	Integrand Integrand `json:"-" yaml:"-"`

	// Lower and Upper are the integration bounds.
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`

	// Exact is the closed-form value of the integral over [Lower, Upper].
	Exact float64 `json:"exact" yaml:"exact"`
}

// Request builds an IntegrationRequest for this problem at n intervals.
func (p Problem) Request(n int64) IntegrationRequest {
	return IntegrationRequest{
		Integrand: p.Integrand,
		Lower:     p.Lower,
		Upper:     p.Upper,
		Intervals: n,
	}
}

// BenchmarkRecord is one row of a benchmark report: a single
// (problem, method, resolution) evaluation.
type BenchmarkRecord struct {
	// Function is the problem label.
	Function string `json:"function" yaml:"function"`

	// Method is the method label (e.g. "5. Simpson's 1/3 Rule").
	Method string `json:"method" yaml:"method"`

	// Intervals is the interval count actually used, after any upward
	// adjustment for the method's divisibility precondition.
	Intervals int64 `json:"intervals" yaml:"intervals"`

	// Result is the approximation. NaN when Reason is set.
	Result float64 `json:"result" yaml:"result"`

	// AbsError is |Result - exact|. NaN when Reason is set.
	AbsError float64 `json:"abs_error" yaml:"abs_error"`

	// Elapsed is the wall-clock duration of the method call.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`

	// Reason is set when the method rejected the request.
	Reason FailureReason `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Valid reports whether the record holds a finite numeric result.
func (r BenchmarkRecord) Valid() bool {
	return r.Reason == ReasonNone && finite(r.Result) && finite(r.AbsError)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ElapsedMillis returns Elapsed in fractional milliseconds.
func (r BenchmarkRecord) ElapsedMillis() float64 {
	return float64(r.Elapsed) / float64(time.Millisecond)
}
