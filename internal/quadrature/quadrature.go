// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quadrature implements seven fixed-grid and stochastic rules for
// approximating a definite integral: left, right, and midpoint rectangles,
// the trapezoidal rule, Simpson's 1/3 and 3/8 rules, and Monte Carlo.
//
// Every rule has the same contract: it validates the request before doing
// any numerical work and returns either a finite approximation and a nil
// error, or NaN and an error wrapping ErrInvalidRequest or ErrPrecondition.
// The rules never adjust the interval count; callers that want a valid
// result must satisfy the rule's divisibility precondition first.
//
// The deterministic rules are pure and safe for concurrent use. MonteCarlo
// draws from a caller-owned Sampler and is only as safe as that sampler.
package quadrature

import (
	"errors"
	"fmt"
	"math"

	"github.com/pdiddy/quadbench/pkg/types"
)

var (
	// ErrInvalidRequest is returned when a request fails the shared
	// validity check.
	ErrInvalidRequest = errors.New("invalid integration request")

	// ErrPrecondition is returned when a request is well-formed but does
	// not satisfy a rule's interval-count precondition.
	ErrPrecondition = errors.New("interval count precondition not met")
)

// Validate reports whether req is well-formed: the integrand is set, the
// interval count is positive, and the bounds are finite and strictly
// increasing with a finite width.
func Validate(req types.IntegrationRequest) error {
	switch {
	case req.Integrand == nil:
		return fmt.Errorf("%w: integrand is nil", ErrInvalidRequest)
	case req.Intervals <= 0:
		return fmt.Errorf("%w: interval count %d is not positive", ErrInvalidRequest, req.Intervals)
	case math.IsInf(req.Lower, 0) || math.IsInf(req.Upper, 0):
		return fmt.Errorf("%w: bounds [%g, %g] are not finite", ErrInvalidRequest, req.Lower, req.Upper)
	case !(req.Upper > req.Lower): // also rejects NaN
		return fmt.Errorf("%w: upper bound %g is not greater than lower bound %g", ErrInvalidRequest, req.Upper, req.Lower)
	case math.IsInf(req.Width(), 0):
		return fmt.Errorf("%w: width of [%g, %g] overflows", ErrInvalidRequest, req.Lower, req.Upper)
	}
	return nil
}

// Reason maps an error returned by a rule onto a FailureReason.
// A nil error maps to ReasonNone.
func Reason(err error) types.FailureReason {
	switch {
	case err == nil:
		return types.ReasonNone
	case errors.Is(err, ErrPrecondition):
		return types.ReasonPrecondition
	default:
		return types.ReasonInvalidRequest
	}
}

// requireMultiple checks a rule-specific divisibility precondition.
func requireMultiple(req types.IntegrationRequest, m int64, rule string) error {
	if req.Intervals%m != 0 {
		return fmt.Errorf("%w: %s needs a multiple of %d intervals, got %d", ErrPrecondition, rule, m, req.Intervals)
	}
	return nil
}
