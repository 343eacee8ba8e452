// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quadrature

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/quadbench/pkg/types"
)

// --- test helpers ---

func square(x float64) float64 { return x * x }
func cube(x float64) float64   { return x * x * x }
func gaussian(x float64) float64 {
	return math.Exp(-x * x)
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func req(f types.Integrand, a, b float64, n int64) types.IntegrationRequest {
	return types.IntegrationRequest{Integrand: f, Lower: a, Upper: b, Intervals: n}
}

// nextMultiple rounds n up to a multiple of m, as the harness does.
func nextMultiple(n, m int64) int64 {
	if r := n % m; r != 0 {
		return n + m - r
	}
	return n
}

func absErr(t *testing.T, m Method, r types.IntegrationRequest, exact float64) float64 {
	t.Helper()
	got, err := m.Integrate(r)
	require.NoError(t, err, "%s n=%d", m.Name, r.Intervals)
	return math.Abs(got - exact)
}

// --- validity policy ---

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     types.IntegrationRequest
		wantErr bool
	}{
		{"valid", req(square, 0, 1, 10), false},
		{"nil integrand", req(nil, 0, 1, 10), true},
		{"zero intervals", req(square, 0, 1, 0), true},
		{"negative intervals", req(square, 0, 1, -4), true},
		{"equal bounds", req(square, 1, 1, 10), true},
		{"reversed bounds", req(square, 1, 0, 10), true},
		{"nan lower", req(square, math.NaN(), 1, 10), true},
		{"nan upper", req(square, 0, math.NaN(), 10), true},
		{"infinite upper", req(square, 0, math.Inf(1), 10), true},
		{"infinite lower", req(square, math.Inf(-1), 0, 10), true},
		{"overflowing width", req(square, -1e308, 1e308, 10), true},
		{"wide but finite width", req(square, -1e307, 1e307, 10), false},
		{"negative range", req(square, -3, -1, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidRequest)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAllMethodsRejectInvalidRequests(t *testing.T) {
	invalid := []struct {
		name string
		req  types.IntegrationRequest
	}{
		{"nil integrand", req(nil, 0, 1, 6)},
		{"zero intervals", req(square, 0, 1, 0)},
		{"negative intervals", req(square, 0, 1, -6)},
		{"equal bounds", req(square, 2, 2, 6)},
		{"reversed bounds", req(square, 1, 0, 6)},
		{"overflowing width", req(square, -1e308, 1e308, 6)},
	}

	for _, m := range Methods(newRand(1)) {
		for _, tc := range invalid {
			t.Run(m.Name+"/"+tc.name, func(t *testing.T) {
				calls := 0
				r := tc.req
				if r.Integrand != nil {
					r.Integrand = func(x float64) float64 {
						calls++
						return x * x
					}
				}
				got, err := m.Integrate(r)
				assert.True(t, math.IsNaN(got), "want NaN, got %v", got)
				assert.ErrorIs(t, err, ErrInvalidRequest)
				assert.Equal(t, types.ReasonInvalidRequest, Reason(err))
				assert.Zero(t, calls, "integrand evaluated before validation")
			})
		}
	}
}

func TestMonteCarloNilSampler(t *testing.T) {
	got, err := MonteCarlo{}.Integrate(req(square, 0, 1, 10))
	assert.True(t, math.IsNaN(got))
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestReason(t *testing.T) {
	assert.Equal(t, types.ReasonNone, Reason(nil))
	assert.Equal(t, types.ReasonInvalidRequest, Reason(ErrInvalidRequest))
	assert.Equal(t, types.ReasonPrecondition, Reason(fmt.Errorf("wrapped: %w", ErrPrecondition)))
	assert.Equal(t, types.ReasonInvalidRequest, Reason(errors.New("other")))
}

// --- preconditions ---

func TestSimpson13Parity(t *testing.T) {
	for n := int64(1); n <= 41; n++ {
		got, err := Simpson13(req(math.Sin, -2, 5, n))
		if n%2 != 0 {
			assert.ErrorIs(t, err, ErrPrecondition, "n=%d", n)
			assert.False(t, errors.Is(err, ErrInvalidRequest), "n=%d", n)
			assert.True(t, math.IsNaN(got), "n=%d", n)
			continue
		}
		require.NoError(t, err, "n=%d", n)
		assert.False(t, math.IsNaN(got) || math.IsInf(got, 0), "n=%d", n)
	}
}

func TestSimpson38Divisibility(t *testing.T) {
	for n := int64(1); n <= 45; n++ {
		got, err := Simpson38(req(math.Cos, 0.5, 3, n))
		if n%3 != 0 {
			assert.ErrorIs(t, err, ErrPrecondition, "n=%d", n)
			assert.Equal(t, types.ReasonPrecondition, Reason(err))
			assert.True(t, math.IsNaN(got), "n=%d", n)
			continue
		}
		require.NoError(t, err, "n=%d", n)
		assert.False(t, math.IsNaN(got) || math.IsInf(got, 0), "n=%d", n)
	}
}

func TestGenericCheckPrecedesPrecondition(t *testing.T) {
	_, err := Simpson13(req(nil, 0, 1, 3))
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.False(t, errors.Is(err, ErrPrecondition))

	_, err = Simpson38(req(square, 1, 0, 4))
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

// --- exactness ---

func TestSimpson13ExactForQuadratic(t *testing.T) {
	for _, n := range []int64{2, 4, 10, 100, 1000, 10000} {
		got, err := Simpson13(req(square, 0, 1, n))
		require.NoError(t, err)
		assert.InDelta(t, 1.0/3.0, got, 1e-12, "n=%d", n)
	}
}

func TestSimpsonRulesExactForCubic(t *testing.T) {
	for _, n := range []int64{6, 12, 60, 600} {
		got, err := Simpson13(req(cube, 0, 1, n))
		require.NoError(t, err)
		assert.InDelta(t, 0.25, got, 1e-12, "1/3 n=%d", n)

		got, err = Simpson38(req(cube, 0, 1, n))
		require.NoError(t, err)
		assert.InDelta(t, 0.25, got, 1e-12, "3/8 n=%d", n)
	}
	got, err := Simpson38(req(cube, -1, 2, 3))
	require.NoError(t, err)
	assert.InDelta(t, 15.0/4.0, got, 1e-12)
}

func TestMidpointAndTrapezoidExactForLinear(t *testing.T) {
	linear := func(x float64) float64 { return 3*x - 1 }
	for _, rule := range []Rule{Midpoint, Trapezoid} {
		got, err := rule(req(linear, 0, 2, 7))
		require.NoError(t, err)
		assert.InDelta(t, 4.0, got, 1e-12)
	}
}

func TestTrapezoidIsAverageOfLeftAndRight(t *testing.T) {
	r := req(gaussian, -0.5, 1.5, 37)
	l, err := Left(r)
	require.NoError(t, err)
	rt, err := Right(r)
	require.NoError(t, err)
	tr, err := Trapezoid(r)
	require.NoError(t, err)
	assert.InDelta(t, (l+rt)/2, tr, 1e-13)
}

// --- convergence ---

func TestErrorDecreasesWithIntervals(t *testing.T) {
	for _, m := range Methods(nil) {
		if !m.Deterministic {
			continue
		}
		t.Run(m.Name, func(t *testing.T) {
			coarse := absErr(t, m, req(math.Sin, 0, math.Pi, nextMultiple(100, m.Multiple)), 2.0)
			fine := absErr(t, m, req(math.Sin, 0, math.Pi, nextMultiple(100000, m.Multiple)), 2.0)
			assert.Greater(t, coarse, fine)
		})
	}
}

func TestConvergenceOrder(t *testing.T) {
	tests := []struct {
		name  string
		n     int64
		ratio float64
		delta float64
	}{
		{NameMidpoint, 100, 4, 0.05},
		{NameTrapezoid, 100, 4, 0.05},
		{NameSimpson13, 50, 16, 0.3},
		{NameSimpson38, 48, 16, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Lookup(tt.name, nil)
			require.NoError(t, err)
			e1 := absErr(t, m, req(gaussian, 0, 1, tt.n), 0.746824132812427)
			e2 := absErr(t, m, req(gaussian, 0, 1, 2*tt.n), 0.746824132812427)
			assert.InDelta(t, tt.ratio, e1/e2, tt.delta, "e1=%g e2=%g", e1, e2)
		})
	}
}

func TestRectangleRulesAreFirstOrder(t *testing.T) {
	for _, rule := range []Rule{Left, Right} {
		e1, err := rule(req(square, 0, 1, 1000))
		require.NoError(t, err)
		e2, err := rule(req(square, 0, 1, 2000))
		require.NoError(t, err)
		ratio := math.Abs(e1-1.0/3.0) / math.Abs(e2-1.0/3.0)
		assert.InDelta(t, 2.0, ratio, 0.01)
	}
}

func TestBracketing(t *testing.T) {
	tests := []struct {
		name       string
		f          types.Integrand
		a, b       float64
		exact      float64
		increasing bool
	}{
		{"x^2 increasing", square, 0, 1, 1.0 / 3.0, true},
		{"exp increasing", math.Exp, 0, 2, math.Exp(2) - 1, true},
		{"exp(-x^2) decreasing", gaussian, 0, 1, 0.746824132812427, false},
	}
	for _, tt := range tests {
		for _, n := range []int64{1, 7, 100, 5000} {
			t.Run(fmt.Sprintf("%s/n=%d", tt.name, n), func(t *testing.T) {
				l, err := Left(req(tt.f, tt.a, tt.b, n))
				require.NoError(t, err)
				r, err := Right(req(tt.f, tt.a, tt.b, n))
				require.NoError(t, err)
				if tt.increasing {
					assert.LessOrEqual(t, l, tt.exact)
					assert.GreaterOrEqual(t, r, tt.exact)
				} else {
					assert.GreaterOrEqual(t, l, tt.exact)
					assert.LessOrEqual(t, r, tt.exact)
				}
			})
		}
	}
}

// --- Monte Carlo ---

func TestMonteCarloConverges(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			got, err := MonteCarlo{Rand: newRand(seed)}.Integrate(req(square, 0, 1, 1000000))
			require.NoError(t, err)
			assert.InDelta(t, 1.0/3.0, got, 0.01)
		})
	}
}

func TestMonteCarloReproducibleWithSameSeed(t *testing.T) {
	r := req(math.Sin, 0, math.Pi, 5000)
	a, err := MonteCarlo{Rand: newRand(42)}.Integrate(r)
	require.NoError(t, err)
	b, err := MonteCarlo{Rand: newRand(42)}.Integrate(r)
	require.NoError(t, err)
	c, err := MonteCarlo{Rand: newRand(43)}.Integrate(r)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

type constSampler float64

func (c constSampler) Float64() float64 { return float64(c) }

func TestMonteCarloScalesSamplesToBounds(t *testing.T) {
	var seen []float64
	f := func(x float64) float64 {
		seen = append(seen, x)
		return 1
	}
	got, err := MonteCarlo{Rand: constSampler(0.25)}.Integrate(req(f, 2, 6, 4))
	require.NoError(t, err)
	assert.Equal(t, 4.0, got)
	assert.Equal(t, []float64{3, 3, 3, 3}, seen)
}

// --- registry ---

func TestMethodsOrderAndLabels(t *testing.T) {
	methods := Methods(nil)
	require.Len(t, methods, len(Names))
	for i, m := range methods {
		assert.Equal(t, Names[i], m.Name)
		assert.Equal(t, fmt.Sprintf("%d. ", i+1), m.Label[:3])
	}
	assert.Equal(t, int64(2), methods[4].Multiple)
	assert.Equal(t, int64(3), methods[5].Multiple)
	assert.False(t, methods[6].Deterministic)
}

func TestLookup(t *testing.T) {
	m, err := Lookup(" Simpson38 ", nil)
	require.NoError(t, err)
	assert.Equal(t, "6. Simpson's 3/8 Rule", m.Label)

	_, err = Lookup("romberg", nil)
	assert.ErrorContains(t, err, "unknown method")
}

func TestWithSampler(t *testing.T) {
	mc, err := Lookup(NameMonteCarlo, nil)
	require.NoError(t, err)

	_, err = mc.Integrate(req(square, 0, 1, 10))
	assert.ErrorIs(t, err, ErrInvalidRequest)

	got, err := mc.WithSampler(constSampler(0.5)).Integrate(req(square, 0, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, 0.25, got)

	left, err := Lookup(NameLeft, nil)
	require.NoError(t, err)
	assert.Equal(t, left.Label, left.WithSampler(constSampler(0.5)).Label)
}
