// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/quadbench/internal/bench"
	"github.com/pdiddy/quadbench/internal/problems"
	"github.com/pdiddy/quadbench/pkg/types"
)

func sampleRecords() []types.BenchmarkRecord {
	return []types.BenchmarkRecord{
		{
			Function: "x^2", Method: "1. Left Rectangle", Intervals: 100,
			Result: 0.32835, AbsError: 0.0049833333333333, Elapsed: 1500 * time.Microsecond,
		},
		{
			Function: "x^2", Method: "5. Simpson's 1/3 Rule", Intervals: 3,
			Result: math.NaN(), AbsError: math.NaN(), Elapsed: 250 * time.Nanosecond,
			Reason: types.ReasonPrecondition,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"FunctionName,Method,NumIntervals,Result,AbsoluteError,ExecutionTime_ms",
		"x^2,1. Left Rectangle,100,0.328350000000,4.983333333333e-03,1.5000",
		"x^2,5. Simpson's 1/3 Rule,3,INVALID_N,INVALID_N,0.0003",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("CSV mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSVQuotesCommas(t *testing.T) {
	var buf bytes.Buffer
	recs := []types.BenchmarkRecord{{Function: "f(x, y)", Method: "3. Midpoint Rule", Intervals: 1, Result: 1, AbsError: 0}}
	require.NoError(t, WriteCSV(&buf, recs))
	assert.Contains(t, buf.String(), `"f(x, y)",3. Midpoint Rule,1,`)
}

func TestWriteCSVMarksNonFiniteResults(t *testing.T) {
	recs := []types.BenchmarkRecord{
		{Function: "s", Method: "1. Left Rectangle", Intervals: 100, Result: math.NaN(), AbsError: math.NaN()},
		{Function: "s", Method: "2. Right Rectangle", Intervals: 100, Result: math.Inf(1), AbsError: math.Inf(1)},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, recs))
	assert.NotContains(t, buf.String(), "NaN")
	assert.NotContains(t, buf.String(), "Inf")
	assert.Contains(t, buf.String(), "s,1. Left Rectangle,100,INVALID_N,INVALID_N,")
	assert.Contains(t, buf.String(), "s,2. Right Rectangle,100,INVALID_N,INVALID_N,")

	buf.Reset()
	WriteRecordTable(&buf, recs)
	assert.NotContains(t, buf.String(), "NaN")
	assert.Equal(t, 4, strings.Count(buf.String(), InvalidMarker))
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "integration_comparison.csv")
	require.NoError(t, WriteCSVFile(path, sampleRecords()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "FunctionName,"))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestObservedOrder(t *testing.T) {
	p, ok := ObservedOrder(100, 1e-4, 200, 2.5e-5)
	require.True(t, ok)
	assert.InDelta(t, 2.0, p, 1e-12)

	p, ok = ObservedOrder(10, 1.6e-3, 100, 1.6e-7)
	require.True(t, ok)
	assert.InDelta(t, 4.0, p, 1e-12)

	for _, tc := range []struct {
		n1, n2 int64
		e1, e2 float64
	}{
		{100, 100, 1, 0.5},
		{100, 200, 0, 0.5},
		{100, 200, 1, 0},
		{0, 200, 1, 0.5},
		{100, 200, math.NaN(), 0.5},
	} {
		_, ok := ObservedOrder(tc.n1, tc.e1, tc.n2, tc.e2)
		assert.False(t, ok, "%+v", tc)
	}
}

func TestConvergences(t *testing.T) {
	recs := []types.BenchmarkRecord{
		{Function: "f", Method: "m", Intervals: 200, AbsError: 2.5e-5},
		{Function: "f", Method: "m", Intervals: 100, AbsError: 1e-4},
		{Function: "f", Method: "bad", Intervals: 100, Result: math.NaN(), AbsError: math.NaN(), Reason: types.ReasonPrecondition},
		{Function: "f", Method: "m", Intervals: 400, AbsError: 0},
		{Function: "g", Method: "m", Intervals: 100, AbsError: 0.5},
	}

	convs := Convergences(recs)
	require.Len(t, convs, 2)

	f := convs[0]
	assert.Equal(t, "f", f.Function)
	assert.Equal(t, []Point{{100, 1e-4}, {200, 2.5e-5}, {400, 0}}, f.Points)
	require.Len(t, f.Orders, 1)
	assert.InDelta(t, 2.0, f.MeanOrder, 1e-12)
	assert.Equal(t, 0.0, f.BestError)
	assert.Equal(t, int64(400), f.BestIntervals)

	g := convs[1]
	assert.Empty(t, g.Orders)
	assert.Zero(t, g.MeanOrder)
	assert.Equal(t, int64(100), g.BestIntervals)
}

func TestConvergencesSkipNonFinitePoints(t *testing.T) {
	recs := []types.BenchmarkRecord{
		{Function: "f", Method: "m", Intervals: 100, Result: math.NaN(), AbsError: math.NaN()},
		{Function: "f", Method: "m", Intervals: 200, Result: 1, AbsError: 1e-4},
		{Function: "f", Method: "m", Intervals: 400, Result: math.Inf(-1), AbsError: math.Inf(1)},
		{Function: "f", Method: "m", Intervals: 800, Result: 1, AbsError: 2.5e-5},
		{Function: "g", Method: "m", Intervals: 100, Result: math.NaN(), AbsError: math.NaN()},
	}

	convs := Convergences(recs)
	require.Len(t, convs, 1)
	assert.Equal(t, []Point{{200, 1e-4}, {800, 2.5e-5}}, convs[0].Points)
	assert.Equal(t, 2.5e-5, convs[0].BestError)
	assert.Equal(t, int64(800), convs[0].BestIntervals)
	assert.InDelta(t, 1.0, convs[0].MeanOrder, 1e-12)
}

func TestWriteSummaryWithNonFiniteResults(t *testing.T) {
	probs := []types.Problem{{Label: "sqrt(x)", Integrand: math.Sqrt, Lower: -1, Upper: 1, Exact: 2.0 / 3.0}}
	cfg := types.BenchmarkConfig{Intervals: []int64{100, 200}, Methods: []string{"left", "trapezoid"}, Seed: 3}
	res, err := bench.Run(context.Background(), cfg, probs, io.Discard)
	require.NoError(t, err)

	s := NewSummary(res)
	for _, name := range []string{"summary.json", "summary.yaml"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, WriteSummary(path, s), name)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, strings.ToLower(string(data)), "nan", name)
	}
}

func TestConvergencesFromRun(t *testing.T) {
	cfg := types.BenchmarkConfig{Intervals: []int64{100, 200, 400}, Methods: []string{"midpoint", "simpson13"}, Seed: 1}
	probs, err := problems.Select(problems.Defaults(), []string{"sin(x)"})
	require.NoError(t, err)

	res, err := bench.Run(context.Background(), cfg, probs, io.Discard)
	require.NoError(t, err)

	convs := Convergences(res.Records)
	require.Len(t, convs, 2)
	assert.InDelta(t, 2.0, convs[0].MeanOrder, 0.05)
	assert.InDelta(t, 4.0, convs[1].MeanOrder, 0.1)
}

func TestWriteTables(t *testing.T) {
	var buf bytes.Buffer
	WriteRecordTable(&buf, sampleRecords())
	out := buf.String()
	assert.Contains(t, out, "0.328350000000")
	assert.Contains(t, out, InvalidMarker)
	assert.Contains(t, out, "2 results")

	buf.Reset()
	WriteRecordTable(&buf, nil)
	assert.Equal(t, "No results found.\n", buf.String())

	buf.Reset()
	WriteConvergenceTable(&buf, []Convergence{{Function: "sin(x)", Method: "5. Simpson's 1/3 Rule", Orders: []float64{4}, MeanOrder: 4, BestError: 1e-10, BestIntervals: 1000}})
	assert.Contains(t, buf.String(), "4.00")
	assert.Contains(t, buf.String(), "1.000000e-10")
}

func TestWriteSummaryRoundTrip(t *testing.T) {
	cfg := types.BenchmarkConfig{Intervals: []int64{30, 60}, Seed: 11}
	res, err := bench.Run(context.Background(), cfg, problems.Defaults(), io.Discard)
	require.NoError(t, err)
	s := NewSummary(res)
	assert.Equal(t, 42, s.Cases)
	assert.Equal(t, uint64(11), s.Seed)

	for _, name := range []string{"summary.yaml", "summary.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, WriteSummary(path, s))

			got, err := ReadSummary(path)
			require.NoError(t, err)
			assert.Equal(t, s.Seed, got.Seed)
			assert.Equal(t, s.Intervals, got.Intervals)
			assert.Len(t, got.Convergence, len(s.Convergence))
		})
	}
}

func TestWriteSummaryUnsupportedFormat(t *testing.T) {
	err := WriteSummary(filepath.Join(t.TempDir(), "summary.toml"), Summary{})
	assert.ErrorContains(t, err, "unsupported summary format")
}
