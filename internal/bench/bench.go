// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bench runs quadrature methods over a cross-product of problems,
// interval counts, and methods, timing each call and measuring its error
// against the problem's exact value.
package bench

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/quadbench/internal/logging"
	"github.com/pdiddy/quadbench/internal/quadrature"
	"github.com/pdiddy/quadbench/pkg/types"
)

// DefaultIntervals is the resolution sweep used when none is configured.
var DefaultIntervals = []int64{100, 1000, 10000, 100000, 1000000}

// Result holds the records of one benchmark run and the settings that
// produced them.
type Result struct {
	StartedAt time.Time
	Duration  time.Duration
	Seed      uint64
	Workers   int
	Intervals []int64
	Records   []types.BenchmarkRecord
}

// Invalid returns the number of records whose method rejected the request.
func (r Result) Invalid() int {
	n := 0
	for _, rec := range r.Records {
		if !rec.Valid() {
			n++
		}
	}
	return n
}

type job struct {
	index   int
	problem types.Problem
	method  quadrature.Method
	n       int64
}

// AdjustIntervals rounds n up to the nearest multiple of multiple so that
// a method's divisibility precondition holds. Non-positive n is returned
// unchanged; the method will reject it.
func AdjustIntervals(n, multiple int64) int64 {
	if n <= 0 || multiple <= 1 {
		return n
	}
	if r := n % multiple; r != 0 {
		return n + multiple - r
	}
	return n
}

// SelectMethods resolves method short names. An empty list selects all
// seven methods in report order.
func SelectMethods(names []string) ([]quadrature.Method, error) {
	if len(names) == 0 {
		return quadrature.Methods(nil), nil
	}
	seen := make(map[string]bool, len(names))
	methods := make([]quadrature.Method, 0, len(names))
	for _, name := range names {
		m, err := quadrature.Lookup(name, nil)
		if err != nil {
			return nil, err
		}
		if seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		methods = append(methods, m)
	}
	return methods, nil
}

// Run evaluates every (problem, interval count, method) triple and returns
// one record per triple, ordered by problem, then interval count, then
// method. Methods that reject a request produce a record with a Reason;
// they never fail the run. Run fails only on configuration errors or when
// ctx is cancelled.
//
// Each Monte Carlo evaluation draws from its own PCG stream derived from
// the run seed and the triple's position, so results are reproducible for
// a given seed regardless of cfg.Workers.
func Run(ctx context.Context, cfg types.BenchmarkConfig, probs []types.Problem, w io.Writer) (Result, error) {
	if len(probs) == 0 {
		return Result{}, fmt.Errorf("no problems to benchmark")
	}
	methods, err := SelectMethods(cfg.Methods)
	if err != nil {
		return Result{}, err
	}
	intervals := cfg.Intervals
	if len(intervals) == 0 {
		intervals = DefaultIntervals
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	var jobs []job
	for _, p := range probs {
		for _, n := range intervals {
			for _, m := range methods {
				jobs = append(jobs, job{index: len(jobs), problem: p, method: m, n: n})
			}
		}
	}

	logger := logging.New("bench")
	logger.Info("starting benchmark",
		"problems", len(probs), "methods", len(methods), "resolutions", len(intervals),
		"cases", len(jobs), "workers", workers, "seed", seed)
	fmt.Fprintf(w, "preparing to run %d test cases\n", len(jobs))

	result := Result{
		StartedAt: time.Now(),
		Seed:      seed,
		Workers:   workers,
		Intervals: intervals,
		Records:   make([]types.BenchmarkRecord, len(jobs)),
	}

	// Per-problem countdown for progress lines.
	perProblem := len(intervals) * len(methods)
	remaining := make([]int, len(probs))
	for i := range remaining {
		remaining[i] = perProblem
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, j := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result.Records[j.index] = evaluate(j, seed)

			mu.Lock()
			defer mu.Unlock()
			pi := j.index / perProblem
			remaining[pi]--
			if remaining[pi] == 0 {
				fmt.Fprintf(w, "completed benchmarks for function: %s\n", j.problem.Label)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("benchmark interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("benchmark interrupted: %w", err)
	}

	result.Duration = time.Since(result.StartedAt)
	logger.Info("benchmark complete", "cases", len(jobs), "invalid", result.Invalid(), "duration", result.Duration)
	return result, nil
}

// evaluate runs one triple. The interval count is adjusted for the method's
// precondition before the call; the method itself never adjusts.
func evaluate(j job, seed uint64) types.BenchmarkRecord {
	m := j.method
	if !m.Deterministic {
		m = m.WithSampler(rand.New(rand.NewPCG(seed, uint64(j.index))))
	}
	n := AdjustIntervals(j.n, m.Multiple)

	req := j.problem.Request(n)
	start := time.Now()
	value, err := m.Integrate(req)
	elapsed := time.Since(start)

	rec := types.BenchmarkRecord{
		Function:  j.problem.Label,
		Method:    m.Label,
		Intervals: n,
		Result:    value,
		AbsError:  math.Abs(value - j.problem.Exact),
		Elapsed:   elapsed,
		Reason:    quadrature.Reason(err),
	}
	switch {
	case err != nil:
		rec.Result = math.NaN()
		rec.AbsError = math.NaN()
		logging.New("bench").Debug("method rejected request",
			"function", rec.Function, "method", rec.Method, "intervals", n, "error", err)
	case math.IsNaN(value) || math.IsInf(value, 0):
		rec.Result = math.NaN()
		rec.AbsError = math.NaN()
		rec.Reason = types.ReasonNonFinite
		logging.New("bench").Warn("method returned a non-finite result",
			"function", rec.Function, "method", rec.Method, "intervals", n, "value", value)
	}
	return rec
}
