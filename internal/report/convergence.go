// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/quadbench/pkg/types"
)

// Point is one valid (interval count, error) sample.
type Point struct {
	Intervals int64   `json:"intervals" yaml:"intervals"`
	AbsError  float64 `json:"abs_error" yaml:"abs_error"`
}

// Convergence summarizes how one method's error shrinks on one function.
type Convergence struct {
	Function string  `json:"function" yaml:"function"`
	Method   string  `json:"method" yaml:"method"`
	Points   []Point `json:"points" yaml:"points"`

	// Orders holds the observed order log(e1/e2)/log(n2/n1) between each
	// pair of consecutive points. Pairs with a zero error are skipped.
	Orders []float64 `json:"orders,omitempty" yaml:"orders,omitempty"`

	// MeanOrder is the mean of Orders, or zero when Orders is empty.
	MeanOrder float64 `json:"mean_order" yaml:"mean_order"`

	BestError     float64 `json:"best_error" yaml:"best_error"`
	BestIntervals int64   `json:"best_intervals" yaml:"best_intervals"`
}

// ObservedOrder returns log(e1/e2)/log(n2/n1), the exponent p in
// error ~ C/n^p implied by two samples. ok is false when the samples
// cannot determine it.
func ObservedOrder(n1 int64, e1 float64, n2 int64, e2 float64) (p float64, ok bool) {
	if n1 <= 0 || n2 <= 0 || n1 == n2 || e1 <= 0 || e2 <= 0 {
		return 0, false
	}
	p = math.Log(e1/e2) / math.Log(float64(n2)/float64(n1))
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, false
	}
	return p, true
}

// Convergences groups valid records by (function, method) and computes
// observed orders. Groups keep the order in which they first appear;
// points are sorted by interval count. Invalid and non-finite records are
// ignored.
func Convergences(records []types.BenchmarkRecord) []Convergence {
	type key struct{ fn, method string }
	index := make(map[key]int)
	var out []Convergence

	for _, r := range records {
		if !r.Valid() {
			continue
		}
		k := key{r.Function, r.Method}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Convergence{Function: r.Function, Method: r.Method})
		}
		out[i].Points = append(out[i].Points, Point{Intervals: r.Intervals, AbsError: r.AbsError})
	}

	for i := range out {
		c := &out[i]
		sort.SliceStable(c.Points, func(a, b int) bool { return c.Points[a].Intervals < c.Points[b].Intervals })

		c.BestError = c.Points[0].AbsError
		c.BestIntervals = c.Points[0].Intervals
		for j, pt := range c.Points {
			if pt.AbsError < c.BestError {
				c.BestError = pt.AbsError
				c.BestIntervals = pt.Intervals
			}
			if j == 0 {
				continue
			}
			prev := c.Points[j-1]
			if p, ok := ObservedOrder(prev.Intervals, prev.AbsError, pt.Intervals, pt.AbsError); ok {
				c.Orders = append(c.Orders, p)
			}
		}

		if len(c.Orders) > 0 {
			sum := 0.0
			for _, p := range c.Orders {
				sum += p
			}
			c.MeanOrder = sum / float64(len(c.Orders))
		}
	}
	return out
}

// WriteConvergenceTable prints one line per (function, method) group.
func WriteConvergenceTable(w io.Writer, convs []Convergence) {
	fmt.Fprintf(w, "%-12s  %-24s  %10s  %14s  %12s\n", "Function", "Method", "Order", "Best Error", "At N")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, c := range convs {
		order := "-"
		if len(c.Orders) > 0 {
			order = fmt.Sprintf("%.2f", c.MeanOrder)
		}
		fmt.Fprintf(w, "%-12s  %-24s  %10s  %14.6e  %12d\n",
			truncate(c.Function, 12), truncate(c.Method, 24), order, c.BestError, c.BestIntervals)
	}
}

// WriteRecordTable prints records as an aligned text table.
func WriteRecordTable(w io.Writer, records []types.BenchmarkRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}
	fmt.Fprintf(w, "%-12s  %-24s  %10s  %20s  %14s  %12s\n",
		"Function", "Method", "N", "Result", "Abs Error", "Time (ms)")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range records {
		result, absErr := InvalidMarker, InvalidMarker
		if r.Valid() {
			result = fmt.Sprintf("%.12f", r.Result)
			absErr = fmt.Sprintf("%.6e", r.AbsError)
		}
		fmt.Fprintf(w, "%-12s  %-24s  %10d  %20s  %14s  %12.4f\n",
			truncate(r.Function, 12), truncate(r.Method, 24), r.Intervals, result, absErr, r.ElapsedMillis())
	}
	fmt.Fprintf(w, "\n%d results\n", len(records))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
