// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/quadbench/internal/problems"
	"github.com/pdiddy/quadbench/internal/quadrature"
	"github.com/pdiddy/quadbench/internal/report"
	"github.com/pdiddy/quadbench/pkg/types"
)

var integrateCmd = &cobra.Command{
	Use:   "integrate",
	Short: "Evaluate one method on one integrand",
	Long: `Integrate runs a single quadrature method on a named integrand over
[lower, upper]. Bounds accept numbers and multiples of pi ("pi/2", "-pi").
The interval count is used as given: a count that violates the method's
precondition is reported as invalid, not adjusted.`,
	Example: `  quadbench integrate --method simpson13 --function "sin(x)" --upper pi --intervals 100
  quadbench integrate --method montecarlo --function "x^2" --intervals 1000000 --seed 42`,
	RunE: runIntegrate,
}

func init() {
	f := integrateCmd.Flags()
	f.String("method", quadrature.NameSimpson13, "method name")
	f.String("function", "x^2", "integrand name (see 'quadbench problems')")
	f.String("lower", "0", "lower bound")
	f.String("upper", "1", "upper bound")
	f.Int64("intervals", 100, "interval count (samples for montecarlo)")
	f.Uint64("seed", 0, "Monte Carlo seed (0 = time-based)")
	f.Float64("exact", math.NaN(), "exact value; prints the absolute error when set")

	rootCmd.AddCommand(integrateCmd)
}

func runIntegrate(cmd *cobra.Command, args []string) error {
	methodName, _ := cmd.Flags().GetString("method")
	fnName, _ := cmd.Flags().GetString("function")
	lowerStr, _ := cmd.Flags().GetString("lower")
	upperStr, _ := cmd.Flags().GetString("upper")
	n, _ := cmd.Flags().GetInt64("intervals")
	seed, _ := cmd.Flags().GetUint64("seed")
	exact, _ := cmd.Flags().GetFloat64("exact")

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	m, err := quadrature.Lookup(methodName, rand.New(rand.NewPCG(seed, 0)))
	if err != nil {
		return err
	}
	f, err := problems.Integrand(fnName)
	if err != nil {
		return err
	}
	lower, err := problems.ParseBound(lowerStr)
	if err != nil {
		return fmt.Errorf("lower: %w", err)
	}
	upper, err := problems.ParseBound(upperStr)
	if err != nil {
		return fmt.Errorf("upper: %w", err)
	}

	req := types.IntegrationRequest{Integrand: f, Lower: lower, Upper: upper, Intervals: n}
	start := time.Now()
	value, err := m.Integrate(req)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Printf("%s: %s (%s)\n", m.Label, report.InvalidMarker, quadrature.Reason(err))
		return err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		fmt.Printf("%s: %s (%s)\n", m.Label, report.InvalidMarker, types.ReasonNonFinite)
		return fmt.Errorf("%s on [%g, %g] produced %g", fnName, lower, upper, value)
	}

	fmt.Printf("method:    %s\n", m.Label)
	fmt.Printf("integrand: %s on [%g, %g]\n", fnName, lower, upper)
	fmt.Printf("intervals: %d\n", n)
	fmt.Printf("result:    %.15g\n", value)
	if !math.IsNaN(exact) {
		fmt.Printf("abs error: %.6e\n", math.Abs(value-exact))
	}
	if !m.Deterministic {
		fmt.Printf("seed:      %d\n", seed)
	}
	fmt.Printf("time:      %s\n", elapsed)
	return nil
}
