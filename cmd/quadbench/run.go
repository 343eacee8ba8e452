// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/quadbench/internal/bench"
	"github.com/pdiddy/quadbench/internal/problems"
	"github.com/pdiddy/quadbench/internal/report"
	"github.com/pdiddy/quadbench/internal/store"
	"github.com/pdiddy/quadbench/pkg/types"
)

const defaultCSVPath = "integration_comparison.csv"

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the benchmark and write the CSV report",
	Long: `Run evaluates every selected method on every selected problem at every
interval count, records the result, absolute error, and execution time, and
writes one CSV row per evaluation. Interval counts are rounded up to satisfy
Simpson's rules (even for 1/3, multiple of 3 for 3/8). Evaluations a method
rejects are reported as INVALID_N rather than failing the run.

Monte Carlo draws from a PCG stream per evaluation derived from --seed, so a
run can be reproduced exactly by passing the seed it reports.`,
	RunE: runBenchmark,
}

func init() {
	f := runCmd.Flags()
	f.IntSlice("intervals", toInts(bench.DefaultIntervals), "interval counts to sweep")
	f.StringSlice("methods", nil, "methods to run (default all): left, right, midpoint, trapezoid, simpson13, simpson38, montecarlo")
	f.StringSlice("problems", nil, "problem labels to run (default all)")
	f.String("problems-file", "", "YAML file defining problems (default: built-in x^2, sin(x), exp(-x^2))")
	f.Int("workers", 1, "concurrent evaluations (timings are least noisy with 1)")
	f.Uint64("seed", 0, "Monte Carlo seed (0 = time-based)")
	f.String("output", defaultCSVPath, "CSV output path")
	f.String("summary", "", "write a convergence summary (.yaml or .json)")
	f.Bool("store", true, "save the run to the results database")
	f.String("results-dir", "results", "directory for the results database")
	f.Bool("quiet", false, "do not print the convergence table")

	viper.BindPFlag("benchmark.intervals", f.Lookup("intervals"))
	viper.BindPFlag("benchmark.methods", f.Lookup("methods"))
	viper.BindPFlag("benchmark.problems", f.Lookup("problems"))
	viper.BindPFlag("benchmark.problems_file", f.Lookup("problems-file"))
	viper.BindPFlag("benchmark.workers", f.Lookup("workers"))
	viper.BindPFlag("benchmark.seed", f.Lookup("seed"))
	viper.BindPFlag("report.csv_path", f.Lookup("output"))
	viper.BindPFlag("report.summary_path", f.Lookup("summary"))
	viper.BindPFlag("store.enabled", f.Lookup("store"))
	viper.BindPFlag("store.dir", f.Lookup("results-dir"))

	rootCmd.AddCommand(runCmd)
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg := benchmarkConfig()
	reportCfg := types.ReportConfig{
		CSVPath:     viper.GetString("report.csv_path"),
		SummaryPath: viper.GetString("report.summary_path"),
	}
	if reportCfg.CSVPath == "" {
		reportCfg.CSVPath = defaultCSVPath
	}

	probs, err := loadProblems(viper.GetString("benchmark.problems_file"), viper.GetStringSlice("benchmark.problems"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := bench.Run(ctx, cfg, probs, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("seed: %d\n", res.Seed)

	fmt.Printf("exporting results to %s\n", reportCfg.CSVPath)
	if err := report.WriteCSVFile(reportCfg.CSVPath, res.Records); err != nil {
		return err
	}

	summary := report.NewSummary(res)
	if reportCfg.SummaryPath != "" {
		if err := report.WriteSummary(reportCfg.SummaryPath, summary); err != nil {
			return err
		}
		fmt.Printf("wrote summary to %s\n", reportCfg.SummaryPath)
	}

	if viper.GetBool("store.enabled") {
		st, err := store.Open(storeConfig())
		if err != nil {
			return err
		}
		defer st.Close()

		id, err := st.SaveRun(ctx, res)
		if err != nil {
			return err
		}
		fmt.Printf("saved run %d\n", id)
	}

	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		fmt.Println()
		report.WriteConvergenceTable(os.Stdout, summary.Convergence)
	}
	if n := res.Invalid(); n > 0 {
		fmt.Printf("\n%d of %d evaluations were invalid\n", n, len(res.Records))
	}
	return nil
}

// --- shared helpers ---

func benchmarkConfig() types.BenchmarkConfig {
	var intervals []int64
	for _, n := range viper.GetIntSlice("benchmark.intervals") {
		intervals = append(intervals, int64(n))
	}
	return types.BenchmarkConfig{
		Intervals: intervals,
		Methods:   viper.GetStringSlice("benchmark.methods"),
		Workers:   viper.GetInt("benchmark.workers"),
		Seed:      viper.GetUint64("benchmark.seed"),
	}
}

func storeConfig() types.StoreConfig {
	return types.StoreConfig{
		Dir:        viper.GetString("store.dir"),
		MaxResults: viper.GetInt("store.max_results"),
	}
}

func loadProblems(file string, labels []string) ([]types.Problem, error) {
	all := problems.Defaults()
	if file != "" {
		loaded, err := problems.Load(file)
		if err != nil {
			return nil, err
		}
		all = loaded
	}
	return problems.Select(all, labels)
}

func toInts(ns []int64) []int {
	out := make([]int, len(ns))
	for i, n := range ns {
		out[i] = int(n)
	}
	return out
}
