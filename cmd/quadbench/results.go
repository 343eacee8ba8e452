// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/quadbench/internal/report"
	"github.com/pdiddy/quadbench/internal/store"
	"github.com/pdiddy/quadbench/pkg/types"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Query stored benchmark runs",
	Long: `Results reads the results database written by 'quadbench run'. By default
it shows the records of the latest run. Use --runs to list runs, --best to
show the most accurate evaluation per function, and the filter flags to
narrow the records.`,
	RunE: runResults,
}

func init() {
	f := resultsCmd.Flags()
	f.String("results-dir", "results", "directory holding the results database")
	f.Int64("run", 0, "run ID (default: latest)")
	f.String("function", "", "filter by function label")
	f.String("method", "", "filter by method label")
	f.Bool("invalid", false, "show only invalid evaluations")
	f.Bool("best", false, "show the lowest-error evaluation per function")
	f.Bool("runs", false, "list stored runs")
	f.Int("limit", 0, "maximum records (0 = store default, -1 = all)")
	f.Bool("json", false, "output as JSON")

	rootCmd.AddCommand(resultsCmd)
}

func runResults(cmd *cobra.Command, args []string) error {
	cfg := storeConfig()
	if cmd.Flags().Changed("results-dir") || cfg.Dir == "" {
		cfg.Dir, _ = cmd.Flags().GetString("results-dir")
	}

	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if listRuns, _ := cmd.Flags().GetBool("runs"); listRuns {
		runs, err := st.Runs(ctx)
		if err != nil {
			return err
		}
		return formatRuns(runs, jsonOutput)
	}

	runID, _ := cmd.Flags().GetInt64("run")
	var info store.RunInfo
	if runID == 0 {
		info, err = st.LatestRun(ctx)
	} else {
		info, err = st.Run(ctx, runID)
	}
	if err != nil {
		return err
	}

	var records []types.BenchmarkRecord
	if best, _ := cmd.Flags().GetBool("best"); best {
		records, err = st.Best(ctx, info.ID)
	} else {
		opts := store.QueryOptions{RunID: info.ID}
		opts.Function, _ = cmd.Flags().GetString("function")
		opts.Method, _ = cmd.Flags().GetString("method")
		opts.InvalidOnly, _ = cmd.Flags().GetBool("invalid")
		opts.MaxResults, _ = cmd.Flags().GetInt("limit")
		records, err = st.Records(ctx, opts)
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		return encodeJSON(jsonRecords(records))
	}
	fmt.Fprintf(os.Stdout, "run %d  started %s  seed %d\n\n",
		info.ID, info.StartedAt.Local().Format("2006-01-02 15:04:05"), info.Seed)
	report.WriteRecordTable(os.Stdout, records)
	return nil
}

func formatRuns(runs []store.RunInfo, jsonOutput bool) error {
	if jsonOutput {
		return encodeJSON(runs)
	}
	if len(runs) == 0 {
		fmt.Println("No runs found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-5s  %-19s  %-10s  %-20s  %-7s  %-7s  %s\n",
		"ID", "Started", "Duration", "Seed", "Workers", "Cases", "Invalid")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-5d  %-19s  %-10s  %-20d  %-7d  %-7d  %d\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Duration.Round(time.Millisecond),
			r.Seed, r.Workers, r.Cases, r.Invalid)
	}
	return nil
}

// jsonRecord mirrors BenchmarkRecord with nullable numbers, since JSON
// cannot encode NaN.
type jsonRecord struct {
	Function  string   `json:"function"`
	Method    string   `json:"method"`
	Intervals int64    `json:"intervals"`
	Result    *float64 `json:"result"`
	AbsError  *float64 `json:"abs_error"`
	ElapsedMS float64  `json:"elapsed_ms"`
	Reason    string   `json:"reason,omitempty"`
}

func jsonRecords(records []types.BenchmarkRecord) []jsonRecord {
	out := make([]jsonRecord, len(records))
	for i, r := range records {
		out[i] = jsonRecord{
			Function:  r.Function,
			Method:    r.Method,
			Intervals: r.Intervals,
			ElapsedMS: r.ElapsedMillis(),
			Reason:    string(r.Reason),
		}
		if r.Valid() {
			result, absErr := r.Result, r.AbsError
			out[i].Result = &result
			out[i].AbsError = &absErr
		}
	}
	return out
}

func encodeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var summaryCmd = &cobra.Command{
	Use:   "summary <file>",
	Short: "Print the convergence table from a saved summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := report.ReadSummary(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "started %s  seed %d  workers %d  cases %d  invalid %d\n\n",
			s.StartedAt.Local().Format("2006-01-02 15:04:05"), s.Seed, s.Workers, s.Cases, s.Invalid)
		report.WriteConvergenceTable(os.Stdout, s.Convergence)
		return nil
	},
}

func init() {
	viper.SetDefault("store.max_results", 50)
	rootCmd.AddCommand(summaryCmd)
}
