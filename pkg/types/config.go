// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// BenchmarkConfig holds settings for a benchmark run.
type BenchmarkConfig struct {
	// Intervals lists the swept interval counts (default 100 .. 1,000,000).
	Intervals []int64 `json:"intervals" yaml:"intervals"`

	// Methods lists method short names to run (empty = all seven).
	Methods []string `json:"methods,omitempty" yaml:"methods,omitempty"`

	// Workers bounds the number of concurrent evaluations (default 1).
	// Timings are least noisy with a single worker.
	Workers int `json:"workers" yaml:"workers"`

	// Seed seeds the Monte Carlo streams. Zero selects a time-based seed.
	Seed uint64 `json:"seed" yaml:"seed"`
}

// ReportConfig holds settings for report output.
type ReportConfig struct {
	// CSVPath is the path of the CSV table (default "integration_comparison.csv").
	CSVPath string `json:"csv_path" yaml:"csv_path"`

	// SummaryPath is an optional path for the convergence summary.
	// The extension selects the format: .yaml/.yml or .json.
	SummaryPath string `json:"summary_path,omitempty" yaml:"summary_path,omitempty"`
}

// StoreConfig holds settings for the results database.
type StoreConfig struct {
	// Dir is the directory holding the database file (default "results").
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of query results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
