// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/quadbench/internal/bench"
)

// Summary describes a benchmark run and its convergence table.
type Summary struct {
	StartedAt   time.Time     `json:"started_at" yaml:"started_at"`
	Duration    string        `json:"duration" yaml:"duration"`
	Seed        uint64        `json:"seed" yaml:"seed"`
	Workers     int           `json:"workers" yaml:"workers"`
	Intervals   []int64       `json:"intervals" yaml:"intervals"`
	Cases       int           `json:"cases" yaml:"cases"`
	Invalid     int           `json:"invalid" yaml:"invalid"`
	Convergence []Convergence `json:"convergence" yaml:"convergence"`
}

// NewSummary builds the summary of a run.
func NewSummary(res bench.Result) Summary {
	return Summary{
		StartedAt:   res.StartedAt.UTC(),
		Duration:    res.Duration.String(),
		Seed:        res.Seed,
		Workers:     res.Workers,
		Intervals:   res.Intervals,
		Cases:       len(res.Records),
		Invalid:     res.Invalid(),
		Convergence: Convergences(res.Records),
	}
}

// WriteSummary writes s to path. The extension selects the format:
// .json for JSON, .yaml or .yml for YAML.
func WriteSummary(path string, s Summary) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
	case ".yaml", ".yml":
		data, err = yaml.Marshal(&s)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported summary format %q: use .yaml, .yml, or .json", ext)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSummary loads a summary written by WriteSummary.
func ReadSummary(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading summary: %w", err)
	}
	var s Summary
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &s)
	} else {
		err = yaml.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing summary: %w", err)
	}
	return &s, nil
}
