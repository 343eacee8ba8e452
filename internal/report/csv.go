// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes benchmark records as a CSV table for external
// plotting, summarizes observed convergence orders, and exports the
// summary as YAML or JSON.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdiddy/quadbench/pkg/types"
)

// InvalidMarker replaces the result and error columns of rows whose method
// rejected the request or produced a non-finite value.
const InvalidMarker = "INVALID_N"

// Header is the CSV header row.
var Header = []string{"FunctionName", "Method", "NumIntervals", "Result", "AbsoluteError", "ExecutionTime_ms"}

// WriteCSV writes the header and one row per record.
func WriteCSV(w io.Writer, records []types.BenchmarkRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("writing CSV row for %s/%s: %w", r.Function, r.Method, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the table to path, creating parent directories.
// The file is written to a temporary name and renamed on success.
func WriteCSVFile(path string, records []types.BenchmarkRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmp, err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}

func row(r types.BenchmarkRecord) []string {
	result, absErr := InvalidMarker, InvalidMarker
	if r.Valid() {
		result = strconv.FormatFloat(r.Result, 'f', 12, 64)
		absErr = strconv.FormatFloat(r.AbsError, 'e', 12, 64)
	}
	return []string{
		r.Function,
		r.Method,
		strconv.FormatInt(r.Intervals, 10),
		result,
		absErr,
		strconv.FormatFloat(r.ElapsedMillis(), 'f', 4, 64),
	}
}
