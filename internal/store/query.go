// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/quadbench/pkg/types"
)

// QueryOptions filters stored records.
type QueryOptions struct {
	// RunID selects one run. Zero means every run.
	RunID int64

	// Function and Method filter by exact label.
	Function string
	Method   string

	// InvalidOnly keeps only records whose method rejected the request.
	InvalidOnly bool

	// MaxResults caps the number of records (0 = store default, -1 = all).
	MaxResults int
}

// Records returns the records matching opts in insertion order.
func (s *Store) Records(ctx context.Context, opts QueryOptions) ([]types.BenchmarkRecord, error) {
	var (
		where []string
		args  []any
	)
	if opts.RunID != 0 {
		where = append(where, "run_id = ?")
		args = append(args, opts.RunID)
	}
	if opts.Function != "" {
		where = append(where, "function = ?")
		args = append(args, opts.Function)
	}
	if opts.Method != "" {
		where = append(where, "method = ?")
		args = append(args, opts.Method)
	}
	if opts.InvalidOnly {
		where = append(where, "reason != ''")
	}

	query := `SELECT function, method, intervals, result, abs_error, elapsed_ns, reason FROM records`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	limit := opts.MaxResults
	if limit == 0 {
		limit = s.maxResults
	}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Best returns, for each function in the run, the valid record with the
// lowest absolute error. Ties go to the earlier record.
func (s *Store) Best(ctx context.Context, runID int64) ([]types.BenchmarkRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT function, method, intervals, result, abs_error, elapsed_ns, reason FROM (
			SELECT *, ROW_NUMBER() OVER (PARTITION BY function ORDER BY abs_error, id) AS pos
			FROM records
			WHERE run_id = ? AND reason = ''
		)
		WHERE pos = 1
		ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying best records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]types.BenchmarkRecord, error) {
	var out []types.BenchmarkRecord
	for rows.Next() {
		var (
			rec            types.BenchmarkRecord
			result, absErr sql.NullFloat64
			elapsedNS      int64
			reason         string
		)
		if err := rows.Scan(&rec.Function, &rec.Method, &rec.Intervals, &result, &absErr, &elapsedNS, &reason); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		rec.Result = nullable(result)
		rec.AbsError = nullable(absErr)
		rec.Elapsed = time.Duration(elapsedNS)
		rec.Reason = types.FailureReason(reason)
		out = append(out, rec)
	}
	return out, rows.Err()
}
