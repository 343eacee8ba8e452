// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists benchmark runs and their records in SQLite so
// results can be queried and compared after the run.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/quadbench/internal/bench"
	"github.com/pdiddy/quadbench/internal/logging"
	"github.com/pdiddy/quadbench/pkg/types"
)

const (
	dbFile            = "quadbench.db"
	defaultMaxResults = 50
)

// ErrNoRuns is returned by LatestRun when the database holds no runs.
var ErrNoRuns = errors.New("no benchmark runs stored")

// Store manages the results database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// RunInfo describes a stored run.
type RunInfo struct {
	ID        int64         `json:"id" yaml:"id"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Seed      uint64        `json:"seed" yaml:"seed"`
	Workers   int           `json:"workers" yaml:"workers"`
	Intervals []int64       `json:"intervals" yaml:"intervals"`
	Cases     int           `json:"cases" yaml:"cases"`
	Invalid   int           `json:"invalid" yaml:"invalid"`
}

// Open opens or creates the database at cfg.Dir/quadbench.db and creates
// the schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "results"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			duration_ns INTEGER NOT NULL,
			seed TEXT NOT NULL,
			workers INTEGER NOT NULL,
			intervals TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			function TEXT NOT NULL,
			method TEXT NOT NULL,
			intervals INTEGER NOT NULL,
			result REAL,
			abs_error REAL,
			elapsed_ns INTEGER NOT NULL,
			reason TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_run_id ON records(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_records_function_method ON records(function, method)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun stores a run and all its records in one transaction and returns
// the run ID. Invalid results are stored as NULL with their reason.
func (s *Store) SaveRun(ctx context.Context, res bench.Result) (int64, error) {
	intervalsJSON, err := json.Marshal(res.Intervals)
	if err != nil {
		return 0, fmt.Errorf("encoding intervals: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	r, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, duration_ns, seed, workers, intervals) VALUES (?, ?, ?, ?, ?)`,
		res.StartedAt.UTC().Format(time.RFC3339Nano), int64(res.Duration),
		strconv.FormatUint(res.Seed, 10), res.Workers, string(intervalsJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := r.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (run_id, function, method, intervals, result, abs_error, elapsed_ns, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range res.Records {
		var result, absErr sql.NullFloat64
		if rec.Valid() {
			result = sql.NullFloat64{Float64: rec.Result, Valid: true}
			absErr = sql.NullFloat64{Float64: rec.AbsError, Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			runID, rec.Function, rec.Method, rec.Intervals,
			result, absErr, int64(rec.Elapsed), string(rec.Reason),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting record %s/%s/%d: %w", rec.Function, rec.Method, rec.Intervals, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	logging.New("store").Debug("saved run", "run_id", runID, "records", len(res.Records))
	return runID, nil
}

const runColumns = `r.id, r.started_at, r.duration_ns, r.seed, r.workers, r.intervals,
	(SELECT count(*) FROM records WHERE run_id = r.id),
	(SELECT count(*) FROM records WHERE run_id = r.id AND reason != '')`

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs r ORDER BY r.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		info, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, info)
	}
	return runs, rows.Err()
}

// Run returns the run with the given ID.
func (s *Store) Run(ctx context.Context, id int64) (RunInfo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs r WHERE r.id = ?`, id)
	info, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunInfo{}, fmt.Errorf("run %d not found", id)
	}
	return info, err
}

// LatestRun returns the most recently stored run, or ErrNoRuns.
func (s *Store) LatestRun(ctx context.Context) (RunInfo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs r ORDER BY r.id DESC LIMIT 1`)
	info, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunInfo{}, ErrNoRuns
	}
	return info, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (RunInfo, error) {
	var (
		info          RunInfo
		startedAt     string
		durationNS    int64
		seed          string
		intervalsJSON string
	)
	if err := sc.Scan(&info.ID, &startedAt, &durationNS, &seed, &info.Workers, &intervalsJSON, &info.Cases, &info.Invalid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunInfo{}, err
		}
		return RunInfo{}, fmt.Errorf("scanning run: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return RunInfo{}, fmt.Errorf("parsing started_at %q: %w", startedAt, err)
	}
	info.StartedAt = t
	info.Duration = time.Duration(durationNS)

	info.Seed, err = strconv.ParseUint(seed, 10, 64)
	if err != nil {
		return RunInfo{}, fmt.Errorf("parsing seed %q: %w", seed, err)
	}
	if err := json.Unmarshal([]byte(intervalsJSON), &info.Intervals); err != nil {
		return RunInfo{}, fmt.Errorf("parsing intervals: %w", err)
	}
	return info, nil
}

// nullable maps a NULL column back to NaN.
func nullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
