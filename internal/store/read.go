package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xmlconform/xmlconform/internal/harness"
)

// LoadRun reads one run and its results, in execution order.
func (s *Store) LoadRun(ctx context.Context, id string) (Run, []harness.TestResult, error) {
	run, err := s.loadRunRow(ctx, `
		SELECT id, engine, suite, started_at, finished_at
		FROM runs WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, nil, runNotFoundf("id %s", id)
	}
	if err != nil {
		return Run{}, nil, fmt.Errorf("load run %s: %w", id, err)
	}
	results, err := s.loadResults(ctx, run.ID)
	if err != nil {
		return Run{}, nil, err
	}
	return run, results, nil
}

// LatestRun reads the most recently finished run for an engine and
// suite.
func (s *Store) LatestRun(ctx context.Context, engineName, suite string) (Run, []harness.TestResult, error) {
	run, err := s.loadRunRow(ctx, `
		SELECT id, engine, suite, started_at, finished_at
		FROM runs WHERE engine = ? AND suite = ?
		ORDER BY finished_at DESC LIMIT 1
	`, engineName, suite)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, nil, runNotFoundf("engine %s, suite %s", engineName, suite)
	}
	if err != nil {
		return Run{}, nil, fmt.Errorf("load latest run: %w", err)
	}
	results, err := s.loadResults(ctx, run.ID)
	if err != nil {
		return Run{}, nil, err
	}
	return run, results, nil
}

// LatestRuns reads the most recent run of every engine that has run the
// suite, ordered by engine name.
func (s *Store) LatestRuns(ctx context.Context, suite string) ([]Run, error) {
	rows, err := s.queryContext(ctx, `
		SELECT r.id, r.engine, r.suite, r.started_at, r.finished_at
		FROM runs r
		JOIN (
			SELECT engine, MAX(finished_at) AS finished_at
			FROM runs WHERE suite = ?
			GROUP BY engine
		) latest ON r.engine = latest.engine AND r.finished_at = latest.finished_at
		WHERE r.suite = ?
		ORDER BY r.engine
	`, suite, suite)
	if err != nil {
		return nil, fmt.Errorf("load latest runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("load latest runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load latest runs: %w", err)
	}
	if len(runs) == 0 {
		return nil, runNotFoundf("suite %s", suite)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) loadRunRow(ctx context.Context, query string, args ...any) (Run, error) {
	return scanRun(s.db.QueryRowContext(ctx, query, args...))
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var started, finished string
	if err := row.Scan(&run.ID, &run.Engine, &run.Suite, &started, &finished); err != nil {
		return Run{}, err
	}
	var err error
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return Run{}, fmt.Errorf("parse finished_at: %w", err)
	}
	return run, nil
}

func (s *Store) loadResults(ctx context.Context, runID string) ([]harness.TestResult, error) {
	rows, err := s.queryContext(ctx, `
		SELECT test_id, test_set, test_suite, description, outcome, message, expected, actual, duration_us
		FROM results WHERE run_id = ?
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("load results of run %s: %w", runID, err)
	}
	defer rows.Close()

	var results []harness.TestResult
	for rows.Next() {
		var r harness.TestResult
		var outcome, message string
		var durationUS int64
		err := rows.Scan(&r.TestID, &r.TestSet, &r.TestSuite, &r.Description,
			&outcome, &message, &r.Expected, &r.Actual, &durationUS)
		if err != nil {
			return nil, fmt.Errorf("load results of run %s: %w", runID, err)
		}
		status, err := harness.ParseStatus(outcome)
		if err != nil {
			return nil, fmt.Errorf("load results of run %s: %w", runID, err)
		}
		r.Outcome = harness.Outcome{Status: status, Reason: message}
		r.Duration = time.Duration(durationUS) * time.Microsecond
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load results of run %s: %w", runID, err)
	}
	return results, nil
}
