package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xmlconform/xmlconform/internal/harness"
)

// Run identifies one persisted conformance run.
type Run struct {
	ID         string
	Engine     string
	Suite      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// SaveRun writes a run and its results in one transaction. Result rows
// keep their slice order as the seq column, so reads reproduce the
// execution order exactly.
func (s *Store) SaveRun(ctx context.Context, run Run, results []harness.TestResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, engine, suite, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Engine,
		run.Suite,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO results
		(run_id, seq, test_id, test_set, test_suite, description, outcome, message, expected, actual, duration_us)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	defer stmt.Close()

	for seq, r := range results {
		_, err = stmt.ExecContext(ctx,
			run.ID,
			seq,
			r.TestID,
			r.TestSet,
			r.TestSuite,
			r.Description,
			r.Outcome.Status.String(),
			r.Outcome.Reason,
			r.Expected,
			r.Actual,
			r.Duration.Microseconds(),
		)
		if err != nil {
			return fmt.Errorf("save result %d of run %s: %w", seq, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return nil
}
