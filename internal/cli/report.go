package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/xmlconform/xmlconform/internal/harness"
	"github.com/xmlconform/xmlconform/internal/report"
	"github.com/xmlconform/xmlconform/internal/store"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	RunID  string
	Engine string
	Suite  string
	Output string
}

// NewReportCommand creates the report command. It re-renders a stored
// run without re-executing anything.
func NewReportCommand(root *RootOptions) *cobra.Command {
	opts := &ReportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a report for a stored run",
		Long: `Report renders a previously persisted run. Select a run explicitly
with --run, or take the latest run for an engine and suite.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id (defaults to the latest run for --engine and --suite)")
	cmd.Flags().StringVarP(&opts.Engine, "engine", "e", "", "engine of the run")
	cmd.Flags().StringVarP(&opts.Suite, "suite", "s", "", "suite of the run")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "summary", "report format (summary|json|csv|markdown)")

	return cmd
}

func runReport(cmd *cobra.Command, root *RootOptions, opts *ReportOptions) error {
	format, err := report.ParseFormat(opts.Output)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid output format", err)
	}

	db, err := store.Open(root.DB)
	if err != nil {
		return WrapExitError(ExitCommandError, "open run database", err)
	}
	defer db.Close()

	run, results, err := loadRun(cmd.Context(), db, opts)
	if err != nil {
		return err
	}

	rep := report.New(run.Engine, run.Suite, results)
	rep.Timestamp = run.FinishedAt.UTC()
	if err := rep.Render(cmd.OutOrStdout(), format); err != nil {
		return WrapExitError(ExitFailure, "render report", err)
	}
	return nil
}

func loadRun(ctx context.Context, db *store.Store, opts *ReportOptions) (store.Run, []harness.TestResult, error) {
	var run store.Run
	var results []harness.TestResult
	var err error

	switch {
	case opts.RunID != "":
		run, results, err = db.LoadRun(ctx, opts.RunID)
	case opts.Engine != "" && opts.Suite != "":
		run, results, err = db.LatestRun(ctx, opts.Engine, opts.Suite)
	default:
		return store.Run{}, nil, NewExitError(ExitCommandError, "need --run, or both --engine and --suite")
	}

	if errors.Is(err, store.ErrRunNotFound) {
		return store.Run{}, nil, WrapExitError(ExitCommandError, "no such run", err)
	}
	if err != nil {
		return store.Run{}, nil, WrapExitError(ExitFailure, "load run", err)
	}
	return run, results, nil
}
