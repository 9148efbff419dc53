package cli

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/xmlconform/xmlconform/internal/report"
	"github.com/xmlconform/xmlconform/internal/store"
)

// CompareOptions holds flags for the compare command.
type CompareOptions struct {
	Suite  string
	Output string
}

// NewCompareCommand creates the compare command: each engine's latest
// stored run on a suite, side by side.
func NewCompareCommand(root *RootOptions) *cobra.Command {
	opts := &CompareOptions{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare engines on one suite",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Suite, "suite", "s", "", "suite to compare")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "summary", "output format (summary|json)")

	return cmd
}

func runCompare(cmd *cobra.Command, root *RootOptions, opts *CompareOptions) error {
	if opts.Suite == "" {
		return NewExitError(ExitCommandError, "missing required flag --suite")
	}
	if opts.Output != "summary" && opts.Output != "json" {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown output format %q (available: summary, json)", opts.Output))
	}

	db, err := store.Open(root.DB)
	if err != nil {
		return WrapExitError(ExitCommandError, "open run database", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	runs, err := db.LatestRuns(ctx, opts.Suite)
	if errors.Is(err, store.ErrRunNotFound) {
		return WrapExitError(ExitCommandError, "no runs for suite", err)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "load runs", err)
	}

	reports := make([]*report.Report, 0, len(runs))
	for _, run := range runs {
		_, results, err := db.LoadRun(ctx, run.ID)
		if err != nil {
			return WrapExitError(ExitFailure, "load run", err)
		}
		reports = append(reports, report.New(run.Engine, run.Suite, results))
	}

	cmp := report.Compare(reports)
	if opts.Output == "json" {
		data, err := json.MarshalIndent(cmp, "", "  ")
		if err != nil {
			return WrapExitError(ExitFailure, "encode comparison", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), cmp.String())
	return nil
}
