// Package cli wires the conformance harness into a cobra command tree:
// run executes a suite, report re-renders a stored run, compare puts
// engines side by side.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Config  string
	DB      string
	Verbose bool
}

// Logger returns a structured logger honoring the verbose flag.
// Diagnostics go to stderr so report output stays clean on stdout.
func (o *RootOptions) Logger() *slog.Logger {
	if !o.Verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// NewRootCommand creates the root command for the xmlconform CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "xmlconform",
		Short:         "XML conformance test harness",
		Long:          "Runs W3C-style XML conformance suites against pluggable engines and reports compliance.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "CUE registry of suites and engine overrides")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "xmlconform.db", "run history database")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewCompareCommand(opts))

	return cmd
}
