package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/xmlconform/xmlconform/internal/catalog"
	"github.com/xmlconform/xmlconform/internal/config"
	"github.com/xmlconform/xmlconform/internal/harness"
	"github.com/xmlconform/xmlconform/internal/report"
	"github.com/xmlconform/xmlconform/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	Engine   string
	Suite    string
	Filter   string
	Output   string
	Manifest string
	Dialect  string
}

// NewRunCommand creates the run command. A completed run exits 0 even
// when test cases fail; only configuration problems exit nonzero.
func NewRunCommand(root *RootOptions) *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a conformance suite against an engine",
		Long: `Run loads a test catalog, executes every matching test case against
the selected engine, persists the results, and renders a compliance
report. The suite may be a name registered in the CUE config or a
catalog file path (combined with --dialect).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Engine, "engine", "e", "", "engine to test")
	cmd.Flags().StringVarP(&opts.Suite, "suite", "s", "", "suite name or catalog file")
	cmd.Flags().StringVarP(&opts.Filter, "filter", "f", "", "only run test sets whose name contains this substring")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "summary", "report format (summary|json|csv|markdown)")
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "YAML run manifest; flags override its fields")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "query", "catalog dialect when --suite is a file (query|transform|schema)")

	return cmd
}

func runRun(cmd *cobra.Command, root *RootOptions, opts *RunOptions) error {
	dbPath := root.DB
	if opts.Manifest != "" {
		m, err := config.LoadManifest(opts.Manifest)
		if err != nil {
			return WrapExitError(ExitCommandError, "load manifest", err)
		}
		if opts.Engine == "" {
			opts.Engine = m.Engine
		}
		if opts.Suite == "" {
			opts.Suite = m.Suite
		}
		if opts.Filter == "" {
			opts.Filter = m.Filter
		}
		if !cmd.Flags().Changed("output") && m.Output != "" {
			opts.Output = m.Output
		}
		if !cmd.Flags().Changed("dialect") && m.Dialect != "" {
			opts.Dialect = m.Dialect
		}
		if m.DB != "" && !cmd.Flags().Changed("db") {
			dbPath = m.DB
		}
	}

	if opts.Engine == "" {
		return NewExitError(ExitCommandError, "missing required flag --engine")
	}
	if opts.Suite == "" {
		return NewExitError(ExitCommandError, "missing required flag --suite")
	}
	format, err := report.ParseFormat(opts.Output)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid output format", err)
	}

	var registry *config.Registry
	if root.Config != "" {
		registry, err = config.LoadRegistry(root.Config)
		if err != nil {
			return WrapExitError(ExitCommandError, "load config", err)
		}
	}

	suiteName, loader, err := resolveSuite(registry, opts.Suite, opts.Dialect)
	if err != nil {
		return WrapExitError(ExitCommandError, "resolve suite", err)
	}

	eng, err := newEngineRegistry().New(opts.Engine)
	if err != nil {
		return WrapExitError(ExitCommandError, "resolve engine", err)
	}
	if registry != nil {
		if spec, ok := registry.Engines[opts.Engine]; ok {
			applyOverrides(eng, spec)
		}
	}

	logger := root.Logger()
	runner := harness.New(eng, suiteName, logger)

	started := time.Now()
	results := runner.RunSuite(loader, opts.Filter)
	finished := time.Now()
	logger.Info("run complete", "suite", suiteName, "engine", opts.Engine,
		"cases", len(results), "elapsed", finished.Sub(started))

	run := store.Run{
		ID:         store.NewRunID(),
		Engine:     opts.Engine,
		Suite:      suiteName,
		StartedAt:  started,
		FinishedAt: finished,
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "open run database", err)
	}
	defer db.Close()
	if err := db.SaveRun(cmd.Context(), run, results); err != nil {
		return WrapExitError(ExitCommandError, "persist run", err)
	}
	logger.Info("run persisted", "id", run.ID)

	rep := report.New(opts.Engine, suiteName, results)
	rep.Timestamp = finished.UTC()
	if err := rep.Render(cmd.OutOrStdout(), format); err != nil {
		return WrapExitError(ExitFailure, "render report", err)
	}
	return nil
}

// resolveSuite maps the suite argument to a catalog loader: a name
// registered in the config wins, otherwise the argument must be a
// catalog file path.
func resolveSuite(registry *config.Registry, suite, dialect string) (string, *catalog.Loader, error) {
	if registry != nil {
		if s, err := registry.Suite(suite); err == nil {
			d, err := catalog.ParseDialect(s.Dialect)
			if err != nil {
				return "", nil, err
			}
			return s.Name, catalog.NewLoader(s.Catalog, d), nil
		}
	}
	if _, err := os.Stat(suite); err != nil {
		if registry != nil {
			_, regErr := registry.Suite(suite)
			return "", nil, fmt.Errorf("%v; and no catalog file at %s", regErr, suite)
		}
		return "", nil, fmt.Errorf("no catalog file at %s", suite)
	}
	d, err := catalog.ParseDialect(dialect)
	if err != nil {
		return "", nil, err
	}
	return suite, catalog.NewLoader(suite, d), nil
}
