package harness

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/xmlconform/xmlconform/internal/catalog"
	"github.com/xmlconform/xmlconform/internal/engine"
	"github.com/xmlconform/xmlconform/internal/model"
)

// Runner executes test cases against one engine. A fault in the engine
// is confined to the case that triggered it; the run continues.
type Runner struct {
	engine engine.Engine
	suite  string
	logger *slog.Logger
}

// New returns a runner for the given engine and suite name. A nil
// logger discards.
func New(eng engine.Engine, suite string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{engine: eng, suite: suite, logger: logger}
}

// RunSuite loads the catalog behind loader and runs every test set
// whose name contains filter (every set when filter is empty). Loading
// failures become synthetic error results so a broken file shows up in
// the report instead of aborting the run.
func (r *Runner) RunSuite(loader *catalog.Loader, filter string) []TestResult {
	cat, err := loader.Catalog()
	if err != nil {
		return []TestResult{{
			TestID:    "catalog/parse",
			TestSuite: r.suite,
			Outcome:   Errorf("load catalog: %v", err),
		}}
	}
	var results []TestResult
	for _, ref := range cat.TestSets {
		if filter != "" && !strings.Contains(ref.Name, filter) {
			continue
		}
		ts, err := loader.TestSet(ref)
		if err != nil {
			r.logger.Warn("test set failed to load", "set", ref.Name, "error", err)
			results = append(results, TestResult{
				TestID:    ref.Name + "/parse",
				TestSet:   ref.Name,
				TestSuite: r.suite,
				Outcome:   Errorf("load test set: %v", err),
			})
			continue
		}
		setResults := r.RunSet(ts)
		r.logger.Info("test set complete", "set", ts.Name, "cases", len(setResults))
		results = append(results, setResults...)
	}
	return results
}

// RunSet runs every case of a test set in document order.
func (r *Runner) RunSet(ts *model.TestSet) []TestResult {
	results := make([]TestResult, 0, len(ts.TestCases))
	for _, tc := range ts.TestCases {
		results = append(results, r.RunCase(ts, tc))
	}
	return results
}

// RunCase runs one test case: dependency check, environment
// resolution, execution, assertion evaluation.
func (r *Runner) RunCase(ts *model.TestSet, tc model.TestCase) TestResult {
	start := time.Now()
	result := TestResult{
		TestID:      tc.Name,
		TestSet:     ts.Name,
		TestSuite:   r.suite,
		Description: tc.Description,
		Expected:    expectedSummary(tc),
	}
	defer func() {
		result.Duration = time.Since(start)
	}()

	caps := r.engine.Capabilities()
	for _, dep := range append(append([]model.Dependency{}, ts.Dependencies...), tc.Dependencies...) {
		if !CheckDependency(dep, caps) {
			result.Outcome = NotApplicable("dependency not satisfied")
			result.Actual = "dependency not satisfied: " + dep.Type + " = " + dep.Value
			return result
		}
	}

	env, err := ResolveEnvironment(tc, ts.Environments)
	if err != nil {
		result.Outcome = Errorf("%v", err)
		result.Actual = "Error: " + err.Error()
		return result
	}

	outcome, actual := r.execute(tc, env)
	result.Outcome = outcome
	result.Actual = actual
	return result
}

// execute dispatches on the test kind. The deferred recover turns an
// engine panic into an error outcome for this case only.
func (r *Runner) execute(tc model.TestCase, env *model.Environment) (outcome Outcome, actual string) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("engine fault", "test", tc.Name, "panic", p)
			outcome = Errorf("engine fault: %v", p)
			actual = "Error: engine fault"
		}
	}()

	switch tc.Kind {
	case model.KindQuery:
		return r.runQuery(tc, env)
	case model.KindTransform:
		return r.runTransform(tc, env)
	case model.KindSchemaValid:
		return r.runSchemaValid(tc)
	case model.KindInstanceValid:
		return r.runInstanceValid(tc)
	default:
		return Errorf("unknown test kind %s", tc.Kind), ""
	}
}

func (r *Runner) runQuery(tc model.TestCase, env *model.Environment) (Outcome, string) {
	doc, err := func() (engine.Document, error) {
		if env == nil {
			return r.engine.Parse("<empty/>")
		}
		return LoadContextDocument(r.engine, env)
	}()
	// A context document that cannot be loaded is a harness failure,
	// not an engine answer; the assertion tree never sees it.
	if err != nil {
		return Errorf("load context document: %v", err), "Error: " + err.Error()
	}

	if binder, ok := r.engine.(engine.NamespaceBinder); ok {
		var ns map[string]string
		if env != nil {
			ns = env.Namespaces
		}
		binder.BindNamespaces(ns)
	}
	seq, qerr := r.engine.EvaluateQuery(tc.Test, doc)
	if engine.IsUnsupported(qerr) {
		return NotApplicable(qerr.Error()), ""
	}
	ex := Execution{Seq: seq, Err: qerr}

	ev := &Evaluator{Expr: &contextEvaluator{engine: r.engine, doc: doc}}
	return ev.Evaluate(tc.Result, ex), actualString(ex)
}

func (r *Runner) runTransform(tc model.TestCase, env *model.Environment) (Outcome, string) {
	if tc.StylesheetFile == "" {
		return NotApplicable("no stylesheet"), ""
	}
	sheet, err := os.ReadFile(tc.StylesheetFile)
	if err != nil {
		return Errorf("read stylesheet: %v", err), "Error: " + err.Error()
	}
	doc, err := func() (engine.Document, error) {
		if env == nil {
			return r.engine.Parse("<empty/>")
		}
		return LoadContextDocument(r.engine, env)
	}()
	if err != nil {
		return Errorf("load context document: %v", err), "Error: " + err.Error()
	}

	var ex Execution
	out, terr := r.engine.Transform(string(sheet), doc, tc.InitialTemplate, tc.InitialMode)
	if engine.IsUnsupported(terr) {
		return NotApplicable(terr.Error()), ""
	}
	if terr != nil {
		ex = Execution{Err: terr}
	} else {
		ex = Execution{Seq: engine.Sequence{Items: []engine.Item{{
			Kind:  engine.ItemNode,
			Value: out.String(),
		}}}}
	}

	ev := &Evaluator{}
	return ev.Evaluate(tc.Result, ex), actualString(ex)
}

func (r *Runner) runSchemaValid(tc model.TestCase) (Outcome, string) {
	err := r.engine.LoadSchema(tc.SchemaFile)
	if engine.IsUnsupported(err) {
		return NotApplicable(err.Error()), ""
	}
	got := model.ValidityValid
	if err != nil {
		got = model.ValidityInvalid
	}
	return compareValidity(tc.ExpectedValidity, got), got.String()
}

func (r *Runner) runInstanceValid(tc model.TestCase) (Outcome, string) {
	if tc.SchemaFile == "" {
		return NotApplicable("no schema for validation"), ""
	}
	err := r.engine.LoadSchema(tc.SchemaFile)
	if engine.IsUnsupported(err) {
		return NotApplicable(err.Error()), ""
	}
	if err != nil {
		return Errorf("load schema: %v", err), "Error: " + err.Error()
	}

	got := model.ValidityValid
	doc, err := r.engine.ParseFile(tc.InstanceFile)
	if err != nil {
		// A document that does not parse cannot be valid.
		got = model.ValidityInvalid
	} else {
		report, verr := r.engine.Validate(doc)
		if engine.IsUnsupported(verr) {
			return NotApplicable(verr.Error()), ""
		}
		if verr != nil {
			return Errorf("validate instance: %v", verr), "Error: " + verr.Error()
		}
		if !report.Valid {
			got = model.ValidityInvalid
		}
	}
	return compareValidity(tc.ExpectedValidity, got), got.String()
}

func compareValidity(want, got model.Validity) Outcome {
	if want == model.ValidityIndeterminate || want == got {
		return Pass()
	}
	return Failf("Expected %s, got %s", want, got)
}

func expectedSummary(tc model.TestCase) string {
	switch tc.Kind {
	case model.KindSchemaValid, model.KindInstanceValid:
		return tc.ExpectedValidity.String()
	default:
		return model.Describe(tc.Result)
	}
}

func actualString(ex Execution) string {
	if ex.Err != nil {
		return "Error: " + ex.Err.Error()
	}
	return ex.Seq.String()
}

// contextEvaluator evaluates assertion baseline expressions against the
// test case's own context document.
type contextEvaluator struct {
	engine engine.Engine
	doc    engine.Document
}

func (c *contextEvaluator) Evaluate(expr string) (engine.Sequence, error) {
	return c.engine.EvaluateQuery(expr, c.doc)
}
