package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xmlconform/xmlconform/internal/catalog"
	"github.com/xmlconform/xmlconform/internal/engine"
	"github.com/xmlconform/xmlconform/internal/engine/fake"
	"github.com/xmlconform/xmlconform/internal/model"
)

func newSet(cases ...model.TestCase) *model.TestSet {
	return &model.TestSet{
		Name:         "set",
		Environments: map[string]model.Environment{},
		TestCases:    cases,
	}
}

func TestRunCase_Pass(t *testing.T) {
	eng := fake.New()
	eng.Stub("count(//book)", engine.Item{Kind: engine.ItemInteger, Value: "3"})
	r := New(eng, "mini", nil)

	tc := model.TestCase{
		Name:   "count-001",
		Kind:   model.KindQuery,
		Test:   "count(//book)",
		Result: model.AssertEq{Value: "3"},
	}

	res := r.RunCase(newSet(tc), tc)

	assert.Equal(t, StatusPass, res.Outcome.Status)
	assert.Equal(t, "count-001", res.TestID)
	assert.Equal(t, "set", res.TestSet)
	assert.Equal(t, "mini", res.TestSuite)
	assert.Equal(t, `eq("3")`, res.Expected)
	assert.Equal(t, "3", res.Actual)
	assert.GreaterOrEqual(t, res.Duration.Nanoseconds(), int64(0))
}

func TestRunCase_UnsatisfiedDependencySkipsEngine(t *testing.T) {
	eng := fake.New()
	eng.Caps = engine.Capabilities{Specs: []string{"XP20"}}
	r := New(eng, "mini", nil)

	ts := newSet()
	ts.Dependencies = []model.Dependency{{Type: "spec", Value: "XP31"}}
	tc := model.TestCase{Name: "hof-001", Kind: model.KindQuery, Test: "fn:for-each(1, fn:abs#1)", Result: model.AllOf{}}

	res := r.RunCase(ts, tc)

	assert.Equal(t, StatusNotApplicable, res.Outcome.Status)
	assert.Equal(t, "dependency not satisfied: spec = XP31", res.Actual)
	// The engine must not have been invoked at all.
	assert.Empty(t, eng.Calls)
}

func TestRunCase_CaseLevelDependency(t *testing.T) {
	eng := fake.New()
	eng.Caps = engine.Capabilities{UnsupportedFeatures: []string{"higherOrderFunctions"}}
	r := New(eng, "mini", nil)

	tc := model.TestCase{
		Name:         "hof-002",
		Kind:         model.KindQuery,
		Test:         "1",
		Dependencies: []model.Dependency{{Type: "feature", Value: "higherOrderFunctions"}},
		Result:       model.AllOf{},
	}

	res := r.RunCase(newSet(tc), tc)

	assert.Equal(t, StatusNotApplicable, res.Outcome.Status)
	assert.Empty(t, eng.Calls)
}

func TestRunCase_EnvironmentNotFound(t *testing.T) {
	eng := fake.New()
	r := New(eng, "mini", nil)

	tc := model.TestCase{
		Name:        "env-001",
		Kind:        model.KindQuery,
		Test:        "1",
		Environment: &model.EnvironmentRef{Name: "missing-env"},
		Result:      model.AllOf{},
	}

	res := r.RunCase(newSet(tc), tc)

	assert.Equal(t, StatusError, res.Outcome.Status)
	assert.Contains(t, res.Outcome.Reason, "environment not found: missing-env")
}

func TestRunCase_ContextLoadFailureIsError(t *testing.T) {
	eng := fake.New()
	eng.FailFile("missing.xml", engine.Errorf(engine.CodeIO, "open missing.xml: no such file"))
	r := New(eng, "mini", nil)

	env := &model.Environment{Sources: []model.Source{{Role: ".", File: "missing.xml"}}}
	tc := model.TestCase{
		Name:        "ctx-001",
		Kind:        model.KindQuery,
		Test:        "1",
		Environment: &model.EnvironmentRef{Inline: env},
		// An expected-error assertion must not turn a harness-side
		// load failure into a pass.
		Result: model.AssertError{Code: "XPDY0002"},
	}

	res := r.RunCase(newSet(tc), tc)

	assert.Equal(t, StatusError, res.Outcome.Status)
	assert.Contains(t, res.Outcome.Reason, "load context document")
	assert.Contains(t, res.Actual, "Error:")
}

func TestRunCase_PanicIsolation(t *testing.T) {
	eng := fake.New()
	eng.PanicOn("1 div 0")
	r := New(eng, "mini", nil)

	tc := model.TestCase{Name: "panic-001", Kind: model.KindQuery, Test: "1 div 0", Result: model.AllOf{}}

	res := r.RunCase(newSet(tc), tc)

	assert.Equal(t, StatusError, res.Outcome.Status)
	assert.Contains(t, res.Outcome.Reason, "engine fault")

	// The runner stays usable after a fault.
	ok := model.TestCase{Name: "after-001", Kind: model.KindQuery, Test: "1", Result: model.AllOf{}}
	assert.Equal(t, StatusPass, r.RunCase(newSet(ok), ok).Outcome.Status)
}

func TestRunCase_UnsupportedOperation(t *testing.T) {
	eng := fake.New()
	eng.StubError("unsupported-expr", engine.Unsupportedf("query evaluation"))
	r := New(eng, "mini", nil)

	tc := model.TestCase{Name: "unsupported-001", Kind: model.KindQuery, Test: "unsupported-expr", Result: model.AllOf{}}

	res := r.RunCase(newSet(tc), tc)

	assert.Equal(t, StatusNotApplicable, res.Outcome.Status)
}

func TestRunCase_ExpectedErrorPasses(t *testing.T) {
	eng := fake.New()
	eng.StubError("1 div 0", engine.Errorf(engine.CodeXPath, "division by zero"))
	r := New(eng, "mini", nil)

	tc := model.TestCase{
		Name:   "err-001",
		Kind:   model.KindQuery,
		Test:   "1 div 0",
		Result: model.AssertError{Code: "FOAR0001"},
	}

	res := r.RunCase(newSet(tc), tc)

	assert.Equal(t, StatusPass, res.Outcome.Status)
	assert.Contains(t, res.Actual, "Error:")
}

func TestRunCase_NamespacesBound(t *testing.T) {
	eng := fake.New()
	r := New(eng, "mini", nil)

	env := &model.Environment{
		Namespaces: map[string]string{"b": "urn:books"},
		Sources:    []model.Source{{Role: ".", Content: "<r/>"}},
	}
	tc := model.TestCase{
		Name:        "ns-001",
		Kind:        model.KindQuery,
		Test:        "//b:title",
		Environment: &model.EnvironmentRef{Inline: env},
		Result:      model.AllOf{},
	}

	r.RunCase(newSet(tc), tc)

	assert.Equal(t, map[string]string{"b": "urn:books"}, eng.Bound)
}

func TestRunCase_TransformWithoutStylesheet(t *testing.T) {
	eng := fake.New()
	r := New(eng, "mini", nil)

	tc := model.TestCase{Name: "t-001", Kind: model.KindTransform, Result: model.AllOf{}}

	res := r.RunCase(newSet(tc), tc)

	assert.Equal(t, StatusNotApplicable, res.Outcome.Status)
	assert.Equal(t, "no stylesheet", res.Outcome.Reason)
}

func TestRunCase_SchemaValidity(t *testing.T) {
	eng := fake.New()
	eng.FailSchema("bad.xsd", engine.Errorf(engine.CodeXsd, "circular group"))
	r := New(eng, "mini", nil)

	valid := model.TestCase{
		Name: "s-001", Kind: model.KindSchemaValid,
		SchemaFile: "good.xsd", ExpectedValidity: model.ValidityValid,
		Result: model.AllOf{},
	}
	res := r.RunCase(newSet(valid), valid)
	assert.Equal(t, StatusPass, res.Outcome.Status)
	assert.Equal(t, "valid", res.Actual)

	invalid := model.TestCase{
		Name: "s-002", Kind: model.KindSchemaValid,
		SchemaFile: "bad.xsd", ExpectedValidity: model.ValidityValid,
		Result: model.AllOf{},
	}
	res = r.RunCase(newSet(invalid), invalid)
	assert.Equal(t, StatusFail, res.Outcome.Status)
	assert.Equal(t, "Expected valid, got invalid", res.Outcome.Reason)
}

func TestRunCase_InstanceValidity(t *testing.T) {
	eng := fake.New()
	eng.SetValid(false)
	r := New(eng, "mini", nil)

	tc := model.TestCase{
		Name: "i-001", Kind: model.KindInstanceValid,
		SchemaFile: "good.xsd", InstanceFile: "doc.xml",
		ExpectedValidity: model.ValidityInvalid,
		Result:           model.AllOf{},
	}

	res := r.RunCase(newSet(tc), tc)

	assert.Equal(t, StatusPass, res.Outcome.Status)
	assert.Equal(t, "invalid", res.Actual)
}

func TestRunCase_InstanceWithoutSchema(t *testing.T) {
	eng := fake.New()
	r := New(eng, "mini", nil)

	tc := model.TestCase{Name: "i-002", Kind: model.KindInstanceValid, InstanceFile: "doc.xml", Result: model.AllOf{}}

	res := r.RunCase(newSet(tc), tc)

	assert.Equal(t, StatusNotApplicable, res.Outcome.Status)
	assert.Equal(t, "no schema for validation", res.Outcome.Reason)
}

func TestRunSuite_EndToEnd(t *testing.T) {
	eng := fake.New()
	r := New(eng, "mini", nil)
	loader := catalog.NewLoader(filepath.Join("testdata", "suite", "catalog.xml"), catalog.DialectQuery)

	results := r.RunSuite(loader, "")

	require.Len(t, results, 4)
	byStatus := map[Status]int{}
	for _, res := range results {
		byStatus[res.Outcome.Status]++
	}
	assert.Equal(t, 2, byStatus[StatusPass])
	assert.Equal(t, 2, byStatus[StatusFail])
	assert.Equal(t, 0, byStatus[StatusError])

	// Execution order follows catalog order.
	assert.Equal(t, "pass-001", results[0].TestID)
	assert.Equal(t, "fail-002", results[3].TestID)
}

func TestRunSuite_Filter(t *testing.T) {
	eng := fake.New()
	r := New(eng, "mini", nil)
	loader := catalog.NewLoader(filepath.Join("testdata", "suite", "catalog.xml"), catalog.DialectQuery)

	results := r.RunSuite(loader, "set-fail")

	require.Len(t, results, 2)
	for _, res := range results {
		assert.Equal(t, "set-fail", res.TestSet)
	}
}

func TestRunSuite_BrokenCatalog(t *testing.T) {
	eng := fake.New()
	r := New(eng, "mini", nil)
	loader := catalog.NewLoader(filepath.Join("testdata", "suite", "no-such.xml"), catalog.DialectQuery)

	results := r.RunSuite(loader, "")

	require.Len(t, results, 1)
	assert.Equal(t, "catalog/parse", results[0].TestID)
	assert.Equal(t, StatusError, results[0].Outcome.Status)
}
