package model

import "strings"

// Catalog is the root index of a conformance suite: the test sets it
// references and the environments shared by all of them.
type Catalog struct {
	// Name is the catalog's declared name (may be empty).
	Name string

	// TestSets lists the referenced test-set files in declaration order.
	TestSets []TestSetRef

	// Environments holds the global environments, keyed by name.
	Environments map[string]Environment
}

// TestSetRef points at a test-set file relative to the catalog.
type TestSetRef struct {
	Name string
	File string
}

// TestSet groups the test cases of one test-set file.
type TestSet struct {
	Name        string
	Description string

	// Environments is the merged global and local environment map.
	// A local environment shadows a global one of the same name.
	Environments map[string]Environment

	// Dependencies apply to every test case in the set.
	Dependencies []Dependency

	// TestCases preserves document order.
	TestCases []TestCase
}

// Environment bundles the inputs a test case executes against.
type Environment struct {
	// Name is empty for inline environments.
	Name string

	// Sources in declaration order. At most one source may carry the
	// context-item role ".".
	Sources []Source

	// Namespaces maps prefix to URI; one binding per prefix.
	Namespaces map[string]string

	Params  []Param
	Schemas []SchemaRef

	// BaseURI is the static base URI, if declared.
	BaseURI string
}

// ContextSource returns the source with role "." (the context item),
// or nil if the environment declares none.
func (e *Environment) ContextSource() *Source {
	if e == nil {
		return nil
	}
	for i := range e.Sources {
		if e.Sources[i].Role == "." {
			return &e.Sources[i]
		}
	}
	return nil
}

// Source is one input document of an environment.
//
// Role "." designates the context item; "$name" binds a variable.
// Exactly one of File and Content is set: File is a path already
// resolved against the owning test-set directory, Content is inline XML.
type Source struct {
	Role    string
	File    string
	Content string
	URI     string
}

// Param is a declared external parameter.
type Param struct {
	Name     string
	Select   string
	Declared bool
}

// SchemaRef references a schema document used by an environment.
type SchemaRef struct {
	URI  string
	File string
}

// Dependency is a test precondition matched against engine capabilities.
type Dependency struct {
	// Type drives the match: "spec" and "feature" are interpreted,
	// anything else falls back to Satisfied as declared in the catalog.
	Type      string
	Value     string
	Satisfied bool
}

// EnvironmentRef is a test case's environment: either a named reference
// into the test set's environment map or an inline definition.
type EnvironmentRef struct {
	Name   string
	Inline *Environment
}

// TestKind distinguishes how a test case exercises the engine.
type TestKind int

const (
	// KindQuery evaluates an XPath/XQuery expression.
	KindQuery TestKind = iota
	// KindTransform applies a stylesheet to a source document.
	KindTransform
	// KindSchemaValid judges whether a schema document itself is valid.
	KindSchemaValid
	// KindInstanceValid validates an instance document against a schema.
	KindInstanceValid
)

func (k TestKind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindTransform:
		return "transform"
	case KindSchemaValid:
		return "schema"
	case KindInstanceValid:
		return "instance"
	default:
		return "unknown"
	}
}

// Validity is the expected outcome of a schema-dialect test.
type Validity int

const (
	ValidityIndeterminate Validity = iota
	ValidityValid
	ValidityInvalid
)

// ParseValidity maps the catalog's expected/@validity attribute.
// Anything other than "valid" or "invalid" is indeterminate.
func ParseValidity(s string) Validity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "valid":
		return ValidityValid
	case "invalid":
		return ValidityInvalid
	default:
		return ValidityIndeterminate
	}
}

func (v Validity) String() string {
	switch v {
	case ValidityValid:
		return "valid"
	case ValidityInvalid:
		return "invalid"
	default:
		return "indeterminate"
	}
}

// TestCase is a single conformance test.
type TestCase struct {
	// Name is unique within the owning test set.
	Name        string
	Description string

	Kind TestKind

	// Environment is nil when the test case declares none.
	Environment *EnvironmentRef

	Dependencies []Dependency

	// Test is the query expression under test (KindQuery).
	Test string

	// Transform-dialect fields (KindTransform).
	StylesheetFile  string
	InitialTemplate string
	InitialMode     string

	// Schema-dialect fields (KindSchemaValid, KindInstanceValid).
	SchemaFile       string
	InstanceFile     string
	ExpectedValidity Validity

	// Result is the expected-result assertion tree. Never nil: an
	// absent result element parses as an empty AllOf, which passes.
	Result Assertion
}
