// Package engine defines the interface an XML processing engine must
// satisfy to run under the harness, together with the sequence model
// results are expressed in and the structured errors backends return.
//
// A backend registers a Factory with a Registry; the harness only ever
// talks to the Engine interface, so adding a backend never touches the
// runner or the catalog loaders.
package engine

import "slices"

// Kind identifies one processing capability a backend may implement.
type Kind string

const (
	KindXPath  Kind = "xpath"
	KindXQuery Kind = "xquery"
	KindXSLT   Kind = "xslt"
	KindXSD    Kind = "xsd"
)

// Capabilities declares what an engine supports. The harness checks
// catalog dependencies against it before invoking the engine.
type Capabilities struct {
	// Specs lists supported specification tokens as they appear in
	// catalog dependency values, e.g. "XP20", "XQ10", "XSLT30", "XSD10".
	Specs []string

	// Versions maps each implemented kind to its language version.
	Versions map[Kind]string

	// UnsupportedFeatures names catalog feature tokens the engine is
	// known not to implement.
	UnsupportedFeatures []string
}

// SupportsSpec reports whether the engine claims the given spec token.
func (c Capabilities) SupportsSpec(token string) bool {
	return slices.Contains(c.Specs, token)
}

// DeclaredVersion returns the engine's version for a kind, or "" when
// the kind is not implemented.
func (c Capabilities) DeclaredVersion(k Kind) string {
	return c.Versions[k]
}

// Document is an engine-owned parsed XML document. The harness treats it
// as opaque apart from serialization.
type Document interface {
	// String serializes the document back to XML.
	String() string
}

// ValidationIssue is one problem found while validating an instance.
type ValidationIssue struct {
	Message string
	Line    int
	Column  int
}

// ValidationReport is the outcome of validating an instance document
// against a loaded schema.
type ValidationReport struct {
	Valid  bool
	Issues []ValidationIssue
}

// Engine is the pluggable contract a backend implements.
//
// Operations a backend does not implement return an error satisfying
// IsUnsupported; the runner maps those to a not-applicable outcome
// rather than a failure.
type Engine interface {
	// Name is the backend's registered name.
	Name() string

	// Capabilities describes what the backend supports.
	Capabilities() Capabilities

	// Parse parses an XML document from a string.
	Parse(content string) (Document, error)

	// ParseFile parses an XML document from a file path.
	ParseFile(path string) (Document, error)

	// EvaluateQuery evaluates an expression against a context document.
	// doc may be nil when the expression needs no context item.
	EvaluateQuery(expr string, doc Document) (Sequence, error)

	// Transform applies a stylesheet to a source document. The initial
	// template and mode are empty unless the test case names them.
	Transform(stylesheet string, doc Document, initialTemplate, initialMode string) (Document, error)

	// LoadSchema loads and checks a schema document, returning an error
	// when the schema itself is invalid.
	LoadSchema(path string) error

	// Validate validates a parsed instance against the most recently
	// loaded schema.
	Validate(doc Document) (ValidationReport, error)
}

// NamespaceBinder is implemented by engines whose expression evaluation
// honors prefix bindings from the test environment. The runner binds
// namespaces before each query when the engine supports it.
type NamespaceBinder interface {
	BindNamespaces(ns map[string]string)
}
