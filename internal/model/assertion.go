package model

import (
	"fmt"
	"strings"
)

// Assertion is one node of the expected-result tree. It is a closed sum:
// the only implementations live in this package, enforced by the
// unexported marker method.
type Assertion interface {
	assertionNode()
}

// AllOf passes when every child passes. An empty AllOf passes.
type AllOf struct {
	Assertions []Assertion
}

// AnyOf passes when at least one child passes.
type AnyOf struct {
	Assertions []Assertion
}

// Not inverts pass and fail of its child.
type Not struct {
	Assertion Assertion
}

// AssertEq compares the result's string form against a literal.
type AssertEq struct {
	Value string
}

// AssertCount compares the result's item count.
type AssertCount struct {
	Count int
}

// AssertEmpty requires an empty result sequence.
type AssertEmpty struct{}

// AssertTrue requires the boolean result true.
type AssertTrue struct{}

// AssertFalse requires the boolean result false.
type AssertFalse struct{}

// AssertType requires the result's type to match a named type.
type AssertType struct {
	TypeName string
}

// AssertStringValue compares the result's string value, optionally
// collapsing whitespace runs on both sides first.
type AssertStringValue struct {
	Value          string
	NormalizeSpace bool
}

// AssertError expects the engine to report an error. Code "*" matches
// any error.
type AssertError struct {
	Code string
}

// AssertXML compares the result against expected XML, given inline or in
// a file resolved relative to the test-set directory.
type AssertXML struct {
	XML            string
	File           string
	IgnorePrefixes bool
}

// AssertDeepEq requires deep equality with the sequence produced by Expr.
type AssertDeepEq struct {
	Expr string
}

// AssertPermutation requires the result to be a permutation of the
// sequence produced by Expr.
type AssertPermutation struct {
	Expr string
}

// AssertExpr is a custom assertion expression evaluated with the result
// bound as $result.
type AssertExpr struct {
	Expr string
}

// SerializationMatches requires the serialized result to match a regular
// expression, given inline or in a file.
type SerializationMatches struct {
	Regex string
	File  string
	Flags string
}

func (AllOf) assertionNode()                {}
func (AnyOf) assertionNode()                {}
func (Not) assertionNode()                  {}
func (AssertEq) assertionNode()             {}
func (AssertCount) assertionNode()          {}
func (AssertEmpty) assertionNode()          {}
func (AssertTrue) assertionNode()           {}
func (AssertFalse) assertionNode()          {}
func (AssertType) assertionNode()           {}
func (AssertStringValue) assertionNode()    {}
func (AssertError) assertionNode()          {}
func (AssertXML) assertionNode()            {}
func (AssertDeepEq) assertionNode()         {}
func (AssertPermutation) assertionNode()    {}
func (AssertExpr) assertionNode()           {}
func (SerializationMatches) assertionNode() {}

// Describe renders a compact one-line summary of an assertion tree for
// the report's expected column.
func Describe(a Assertion) string {
	switch v := a.(type) {
	case AllOf:
		return "all-of(" + describeList(v.Assertions) + ")"
	case AnyOf:
		return "any-of(" + describeList(v.Assertions) + ")"
	case Not:
		return "not(" + Describe(v.Assertion) + ")"
	case AssertEq:
		return fmt.Sprintf("eq(%q)", v.Value)
	case AssertCount:
		return fmt.Sprintf("count(%d)", v.Count)
	case AssertEmpty:
		return "empty"
	case AssertTrue:
		return "true"
	case AssertFalse:
		return "false"
	case AssertType:
		return fmt.Sprintf("type(%s)", v.TypeName)
	case AssertStringValue:
		if v.NormalizeSpace {
			return fmt.Sprintf("string-value(%q, normalize-space)", v.Value)
		}
		return fmt.Sprintf("string-value(%q)", v.Value)
	case AssertError:
		return fmt.Sprintf("error(%s)", v.Code)
	case AssertXML:
		if v.File != "" {
			return fmt.Sprintf("xml(file=%s)", v.File)
		}
		return fmt.Sprintf("xml(%q)", v.XML)
	case AssertDeepEq:
		return fmt.Sprintf("deep-eq(%s)", v.Expr)
	case AssertPermutation:
		return fmt.Sprintf("permutation(%s)", v.Expr)
	case AssertExpr:
		return fmt.Sprintf("assert(%s)", v.Expr)
	case SerializationMatches:
		if v.File != "" {
			return fmt.Sprintf("serialization-matches(file=%s)", v.File)
		}
		return fmt.Sprintf("serialization-matches(%q)", v.Regex)
	default:
		return "unknown"
	}
}

func describeList(as []Assertion) string {
	parts := make([]string, len(as))
	for i, a := range as {
		parts[i] = Describe(a)
	}
	return strings.Join(parts, ", ")
}
