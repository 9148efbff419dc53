package catalog

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/xmlconform/xmlconform/internal/model"
)

// parseResult turns a result element into an assertion tree. A missing
// result, or one with no recognized children, becomes an empty AllOf,
// which always passes. Multiple children are an implicit AllOf.
func parseResult(n *xmlquery.Node, dir string) model.Assertion {
	if n == nil {
		return model.AllOf{}
	}
	assertions := parseAssertionList(elementChildren(n), dir)
	if len(assertions) == 1 {
		return assertions[0]
	}
	return model.AllOf{Assertions: assertions}
}

func parseAssertionList(nodes []*xmlquery.Node, dir string) []model.Assertion {
	var out []model.Assertion
	for _, n := range nodes {
		if a, ok := parseAssertion(n, dir); ok {
			out = append(out, a)
		}
	}
	return out
}

// parseAssertion maps one assertion element. Unrecognized elements and
// malformed values are skipped rather than failing the whole test set.
func parseAssertion(n *xmlquery.Node, dir string) (model.Assertion, bool) {
	switch n.Data {
	case "all-of":
		return model.AllOf{Assertions: parseAssertionList(elementChildren(n), dir)}, true
	case "any-of":
		return model.AnyOf{Assertions: parseAssertionList(elementChildren(n), dir)}, true
	case "not":
		inner := parseAssertionList(elementChildren(n), dir)
		if len(inner) == 0 {
			return nil, false
		}
		return model.Not{Assertion: inner[0]}, true
	case "assert-eq":
		return model.AssertEq{Value: strings.TrimSpace(text(n))}, true
	case "assert-count":
		count, err := strconv.Atoi(strings.TrimSpace(text(n)))
		if err != nil {
			return nil, false
		}
		return model.AssertCount{Count: count}, true
	case "assert-empty":
		return model.AssertEmpty{}, true
	case "assert-true":
		return model.AssertTrue{}, true
	case "assert-false":
		return model.AssertFalse{}, true
	case "assert-type":
		return model.AssertType{TypeName: strings.TrimSpace(text(n))}, true
	case "assert-string-value":
		return model.AssertStringValue{
			Value:          text(n),
			NormalizeSpace: attr(n, "normalize-space") == "true",
		}, true
	case "error":
		return model.AssertError{Code: attr(n, "code")}, true
	case "assert-xml":
		a := model.AssertXML{IgnorePrefixes: attr(n, "ignore-prefixes") == "true"}
		if file := attr(n, "file"); file != "" {
			a.File = filepath.Join(dir, filepath.FromSlash(file))
		} else {
			a.XML = strings.TrimSpace(text(n))
		}
		return a, true
	case "assert-deep-eq":
		return model.AssertDeepEq{Expr: strings.TrimSpace(text(n))}, true
	case "assert-permutation":
		return model.AssertPermutation{Expr: strings.TrimSpace(text(n))}, true
	case "assert":
		return model.AssertExpr{Expr: strings.TrimSpace(text(n))}, true
	case "serialization-matches":
		a := model.SerializationMatches{Flags: attr(n, "flags")}
		if file := attr(n, "file"); file != "" {
			a.File = filepath.Join(dir, filepath.FromSlash(file))
		} else {
			a.Regex = strings.TrimSpace(text(n))
		}
		return a, true
	default:
		return nil, false
	}
}
