package harness

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xmlconform/xmlconform/internal/engine"
	"github.com/xmlconform/xmlconform/internal/model"
)

func seqOf(values ...string) engine.Sequence {
	items := make([]engine.Item, len(values))
	for i, v := range values {
		items[i] = engine.Item{Kind: engine.ItemString, Value: v}
	}
	return engine.Sequence{Items: items}
}

func intSeq(values ...string) engine.Sequence {
	items := make([]engine.Item, len(values))
	for i, v := range values {
		items[i] = engine.Item{Kind: engine.ItemInteger, Value: v}
	}
	return engine.Sequence{Items: items}
}

func evaluate(a model.Assertion, ex Execution) Outcome {
	ev := &Evaluator{}
	return ev.Evaluate(a, ex)
}

func TestEvaluate_EmptyAllOfPasses(t *testing.T) {
	out := evaluate(model.AllOf{}, Execution{Seq: seqOf("anything")})

	assert.Equal(t, StatusPass, out.Status)
}

func TestEvaluate_AllOfStopsAtFirstFailure(t *testing.T) {
	tree := model.AllOf{Assertions: []model.Assertion{
		model.AssertCount{Count: 1},
		model.AssertEq{Value: "nope"},
	}}

	out := evaluate(tree, Execution{Seq: seqOf("x")})

	assert.Equal(t, StatusFail, out.Status)
	assert.Equal(t, "Expected 'nope', got 'x'", out.Reason)
}

func TestEvaluate_AnyOfFirstPassWins(t *testing.T) {
	tree := model.AnyOf{Assertions: []model.Assertion{
		model.AssertEq{Value: "wrong"},
		model.AssertCount{Count: 1},
		model.AssertEmpty{},
	}}

	out := evaluate(tree, Execution{Seq: seqOf("x")})

	assert.Equal(t, StatusPass, out.Status)
}

func TestEvaluate_EmptyAnyOfPasses(t *testing.T) {
	out := evaluate(model.AnyOf{}, Execution{Seq: seqOf("anything")})

	assert.Equal(t, StatusPass, out.Status)
}

func TestEvaluate_AnyOfReportsLastFailure(t *testing.T) {
	tree := model.AnyOf{Assertions: []model.Assertion{
		model.AssertEq{Value: "a"},
		model.AssertEq{Value: "b"},
	}}

	out := evaluate(tree, Execution{Seq: seqOf("x")})

	assert.Equal(t, StatusFail, out.Status)
	assert.Equal(t, "Expected 'b', got 'x'", out.Reason)
}

func TestEvaluate_NotInvertsPassAndFail(t *testing.T) {
	pass := evaluate(model.Not{Assertion: model.AssertEmpty{}}, Execution{Seq: seqOf("x")})
	assert.Equal(t, StatusPass, pass.Status)

	fail := evaluate(model.Not{Assertion: model.AssertCount{Count: 1}}, Execution{Seq: seqOf("x")})
	assert.Equal(t, StatusFail, fail.Status)
	assert.Equal(t, "expected assertion to fail, but it passed", fail.Reason)
}

func TestEvaluate_NotPassesThroughErrors(t *testing.T) {
	tree := model.Not{Assertion: model.AssertXML{File: "does/not/exist.xml"}}

	out := evaluate(tree, Execution{Seq: seqOf("x")})

	assert.Equal(t, StatusError, out.Status)
}

func TestEvaluate_CountMismatchMessage(t *testing.T) {
	out := evaluate(model.AssertCount{Count: 3}, Execution{Seq: seqOf("a", "b")})

	assert.Equal(t, StatusFail, out.Status)
	assert.Equal(t, "Expected count 3, got 2", out.Reason)
}

func TestEvaluate_EqTrimsWhitespace(t *testing.T) {
	out := evaluate(model.AssertEq{Value: " 42 "}, Execution{Seq: seqOf("42")})

	assert.Equal(t, StatusPass, out.Status)
}

func TestEvaluate_BooleanAssertions(t *testing.T) {
	assert.Equal(t, StatusPass, evaluate(model.AssertTrue{}, Execution{Seq: seqOf("TRUE")}).Status)
	assert.Equal(t, StatusFail, evaluate(model.AssertTrue{}, Execution{Seq: seqOf("false")}).Status)
	assert.Equal(t, StatusPass, evaluate(model.AssertFalse{}, Execution{Seq: seqOf("false")}).Status)
}

func TestEvaluate_StringValueNormalizeSpace(t *testing.T) {
	a := model.AssertStringValue{Value: "a  b\n c", NormalizeSpace: true}

	out := evaluate(a, Execution{Seq: seqOf("a b c")})

	assert.Equal(t, StatusPass, out.Status)
}

func TestEvaluate_StringValueWhitespaceSignificant(t *testing.T) {
	a := model.AssertStringValue{Value: " a "}

	assert.Equal(t, StatusPass, evaluate(a, Execution{Seq: seqOf(" a ")}).Status)
	assert.Equal(t, StatusFail, evaluate(a, Execution{Seq: seqOf("a")}).Status)
}

func TestEvaluate_ErrorAssertion(t *testing.T) {
	failed := Execution{Err: errors.New("dynamic error")}
	assert.Equal(t, StatusPass, evaluate(model.AssertError{Code: "XPDY0002"}, failed).Status)
	assert.Equal(t, StatusPass, evaluate(model.AssertError{Code: "*"}, failed).Status)

	ok := Execution{Seq: seqOf("1")}
	out := evaluate(model.AssertError{Code: "XPDY0002"}, ok)
	assert.Equal(t, StatusFail, out.Status)
	assert.Equal(t, "Expected error XPDY0002, got result: 1", out.Reason)
}

func TestEvaluate_ErrorFailsValueAssertions(t *testing.T) {
	out := evaluate(model.AssertEq{Value: "1"}, Execution{Err: errors.New("boom")})

	assert.Equal(t, StatusFail, out.Status)
	assert.Contains(t, out.Reason, "got error")
}

func TestEvaluate_TypeChecksFirstItem(t *testing.T) {
	assert.Equal(t, StatusPass,
		evaluate(model.AssertType{TypeName: "xs:integer"}, Execution{Seq: intSeq("7")}).Status)

	out := evaluate(model.AssertType{TypeName: "xs:integer"}, Execution{Seq: seqOf("7")})
	assert.Equal(t, StatusFail, out.Status)
	assert.Equal(t, "Expected type xs:integer, got string", out.Reason)

	// Unknown type names are not checked.
	assert.Equal(t, StatusPass,
		evaluate(model.AssertType{TypeName: "xs:yearMonthDuration"}, Execution{Seq: seqOf("x")}).Status)

	empty := evaluate(model.AssertType{TypeName: "xs:integer"}, Execution{})
	assert.Equal(t, StatusFail, empty.Status)
}

func TestEvaluate_XMLContainment(t *testing.T) {
	a := model.AssertXML{XML: "<b>2</b>"}

	pass := evaluate(a, Execution{Seq: seqOf("<a><b>2</b></a>")})
	assert.Equal(t, StatusPass, pass.Status)

	fail := evaluate(a, Execution{Seq: seqOf("<c/>")})
	assert.Equal(t, StatusFail, fail.Status)
	assert.Contains(t, fail.Reason, "(approximate comparison)")
}

func TestEvaluate_SerializationMatches(t *testing.T) {
	caseInsensitive := model.SerializationMatches{Regex: "^ab.$", Flags: "i"}
	assert.Equal(t, StatusPass, evaluate(caseInsensitive, Execution{Seq: seqOf("ABC")}).Status)

	literal := model.SerializationMatches{Regex: "a+b", Flags: "q"}
	assert.Equal(t, StatusPass, evaluate(literal, Execution{Seq: seqOf("a+b")}).Status)
	assert.Equal(t, StatusFail, evaluate(literal, Execution{Seq: seqOf("aab")}).Status)

	broken := model.SerializationMatches{Regex: "("}
	assert.Equal(t, StatusError, evaluate(broken, Execution{Seq: seqOf("x")}).Status)
}

type scriptedExpr map[string]engine.Sequence

func (s scriptedExpr) Evaluate(expr string) (engine.Sequence, error) {
	seq, ok := s[expr]
	if !ok {
		return engine.Sequence{}, fmt.Errorf("unknown expression %q", expr)
	}
	return seq, nil
}

func TestEvaluate_DeepEqUsesBaselineExpression(t *testing.T) {
	ev := &Evaluator{Expr: scriptedExpr{"(1, 2)": intSeq("1", "2")}}

	pass := ev.Evaluate(model.AssertDeepEq{Expr: "(1, 2)"}, Execution{Seq: intSeq("1", "2")})
	assert.Equal(t, StatusPass, pass.Status)

	fail := ev.Evaluate(model.AssertDeepEq{Expr: "(1, 2)"}, Execution{Seq: intSeq("2", "1")})
	assert.Equal(t, StatusFail, fail.Status)

	broken := ev.Evaluate(model.AssertDeepEq{Expr: "(3)"}, Execution{Seq: intSeq("3")})
	assert.Equal(t, StatusError, broken.Status)
}

func TestEvaluate_PermutationIgnoresOrder(t *testing.T) {
	ev := &Evaluator{Expr: scriptedExpr{"(1, 2, 3)": intSeq("1", "2", "3")}}

	pass := ev.Evaluate(model.AssertPermutation{Expr: "(1, 2, 3)"}, Execution{Seq: intSeq("3", "1", "2")})
	assert.Equal(t, StatusPass, pass.Status)

	fail := ev.Evaluate(model.AssertPermutation{Expr: "(1, 2, 3)"}, Execution{Seq: intSeq("1", "2")})
	assert.Equal(t, StatusFail, fail.Status)
}

func TestEvaluate_PermutationFallbackWithoutEvaluator(t *testing.T) {
	out := evaluate(model.AssertPermutation{Expr: "b a"}, Execution{Seq: seqOf("a", "b")})

	assert.Equal(t, StatusPass, out.Status)
}

func TestEvaluate_AssertExprHeuristic(t *testing.T) {
	assert.Equal(t, StatusPass,
		evaluate(model.AssertExpr{Expr: "$result = 1"}, Execution{Seq: seqOf("1")}).Status)
	assert.Equal(t, StatusFail,
		evaluate(model.AssertExpr{Expr: "$result = 1"}, Execution{}).Status)
}
