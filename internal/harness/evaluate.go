package harness

import (
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/xmlconform/xmlconform/internal/engine"
	"github.com/xmlconform/xmlconform/internal/model"
)

// Execution carries the engine's answer for one test case: either a
// result sequence or the error the engine reported.
type Execution struct {
	Seq engine.Sequence
	Err error
}

// ExprEvaluator evaluates a comparison expression from an assertion
// (deep-equal and permutation baselines). Typically backed by the
// engine under test.
type ExprEvaluator interface {
	Evaluate(expr string) (engine.Sequence, error)
}

// Evaluator judges an execution against an assertion tree.
//
// Expr is optional. When present, deep-equal and permutation baselines
// are computed by evaluating the assertion's expression; without it the
// comparison degrades to a string match, and failures produced that way
// say so.
type Evaluator struct {
	Expr ExprEvaluator
}

// Evaluate walks the assertion tree and returns the case's outcome.
func (e *Evaluator) Evaluate(a model.Assertion, ex Execution) Outcome {
	switch v := a.(type) {
	case model.AllOf:
		for _, child := range v.Assertions {
			if out := e.Evaluate(child, ex); !out.Passed() {
				return out
			}
		}
		return Pass()

	case model.AnyOf:
		last := Pass()
		for _, child := range v.Assertions {
			last = e.Evaluate(child, ex)
			if last.Passed() {
				return last
			}
		}
		return last

	case model.Not:
		out := e.Evaluate(v.Assertion, ex)
		switch out.Status {
		case StatusPass:
			return Failf("expected assertion to fail, but it passed")
		case StatusFail:
			return Pass()
		default:
			return out
		}

	case model.AssertError:
		if ex.Err != nil {
			return Pass()
		}
		return Failf("Expected error %s, got result: %s", v.Code, ex.Seq.String())

	case model.AssertEq:
		seq, out, ok := requireSeq(ex)
		if !ok {
			return out
		}
		got := strings.TrimSpace(seq.String())
		if got == strings.TrimSpace(v.Value) {
			return Pass()
		}
		return Failf("Expected '%s', got '%s'", v.Value, got)

	case model.AssertCount:
		seq, out, ok := requireSeq(ex)
		if !ok {
			return out
		}
		if seq.Count() == v.Count {
			return Pass()
		}
		return Failf("Expected count %d, got %d", v.Count, seq.Count())

	case model.AssertEmpty:
		seq, out, ok := requireSeq(ex)
		if !ok {
			return out
		}
		if seq.Empty() {
			return Pass()
		}
		return Failf("Expected empty sequence, got %d items", seq.Count())

	case model.AssertTrue:
		return expectBoolean(ex, "true")

	case model.AssertFalse:
		return expectBoolean(ex, "false")

	case model.AssertStringValue:
		seq, out, ok := requireSeq(ex)
		if !ok {
			return out
		}
		// Whitespace is significant unless the catalog asked for
		// normalize-space.
		got := seq.String()
		want := v.Value
		if v.NormalizeSpace {
			got = normalizeSpace(got)
			want = normalizeSpace(want)
		}
		if got == want {
			return Pass()
		}
		return Failf("Expected string value '%s', got '%s'", want, got)

	case model.AssertType:
		return e.evaluateType(v, ex)

	case model.AssertXML:
		return e.evaluateXML(v, ex)

	case model.AssertDeepEq:
		return e.evaluateDeepEq(v, ex)

	case model.AssertPermutation:
		return e.evaluatePermutation(v, ex)

	case model.AssertExpr:
		seq, out, ok := requireSeq(ex)
		if !ok {
			return out
		}
		if !seq.Empty() {
			return Pass()
		}
		return Failf("Expected assertion '%s' to hold, got empty sequence", v.Expr)

	case model.SerializationMatches:
		return e.evaluateSerialization(v, ex)

	default:
		return Errorf("unknown assertion %T", a)
	}
}

// requireSeq unwraps the execution for assertions that need a sequence.
func requireSeq(ex Execution) (engine.Sequence, Outcome, bool) {
	if ex.Err != nil {
		return engine.Sequence{}, Failf("Expected result, got error: %v", ex.Err), false
	}
	return ex.Seq, Outcome{}, true
}

func expectBoolean(ex Execution, want string) Outcome {
	seq, out, ok := requireSeq(ex)
	if !ok {
		return out
	}
	got := strings.ToLower(strings.TrimSpace(seq.String()))
	if got == want {
		return Pass()
	}
	return Failf("Expected %s, got '%s'", want, got)
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// typeKinds maps the primitive type names worth checking to the item
// kinds that satisfy them. Unknown names pass unchecked.
var typeKinds = map[string][]engine.ItemKind{
	"xs:integer": {engine.ItemInteger},
	"xs:string":  {engine.ItemString},
	"xs:boolean": {engine.ItemBoolean},
	"xs:double":  {engine.ItemDouble},
	"xs:decimal": {engine.ItemInteger, engine.ItemDouble},
}

func (e *Evaluator) evaluateType(v model.AssertType, ex Execution) Outcome {
	seq, out, ok := requireSeq(ex)
	if !ok {
		return out
	}
	kinds, known := typeKinds[v.TypeName]
	if !known {
		return Pass()
	}
	if seq.Empty() {
		return Failf("Expected type %s, got empty sequence", v.TypeName)
	}
	got := seq.Items[0].Kind
	if slices.Contains(kinds, got) {
		return Pass()
	}
	return Failf("Expected type %s, got %s", v.TypeName, got)
}

func (e *Evaluator) evaluateXML(v model.AssertXML, ex Execution) Outcome {
	seq, out, ok := requireSeq(ex)
	if !ok {
		return out
	}
	expected := v.XML
	if v.File != "" {
		data, err := os.ReadFile(v.File)
		if err != nil {
			return Errorf("read expected xml: %v", err)
		}
		expected = string(data)
	}
	got := normalizeSpace(seq.String())
	want := normalizeSpace(expected)
	if got == want || strings.Contains(got, want) || strings.Contains(want, got) {
		return Pass()
	}
	return Failf("Expected XML '%s', got '%s' (approximate comparison)", want, got)
}

func (e *Evaluator) evaluateDeepEq(v model.AssertDeepEq, ex Execution) Outcome {
	seq, out, ok := requireSeq(ex)
	if !ok {
		return out
	}
	if e.Expr == nil {
		if normalizeSpace(seq.String()) == normalizeSpace(v.Expr) {
			return Pass()
		}
		return Failf("Expected deep-equal to '%s', got '%s' (approximate comparison)", v.Expr, seq.String())
	}
	want, err := e.Expr.Evaluate(v.Expr)
	if err != nil {
		return Errorf("evaluate deep-equal baseline '%s': %v", v.Expr, err)
	}
	if slices.Equal(seq.Strings(), want.Strings()) {
		return Pass()
	}
	return Failf("Expected deep-equal to '%s', got '%s'", want.String(), seq.String())
}

func (e *Evaluator) evaluatePermutation(v model.AssertPermutation, ex Execution) Outcome {
	seq, out, ok := requireSeq(ex)
	if !ok {
		return out
	}
	got := seq.Strings()
	var want []string
	if e.Expr == nil {
		want = strings.Fields(v.Expr)
	} else {
		baseline, err := e.Expr.Evaluate(v.Expr)
		if err != nil {
			return Errorf("evaluate permutation baseline '%s': %v", v.Expr, err)
		}
		want = baseline.Strings()
	}
	gotSorted := slices.Clone(got)
	wantSorted := slices.Clone(want)
	slices.Sort(gotSorted)
	slices.Sort(wantSorted)
	if slices.Equal(gotSorted, wantSorted) {
		return Pass()
	}
	if e.Expr == nil {
		return Failf("Expected permutation of '%s', got '%s' (approximate comparison)", v.Expr, seq.String())
	}
	return Failf("Expected permutation of '%s', got '%s'", strings.Join(want, " "), seq.String())
}

func (e *Evaluator) evaluateSerialization(v model.SerializationMatches, ex Execution) Outcome {
	seq, out, ok := requireSeq(ex)
	if !ok {
		return out
	}
	pattern := v.Regex
	if v.File != "" {
		data, err := os.ReadFile(v.File)
		if err != nil {
			return Errorf("read serialization pattern: %v", err)
		}
		pattern = strings.TrimSpace(string(data))
	}
	compiled, err := compilePattern(pattern, v.Flags)
	if err != nil {
		return Errorf("compile serialization pattern '%s': %v", pattern, err)
	}
	got := seq.String()
	if compiled.MatchString(got) {
		return Pass()
	}
	return Failf("Expected serialization to match '%s', got '%s'", pattern, got)
}

// compilePattern applies XPath regex flags: i (case-insensitive),
// s (dot matches newline), m (multi-line), q (literal match).
func compilePattern(pattern, flags string) (*regexp.Regexp, error) {
	if strings.ContainsRune(flags, 'q') {
		pattern = regexp.QuoteMeta(pattern)
	}
	var prefix strings.Builder
	for _, f := range []struct {
		flag rune
		mode string
	}{{'i', "(?i)"}, {'s', "(?s)"}, {'m', "(?m)"}} {
		if strings.ContainsRune(flags, f.flag) {
			prefix.WriteString(f.mode)
		}
	}
	return regexp.Compile(prefix.String() + pattern)
}
