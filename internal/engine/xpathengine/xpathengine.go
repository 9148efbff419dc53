// Package xpathengine implements the engine contract on top of the
// antchfx XPath 1.0 evaluator.
package xpathengine

import (
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/xmlconform/xmlconform/internal/engine"
)

// Name is the backend's registered name.
const Name = "xpath"

// Engine evaluates XPath 1.0 expressions over xmlquery document trees.
// It implements engine.NamespaceBinder; bindings apply to every
// subsequent query until replaced.
type Engine struct {
	caps engine.Capabilities
	ns   map[string]string
}

// New returns an XPath backend with its default capability claims.
func New() *Engine {
	return &Engine{caps: defaultCapabilities()}
}

func defaultCapabilities() engine.Capabilities {
	return engine.Capabilities{
		Specs: []string{"XP10", "XP20"},
		Versions: map[engine.Kind]string{
			engine.KindXPath: "1.0",
		},
		UnsupportedFeatures: []string{
			"serialization",
			"schema-import",
			"schema-validation",
			"static-typing",
			"module",
			"collection-stability",
			"directory-as-collection-uri",
			"higherOrderFunctions",
		},
	}
}

func (e *Engine) Name() string { return Name }

func (e *Engine) Capabilities() engine.Capabilities { return e.caps }

// SetCapabilities replaces the backend's capability claims. Used when a
// registry entry narrows or extends the defaults.
func (e *Engine) SetCapabilities(caps engine.Capabilities) { e.caps = caps }

// BindNamespaces sets the prefix bindings used to compile expressions.
func (e *Engine) BindNamespaces(ns map[string]string) { e.ns = ns }

type document struct {
	root *xmlquery.Node
}

func (d *document) String() string { return d.root.OutputXML(true) }

func (e *Engine) Parse(content string) (engine.Document, error) {
	root, err := xmlquery.Parse(strings.NewReader(content))
	if err != nil {
		return nil, engine.Wrap(engine.CodeParse, err, "parse document")
	}
	return &document{root: root}, nil
}

func (e *Engine) ParseFile(path string) (engine.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, engine.Wrap(engine.CodeIO, err, "open %s", path)
	}
	defer f.Close()
	root, err := xmlquery.Parse(f)
	if err != nil {
		return nil, engine.Wrap(engine.CodeParse, err, "parse %s", path)
	}
	return &document{root: root}, nil
}

func (e *Engine) EvaluateQuery(expr string, doc engine.Document) (engine.Sequence, error) {
	var compiled *xpath.Expr
	var err error
	if len(e.ns) > 0 {
		compiled, err = xpath.CompileWithNS(expr, e.ns)
	} else {
		compiled, err = xpath.Compile(expr)
	}
	if err != nil {
		return engine.Sequence{}, engine.Wrap(engine.CodeXPath, err, "compile %q", expr)
	}

	root := emptyContext
	if d, ok := doc.(*document); ok && d != nil {
		root = d.root
	}
	nav := xmlquery.CreateXPathNavigator(root)
	return toSequence(compiled.Evaluate(nav)), nil
}

// emptyContext backs queries that arrive without a context document.
var emptyContext = func() *xmlquery.Node {
	root, err := xmlquery.Parse(strings.NewReader("<empty/>"))
	if err != nil {
		panic(err)
	}
	return root
}()

func toSequence(result any) engine.Sequence {
	switch v := result.(type) {
	case bool:
		return engine.Sequence{Items: []engine.Item{{
			Kind:  engine.ItemBoolean,
			Value: strconv.FormatBool(v),
		}}}
	case float64:
		return engine.Sequence{Items: []engine.Item{numericItem(v)}}
	case string:
		return engine.Sequence{Items: []engine.Item{{
			Kind:  engine.ItemString,
			Value: v,
		}}}
	case *xpath.NodeIterator:
		var items []engine.Item
		for v.MoveNext() {
			cur := v.Current()
			items = append(items, engine.Item{
				Kind:  engine.ItemNode,
				Name:  cur.LocalName(),
				Value: cur.Value(),
			})
		}
		return engine.Sequence{Items: items}
	default:
		return engine.Sequence{}
	}
}

// numericItem keeps XPath 1.0 number formatting: whole numbers print
// without a fractional part and classify as integers.
func numericItem(v float64) engine.Item {
	if v == math.Trunc(v) && !math.IsInf(v, 0) && !math.IsNaN(v) {
		return engine.Item{
			Kind:  engine.ItemInteger,
			Value: strconv.FormatInt(int64(v), 10),
		}
	}
	return engine.Item{
		Kind:  engine.ItemDouble,
		Value: strconv.FormatFloat(v, 'g', -1, 64),
	}
}

func (e *Engine) Transform(stylesheet string, doc engine.Document, initialTemplate, initialMode string) (engine.Document, error) {
	return nil, engine.Unsupportedf("xslt transformation")
}

func (e *Engine) LoadSchema(path string) error {
	return engine.Unsupportedf("schema loading")
}

func (e *Engine) Validate(doc engine.Document) (engine.ValidationReport, error) {
	return engine.ValidationReport{}, engine.Unsupportedf("schema validation")
}
