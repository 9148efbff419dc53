// Package fake provides a scripted engine for harness tests. Results
// are stubbed per expression and every call is recorded, so tests can
// assert both outcomes and whether the engine was invoked at all.
package fake

import (
	"fmt"

	"github.com/xmlconform/xmlconform/internal/engine"
)

type stub struct {
	seq engine.Sequence
	err error
}

// Engine is a scripted engine.Engine implementation.
type Engine struct {
	// Caps is returned by Capabilities. Zero value claims nothing.
	Caps engine.Capabilities

	// Calls records every engine invocation as "op(arg)".
	Calls []string

	// Bound holds the namespaces from the last BindNamespaces call.
	Bound map[string]string

	stubs    map[string]stub
	panicOn  map[string]bool
	loadErrs map[string]error
	fileErrs map[string]error
	valid    bool
}

// New returns a fake whose unstubbed queries yield an empty sequence
// and whose validations report valid.
func New() *Engine {
	return &Engine{
		stubs:    make(map[string]stub),
		panicOn:  make(map[string]bool),
		loadErrs: make(map[string]error),
		fileErrs: make(map[string]error),
		valid:    true,
	}
}

// Stub makes expr evaluate to the given items.
func (e *Engine) Stub(expr string, items ...engine.Item) {
	e.stubs[expr] = stub{seq: engine.Sequence{Items: items}}
}

// StubError makes expr fail with err.
func (e *Engine) StubError(expr string, err error) {
	e.stubs[expr] = stub{err: err}
}

// PanicOn makes expr panic when evaluated.
func (e *Engine) PanicOn(expr string) {
	e.panicOn[expr] = true
}

// FailSchema makes LoadSchema fail for path.
func (e *Engine) FailSchema(path string, err error) {
	e.loadErrs[path] = err
}

// FailFile makes ParseFile fail for path.
func (e *Engine) FailFile(path string, err error) {
	e.fileErrs[path] = err
}

// SetValid controls the report of subsequent Validate calls.
func (e *Engine) SetValid(valid bool) {
	e.valid = valid
}

func (e *Engine) record(op, arg string) {
	e.Calls = append(e.Calls, fmt.Sprintf("%s(%s)", op, arg))
}

func (e *Engine) Name() string { return "fake" }

func (e *Engine) Capabilities() engine.Capabilities { return e.Caps }

func (e *Engine) BindNamespaces(ns map[string]string) { e.Bound = ns }

type document struct {
	content string
}

func (d *document) String() string { return d.content }

func (e *Engine) Parse(content string) (engine.Document, error) {
	e.record("parse", content)
	return &document{content: content}, nil
}

func (e *Engine) ParseFile(path string) (engine.Document, error) {
	e.record("parse-file", path)
	if err := e.fileErrs[path]; err != nil {
		return nil, err
	}
	return &document{content: "<file>" + path + "</file>"}, nil
}

func (e *Engine) EvaluateQuery(expr string, doc engine.Document) (engine.Sequence, error) {
	e.record("query", expr)
	if e.panicOn[expr] {
		panic("scripted panic: " + expr)
	}
	if s, ok := e.stubs[expr]; ok {
		return s.seq, s.err
	}
	return engine.Sequence{}, nil
}

func (e *Engine) Transform(stylesheet string, doc engine.Document, initialTemplate, initialMode string) (engine.Document, error) {
	e.record("transform", stylesheet)
	if s, ok := e.stubs[stylesheet]; ok {
		if s.err != nil {
			return nil, s.err
		}
		return &document{content: s.seq.String()}, nil
	}
	return &document{content: "<out/>"}, nil
}

func (e *Engine) LoadSchema(path string) error {
	e.record("load-schema", path)
	return e.loadErrs[path]
}

func (e *Engine) Validate(doc engine.Document) (engine.ValidationReport, error) {
	e.record("validate", doc.String())
	if e.valid {
		return engine.ValidationReport{Valid: true}, nil
	}
	return engine.ValidationReport{
		Valid:  false,
		Issues: []engine.ValidationIssue{{Message: "scripted invalid"}},
	}, nil
}
