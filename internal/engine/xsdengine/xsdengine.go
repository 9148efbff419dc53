// Package xsdengine implements the engine contract's schema operations
// on top of the jacoelho XSD 1.0 validator.
package xsdengine

import (
	"encoding/xml"
	"io"
	"os"
	"strings"

	"github.com/jacoelho/xsd"
	xsderrors "github.com/jacoelho/xsd/errors"

	"github.com/xmlconform/xmlconform/internal/engine"
)

// Name is the backend's registered name.
const Name = "xsd"

// Engine validates instance documents against XSD 1.0 schemas. Loaded
// schemas are cached by path; Validate runs against the most recently
// loaded one, matching how schema test groups share a single schema
// across instances.
type Engine struct {
	caps    engine.Capabilities
	schemas map[string]*xsd.Schema
	current *xsd.Schema
}

// New returns an XSD backend with its default capability claims.
func New() *Engine {
	return &Engine{
		caps: engine.Capabilities{
			Specs: []string{"XSD10"},
			Versions: map[engine.Kind]string{
				engine.KindXSD: "1.0",
			},
		},
		schemas: make(map[string]*xsd.Schema),
	}
}

func (e *Engine) Name() string { return Name }

func (e *Engine) Capabilities() engine.Capabilities { return e.caps }

// SetCapabilities replaces the backend's capability claims.
func (e *Engine) SetCapabilities(caps engine.Capabilities) { e.caps = caps }

// document keeps the raw XML so validation can re-stream it.
type document struct {
	content string
}

func (d *document) String() string { return d.content }

func (e *Engine) Parse(content string) (engine.Document, error) {
	if err := checkWellFormed(strings.NewReader(content)); err != nil {
		return nil, engine.Wrap(engine.CodeParse, err, "parse document")
	}
	return &document{content: content}, nil
}

func (e *Engine) ParseFile(path string) (engine.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, engine.Wrap(engine.CodeIO, err, "read %s", path)
	}
	if err := checkWellFormed(strings.NewReader(string(data))); err != nil {
		return nil, engine.Wrap(engine.CodeParse, err, "parse %s", path)
	}
	return &document{content: string(data)}, nil
}

func checkWellFormed(r io.Reader) error {
	dec := xml.NewDecoder(r)
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// LoadSchema compiles the schema at path and makes it current. A schema
// that fails to compile reports a classified error, which the runner
// interprets as the schema being invalid.
func (e *Engine) LoadSchema(path string) error {
	if s, ok := e.schemas[path]; ok {
		e.current = s
		return nil
	}
	s, err := xsd.LoadFile(path)
	if err != nil {
		return engine.Wrap(engine.CodeXsd, err, "load schema %s", path)
	}
	e.schemas[path] = s
	e.current = s
	return nil
}

// Validate checks the document against the current schema. Validation
// findings come back in the report; only infrastructure problems are
// returned as errors.
func (e *Engine) Validate(doc engine.Document) (engine.ValidationReport, error) {
	if e.current == nil {
		return engine.ValidationReport{}, engine.Errorf(engine.CodeXsd, "no schema loaded")
	}
	d, ok := doc.(*document)
	if !ok {
		return engine.ValidationReport{}, engine.Errorf(engine.CodeEngine, "document not produced by this engine")
	}
	err := e.current.Validate(strings.NewReader(d.content))
	if err == nil {
		return engine.ValidationReport{Valid: true}, nil
	}
	if findings, ok := xsderrors.AsValidations(err); ok {
		report := engine.ValidationReport{Valid: false}
		for _, f := range findings {
			report.Issues = append(report.Issues, engine.ValidationIssue{
				Message: f.Message,
				Line:    f.Line,
				Column:  f.Column,
			})
		}
		return report, nil
	}
	return engine.ValidationReport{}, engine.Wrap(engine.CodeXsd, err, "validate document")
}

func (e *Engine) EvaluateQuery(expr string, doc engine.Document) (engine.Sequence, error) {
	return engine.Sequence{}, engine.Unsupportedf("query evaluation")
}

func (e *Engine) Transform(stylesheet string, doc engine.Document, initialTemplate, initialMode string) (engine.Document, error) {
	return nil, engine.Unsupportedf("xslt transformation")
}
