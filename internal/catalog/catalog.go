// Package catalog loads conformance test catalogs from disk into the
// model types. Three dialects are supported: query catalogs (catalog /
// test-set / test-case), transform catalogs (same skeleton with
// stylesheet tests), and schema catalogs (testSuite / testSetRef /
// testGroup).
//
// The top-level catalog is parsed eagerly; individual test sets load
// lazily so a filtered run never touches unrelated files. All element
// and attribute matching is by local name, which keeps the loaders
// indifferent to the prefixes a particular suite uses.
package catalog

import (
	"fmt"
	"path/filepath"

	"github.com/xmlconform/xmlconform/internal/model"
)

// Dialect selects the catalog grammar.
type Dialect string

const (
	DialectQuery     Dialect = "query"
	DialectTransform Dialect = "transform"
	DialectSchema    Dialect = "schema"
)

// ParseDialect validates a dialect name.
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case DialectQuery, DialectTransform, DialectSchema:
		return Dialect(s), nil
	default:
		return "", fmt.Errorf("unknown catalog dialect %q (available: query, transform, schema)", s)
	}
}

// LoadError is a classified catalog loading failure.
//
// Codes: C001 file unreadable, C002 malformed XML, C003 structural
// problem in an otherwise well-formed file.
type LoadError struct {
	Code string
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func loadErrorf(code, path, format string, args ...any) *LoadError {
	return &LoadError{Code: code, Path: path, Err: fmt.Errorf(format, args...)}
}

// Loader reads one catalog and its test sets.
type Loader struct {
	path    string
	dialect Dialect
	baseDir string

	catalog *model.Catalog
}

// NewLoader returns a loader for the catalog file at path.
func NewLoader(path string, dialect Dialect) *Loader {
	return &Loader{
		path:    path,
		dialect: dialect,
		baseDir: filepath.Dir(path),
	}
}

// Dialect returns the loader's catalog dialect.
func (l *Loader) Dialect() Dialect { return l.dialect }

// Catalog parses the top-level catalog file. The result is cached;
// subsequent calls are free.
func (l *Loader) Catalog() (*model.Catalog, error) {
	if l.catalog != nil {
		return l.catalog, nil
	}
	root, err := parseFile(l.path)
	if err != nil {
		return nil, err
	}
	var cat *model.Catalog
	switch l.dialect {
	case DialectSchema:
		cat, err = parseSchemaCatalog(root, l.path)
	default:
		cat, err = parseQueryCatalog(root, l.path)
	}
	if err != nil {
		return nil, err
	}
	l.catalog = cat
	return cat, nil
}

// TestSet loads and parses the test set behind ref. The returned set's
// environment map already merges the catalog's global environments,
// with local definitions shadowing global ones of the same name.
func (l *Loader) TestSet(ref model.TestSetRef) (*model.TestSet, error) {
	cat, err := l.Catalog()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(l.baseDir, filepath.FromSlash(ref.File))
	root, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	var ts *model.TestSet
	switch l.dialect {
	case DialectSchema:
		ts, err = parseSchemaTestSet(root, path, ref)
	default:
		ts, err = parseQueryTestSet(root, path, l.dialect)
	}
	if err != nil {
		return nil, err
	}
	merged := make(map[string]model.Environment, len(cat.Environments)+len(ts.Environments))
	for name, env := range cat.Environments {
		merged[name] = env
	}
	for name, env := range ts.Environments {
		merged[name] = env
	}
	ts.Environments = merged
	return ts, nil
}
