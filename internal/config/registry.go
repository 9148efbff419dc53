// Package config loads the harness configuration: a CUE registry of
// known suites and engine capability overrides, and an optional YAML
// run manifest.
package config

import (
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Suite is a registered test suite: a catalog file and its dialect.
type Suite struct {
	Name    string `json:"name"`
	Catalog string `json:"catalog"`
	Dialect string `json:"dialect"`
}

// EngineSpec overrides a backend's default capability claims. A zero
// field leaves the backend's own default in place.
type EngineSpec struct {
	Name                string   `json:"name"`
	Specs               []string `json:"specs"`
	UnsupportedFeatures []string `json:"unsupportedFeatures"`
}

// Registry is the harness configuration file's content.
type Registry struct {
	Suites  map[string]Suite
	Engines map[string]EngineSpec
}

// Suite looks up a registered suite by name.
func (r *Registry) Suite(name string) (Suite, error) {
	s, ok := r.Suites[name]
	if !ok {
		names := make([]string, 0, len(r.Suites))
		for n := range r.Suites {
			names = append(names, n)
		}
		return Suite{}, fmt.Errorf("unknown suite %q (registered: %s)", name, strings.Join(names, ", "))
	}
	return s, nil
}

// LoadRegistry reads a CUE configuration file. Suites live under the
// "suite" struct, engine overrides under "engine", each keyed by name:
//
//	suite: qt3: {catalog: "suites/qt3/catalog.xml", dialect: "query"}
//	engine: xpath: {specs: ["XP10"]}
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("compile config %s: %w", path, err)
	}

	reg := &Registry{
		Suites:  make(map[string]Suite),
		Engines: make(map[string]EngineSpec),
	}

	suites := value.LookupPath(cue.ParsePath("suite"))
	if suites.Exists() {
		iter, err := suites.Fields()
		if err != nil {
			return nil, fmt.Errorf("config %s: iterating suites: %w", path, err)
		}
		for iter.Next() {
			name := iter.Label()
			var s Suite
			if err := iter.Value().Decode(&s); err != nil {
				return nil, fmt.Errorf("config %s: suite %q: %w", path, name, err)
			}
			s.Name = name
			if err := validateSuite(s); err != nil {
				return nil, fmt.Errorf("config %s: suite %q: %w", path, name, err)
			}
			reg.Suites[name] = s
		}
	}

	engines := value.LookupPath(cue.ParsePath("engine"))
	if engines.Exists() {
		iter, err := engines.Fields()
		if err != nil {
			return nil, fmt.Errorf("config %s: iterating engines: %w", path, err)
		}
		for iter.Next() {
			name := iter.Label()
			var e EngineSpec
			if err := iter.Value().Decode(&e); err != nil {
				return nil, fmt.Errorf("config %s: engine %q: %w", path, name, err)
			}
			e.Name = name
			reg.Engines[name] = e
		}
	}

	return reg, nil
}

func validateSuite(s Suite) error {
	if s.Catalog == "" {
		return fmt.Errorf("missing catalog path")
	}
	switch s.Dialect {
	case "query", "transform", "schema":
		return nil
	case "":
		return fmt.Errorf("missing dialect")
	default:
		return fmt.Errorf("unknown dialect %q (available: query, transform, schema)", s.Dialect)
	}
}
