package engine

import (
	"fmt"
	"sort"
	"strings"
)

// Factory constructs a fresh engine instance.
type Factory func() (Engine, error)

// Registry maps backend names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a backend under name, replacing any previous entry.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Names returns the registered backend names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New constructs the backend registered under name. Unknown names
// report the available backends.
func (r *Registry) New(name string) (Engine, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown engine %q (available: %s)", name, strings.Join(r.Names(), ", "))
	}
	return f()
}
