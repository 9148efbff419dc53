package cli

import (
	"github.com/xmlconform/xmlconform/internal/config"
	"github.com/xmlconform/xmlconform/internal/engine"
	"github.com/xmlconform/xmlconform/internal/engine/xpathengine"
	"github.com/xmlconform/xmlconform/internal/engine/xsdengine"
)

// capabilitySetter is implemented by backends whose capability claims
// can be overridden from the registry.
type capabilitySetter interface {
	SetCapabilities(engine.Capabilities)
}

// newEngineRegistry registers the built-in backends.
func newEngineRegistry() *engine.Registry {
	reg := engine.NewRegistry()
	reg.Register(xpathengine.Name, func() (engine.Engine, error) {
		return xpathengine.New(), nil
	})
	reg.Register(xsdengine.Name, func() (engine.Engine, error) {
		return xsdengine.New(), nil
	})
	return reg
}

// applyOverrides narrows or extends an engine's default capability
// claims from its registry entry. Empty override fields keep the
// backend's defaults.
func applyOverrides(eng engine.Engine, spec config.EngineSpec) {
	setter, ok := eng.(capabilitySetter)
	if !ok {
		return
	}
	caps := eng.Capabilities()
	if len(spec.Specs) > 0 {
		caps.Specs = spec.Specs
	}
	if len(spec.UnsupportedFeatures) > 0 {
		caps.UnsupportedFeatures = spec.UnsupportedFeatures
	}
	setter.SetCapabilities(caps)
}
