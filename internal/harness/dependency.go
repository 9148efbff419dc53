package harness

import (
	"strings"

	"github.com/xmlconform/xmlconform/internal/engine"
	"github.com/xmlconform/xmlconform/internal/model"
)

// CheckDependency reports whether the engine's capabilities satisfy one
// catalog dependency.
//
// Spec dependencies list alternatives ("XQ10+ XP20" or "XQ30|XQ31");
// any one token matching a claimed spec satisfies the dependency.
// Feature dependencies are unsatisfied when the value names a feature
// the engine declares unsupported. Every other dependency type falls
// back to the satisfied flag declared in the catalog.
func CheckDependency(dep model.Dependency, caps engine.Capabilities) bool {
	switch dep.Type {
	case "spec":
		for _, token := range splitTokens(dep.Value) {
			if caps.SupportsSpec(token) {
				return true
			}
		}
		return false
	case "feature":
		for _, feature := range caps.UnsupportedFeatures {
			if strings.Contains(dep.Value, feature) {
				return false
			}
		}
		return true
	default:
		return dep.Satisfied
	}
}

func splitTokens(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '|'
	})
}
