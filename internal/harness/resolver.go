package harness

import (
	"fmt"

	"github.com/xmlconform/xmlconform/internal/engine"
	"github.com/xmlconform/xmlconform/internal/model"
)

// ResolveEnvironment resolves a test case's environment reference
// against the test set's merged environment map. A case without an
// environment resolves to nil. A named reference that matches nothing
// is an error; the case cannot run without its inputs.
func ResolveEnvironment(tc model.TestCase, envs map[string]model.Environment) (*model.Environment, error) {
	if tc.Environment == nil {
		return nil, nil
	}
	if tc.Environment.Inline != nil {
		env := *tc.Environment.Inline
		if err := checkEnvironment(&env); err != nil {
			return nil, err
		}
		return &env, nil
	}
	env, ok := envs[tc.Environment.Name]
	if !ok {
		return nil, fmt.Errorf("environment not found: %s", tc.Environment.Name)
	}
	if err := checkEnvironment(&env); err != nil {
		return nil, err
	}
	return &env, nil
}

func checkEnvironment(env *model.Environment) error {
	contexts := 0
	for _, src := range env.Sources {
		if src.Role == "." {
			contexts++
		}
	}
	if contexts > 1 {
		return fmt.Errorf("environment %q declares %d context sources, want at most one", env.Name, contexts)
	}
	return nil
}

// LoadContextDocument parses the environment's context source. Without
// an environment, or without a context source, queries run against an
// empty document so expressions that need no context still evaluate.
func LoadContextDocument(eng engine.Engine, env *model.Environment) (engine.Document, error) {
	if src := env.ContextSource(); src != nil {
		if src.File != "" {
			return eng.ParseFile(src.File)
		}
		return eng.Parse(src.Content)
	}
	return eng.Parse("<empty/>")
}
