package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is a reusable run description, so a CI job can say
// "run this file" instead of repeating flags.
type Manifest struct {
	Engine  string `yaml:"engine"`
	Suite   string `yaml:"suite"`
	Filter  string `yaml:"filter,omitempty"`
	Output  string `yaml:"output,omitempty"`
	DB      string `yaml:"db,omitempty"`
	Dialect string `yaml:"dialect,omitempty"`
}

// LoadManifest reads and parses a run manifest. Unknown fields are
// rejected so a typo fails loudly instead of being ignored.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateManifest(&m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return &m, nil
}

func validateManifest(m *Manifest) error {
	if m.Engine == "" {
		return fmt.Errorf("missing engine")
	}
	if m.Suite == "" {
		return fmt.Errorf("missing suite")
	}
	return nil
}
