package synth

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// ParseConfig decodes YAML over the defaults of New and validates the result.
func ParseConfig(data []byte) (*Synth, error) {
	s := New()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Synth, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return ParseConfig(data)
}
