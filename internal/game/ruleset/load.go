package ruleset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse overlays the YAML document data onto the default rules and validates
// the result. Top-level lists in data replace the defaults wholesale; maps
// are merged key by key.
//
// Postcondition: Returns validated Rules or a non-nil error.
func Parse(data []byte) (*Rules, error) {
	r := Default()
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadFile reads the rules file at path. An empty path yields the defaults.
//
// Precondition: path is empty or names a readable YAML file.
// Postcondition: Returns validated Rules or a non-nil error.
func LoadFile(path string) (*Rules, error) {
	if path == "" {
		r := Default()
		return r, r.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file %s: %w", path, err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading rules file %s: %w", path, err)
	}
	return r, nil
}
