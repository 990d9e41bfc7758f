// Package config loads layered YAML configuration for drift evaluation runs.
//
// Raw files are deep-merged left to right by LoadConfig. Load decodes the
// merged mapping onto DefaultSettings and applies NDRIFT_* environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned when a configuration path does not exist.
	ErrNotFound = errors.New("config file not found")

	// ErrNotMapping is returned when a file's top level is not a YAML mapping.
	ErrNotMapping = errors.New("config file must contain a YAML mapping")
)

// LoadConfig reads every path in order and deep-merges the documents, later
// files overriding earlier ones. Empty documents are skipped.
func LoadConfig(paths ...string) (map[string]any, error) {
	merged := make(map[string]any)

	for _, path := range paths {
		part, err := readMapping(path)
		if err != nil {
			return nil, err
		}
		if part == nil {
			continue
		}
		merged = DeepMerge(merged, part)
	}
	return merged, nil
}

func readMapping(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc == nil {
		return nil, nil
	}

	switch m := normalize(doc).(type) {
	case map[string]any:
		return m, nil
	default:
		return nil, fmt.Errorf("%w: %s (got %T)", ErrNotMapping, path, doc)
	}
}
