// Package models holds the model registry: short keys mapped to provider
// model IDs, per-million-token pricing and descriptions.
//
// DESIGN: The table is configuration, not code. Defaults are compiled in
// from models.yaml; a replacement file can be supplied to add models or
// reprice without touching logic. Descriptors are immutable once loaded.
package models

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var defaultModelsYAML []byte

// Descriptor describes one selectable model.
type Descriptor struct {
	Key           string  `yaml:"-"`
	ID            string  `yaml:"id"`
	InputPerMTok  float64 `yaml:"input_per_mtok"`  // USD per million input tokens
	OutputPerMTok float64 `yaml:"output_per_mtok"` // USD per million output tokens
	Description   string  `yaml:"description"`
}

// Registry resolves short model keys to descriptors.
type Registry struct {
	byKey map[string]Descriptor
}

type registryFile struct {
	Models map[string]Descriptor `yaml:"models"`
}

// Load returns the registry from path, or the embedded defaults when path
// is empty.
func Load(path string) (*Registry, error) {
	data := defaultModelsYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading models file: %w", err)
		}
		data = b
	}
	return Parse(data)
}

// Parse builds a registry from YAML bytes.
func Parse(data []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing models yaml: %w", err)
	}
	if len(f.Models) == 0 {
		return nil, fmt.Errorf("models yaml defines no models")
	}
	byKey := make(map[string]Descriptor, len(f.Models))
	for key, d := range f.Models {
		key = strings.ToLower(strings.TrimSpace(key))
		if d.ID == "" {
			return nil, fmt.Errorf("model %q has no id", key)
		}
		if d.InputPerMTok < 0 || d.OutputPerMTok < 0 {
			return nil, fmt.Errorf("model %q has negative pricing", key)
		}
		d.Key = key
		byKey[key] = d
	}
	return &Registry{byKey: byKey}, nil
}

// Resolve looks up a descriptor by short key (case-insensitive).
func (r *Registry) Resolve(key string) (Descriptor, bool) {
	d, ok := r.byKey[strings.ToLower(strings.TrimSpace(key))]
	return d, ok
}

// Keys returns all registry keys, sorted.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.byKey))
	for k := range r.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
