package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	tomlv2 "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// RulesConfig is the architecture rule policy.
type RulesConfig struct {
	// AllowedImports maps a layer to the layers it may depend on. A nil map
	// disables boundary checking; an empty-but-present map forbids every
	// cross-layer call.
	AllowedImports map[string][]string `json:"allowedImports,omitempty" yaml:"allowed_imports" toml:"allowed_imports" mapstructure:"allowedImports"`

	// KnownFrameworks lists module prefixes treated as framework-mediated
	// callees during edge classification.
	KnownFrameworks []string `json:"knownFrameworks" yaml:"known_frameworks" toml:"known_frameworks" mapstructure:"knownFrameworks"`
}

// LoadRules reads a rules file, dispatching on extension. TOML, YAML and
// JSON are supported.
func LoadRules(path string) (*RulesConfig, error) {
	var rules RulesConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &rules); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &rules); err != nil {
			return nil, err
		}
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &rules); err != nil {
			return nil, err
		}
	default:
		return nil, &ConfigError{Field: "rulesFile", Message: "unsupported rules format " + filepath.Ext(path)}
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &rules, nil
}

// SaveRules writes the rules as TOML, the format `layercheck init` seeds.
func SaveRules(path string, rules *RulesConfig) error {
	data, err := tomlv2.Marshal(rules)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects policies that reference layers inconsistently.
func (r *RulesConfig) Validate() error {
	for layer, targets := range r.AllowedImports {
		if layer == "" {
			return &ConfigError{Field: "allowed_imports", Message: "layer name must not be empty"}
		}
		for _, t := range targets {
			if t == "" {
				return &ConfigError{Field: "allowed_imports", Message: "allowed layer for '" + layer + "' must not be empty"}
			}
		}
	}
	for _, fw := range r.KnownFrameworks {
		if fw == "" {
			return &ConfigError{Field: "known_frameworks", Message: "framework prefix must not be empty"}
		}
	}
	return nil
}

// BoundaryEnabled reports whether a boundary policy is configured at all.
func (r *RulesConfig) BoundaryEnabled() bool {
	return r.AllowedImports != nil
}
