package config

import (
	"fmt"

	"github.com/tidal-dl-ng/agentcheck/internal/compliance"
	"github.com/tidal-dl-ng/agentcheck/internal/integration"
)

// Config holds the settings of the compliance checker and of the integration verifier.
// Zero values mean "use the built-in default".
type Config struct {
	// Source is the file this configuration was loaded from.
	Source string `json:"-" yaml:"-"`

	// Requires is an optional semver constraint the running agentcheck version
	// must satisfy (ie: ">= 1.2").
	Requires string `json:"requires,omitempty" yaml:"requires,omitempty"`

	// Root is the root directory of the audited project.
	// Relative paths found in the configuration are resolved against it.
	Root string `json:"root,omitempty" yaml:"root,omitempty"`

	// MaxConcurrent is the maximum number of files checked concurrently.
	MaxConcurrent int `json:"max-concurrent,omitempty" yaml:"max-concurrent,omitempty"`

	Compliance  ComplianceConfig  `json:"compliance,omitzero" yaml:"compliance,omitempty"`
	Integration IntegrationConfig `json:"integration,omitzero" yaml:"integration,omitempty"`
}

type ComplianceConfig struct {
	// Files to check, relative to the project root.
	Files []string `json:"files,omitempty" yaml:"files,omitempty"`

	MaxLineLength int      `json:"max-line-length,omitempty" yaml:"max-line-length,omitempty"`
	MinDocstrings int      `json:"min-docstrings,omitempty" yaml:"min-docstrings,omitempty"`
	DisabledRules []string `json:"disabled-rules,omitempty" yaml:"disabled-rules,omitempty"`

	ImportOrder *compliance.ImportMarkers `json:"import-order,omitempty" yaml:"import-order,omitempty"`
}

type IntegrationConfig struct {
	Probes []integration.Probe `json:"probes,omitempty" yaml:"probes,omitempty"`
}

// EnvOverrides lists the settings that can be overridden with environment variables.
type EnvOverrides struct {
	Root          string `env:"AGENTCHECK_ROOT"`
	MaxConcurrent int    `env:"AGENTCHECK_MAX_CONCURRENT"`
}

func (overrides EnvOverrides) IsEmpty() bool {
	return overrides == EnvOverrides{}
}

// Apply copies the non-empty overrides into the given configuration.
func (overrides EnvOverrides) Apply(cfg *Config) {
	if overrides.Root != "" {
		cfg.Root = overrides.Root
	}

	if overrides.MaxConcurrent != 0 {
		cfg.MaxConcurrent = overrides.MaxConcurrent
	}
}

// Validate checks the configuration for values that can not be used.
func (config *Config) Validate() error {
	if config.MaxConcurrent < 0 {
		return ValidationError{
			Path:    "$.max-concurrent",
			Message: "max-concurrent must be a positive number",
		}
	}

	if config.Compliance.MaxLineLength < 0 {
		return ValidationError{
			Path:    "$.compliance.max-line-length",
			Message: "max-line-length must be a positive number",
		}
	}

	if config.Compliance.MinDocstrings < 0 {
		return ValidationError{
			Path:    "$.compliance.min-docstrings",
			Message: "min-docstrings must be a positive number",
		}
	}

	for i, rule := range config.Compliance.DisabledRules {
		if !compliance.IsKnownRule(rule) {
			return ValidationError{
				Path:    fmt.Sprintf("$.compliance.disabled-rules[%d]", i),
				Message: fmt.Sprintf("unknown rule '%s'", rule),
				Suggestions: []string{
					"List the available rules: agentcheck compliance rules",
				},
			}
		}
	}

	for i, probe := range config.Integration.Probes {
		if err := probe.Validate(); err != nil {
			return ValidationError{
				Path:    fmt.Sprintf("$.integration.probes[%d]", i),
				Message: err.Error(),
			}
		}
	}

	return nil
}
