package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidal-dl-ng/agentcheck/internal/config"
	"github.com/tidal-dl-ng/agentcheck/internal/integration"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		wantPath string
	}{
		{
			name: "valid",
			cfg: config.Config{
				MaxConcurrent: 2,
				Compliance:    config.ComplianceConfig{DisabledRules: []string{"docs/docstrings"}},
				Integration: config.IntegrationConfig{Probes: []integration.Probe{
					{Kind: integration.KindImport, Module: "a", Symbol: "B"},
				}},
			},
		},
		{
			name:     "negative concurrency",
			cfg:      config.Config{MaxConcurrent: -1},
			wantPath: "$.max-concurrent",
		},
		{
			name:     "negative line length",
			cfg:      config.Config{Compliance: config.ComplianceConfig{MaxLineLength: -1}},
			wantPath: "$.compliance.max-line-length",
		},
		{
			name:     "negative docstrings",
			cfg:      config.Config{Compliance: config.ComplianceConfig{MinDocstrings: -1}},
			wantPath: "$.compliance.min-docstrings",
		},
		{
			name:     "unknown rule",
			cfg:      config.Config{Compliance: config.ComplianceConfig{DisabledRules: []string{"nope"}}},
			wantPath: "$.compliance.disabled-rules[0]",
		},
		{
			name: "invalid probe",
			cfg: config.Config{Integration: config.IntegrationConfig{Probes: []integration.Probe{
				{Kind: integration.KindContains, File: "a.py", Contains: "x"},
				{Kind: integration.KindImport},
			}}},
			wantPath: "$.integration.probes[1]",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()

			if tc.wantPath == "" {
				require.NoError(t, err)
				return
			}

			validationErr := config.ValidationError{}
			require.ErrorAs(t, err, &validationErr)
			require.Equal(t, tc.wantPath, validationErr.Path)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	req := require.New(t)

	req.True(config.EnvOverrides{}.IsEmpty())

	cfg := config.Config{Root: "/from/file", MaxConcurrent: 2}
	config.EnvOverrides{Root: "/from/env"}.Apply(&cfg)

	req.Equal("/from/env", cfg.Root)
	req.Equal(2, cfg.MaxConcurrent)
}

func TestConfig_CheckVersion(t *testing.T) {
	tests := []struct {
		name     string
		requires string
		version  string
		wantErr  string
	}{
		{name: "no constraint", version: "0.1.0"},
		{name: "satisfied", requires: ">= 1.2", version: "1.3.0"},
		{name: "development build", requires: ">= 1.2", version: "SNAPSHOT"},
		{name: "not satisfied", requires: ">= 1.2", version: "1.1.0", wantErr: "does not satisfy '>= 1.2'"},
		{name: "invalid constraint", requires: "not a constraint", version: "1.0.0", wantErr: "invalid version constraint"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Config{Requires: tc.requires}

			err := cfg.CheckVersion(tc.version)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}

			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}
