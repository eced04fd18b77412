package config

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// CheckVersion ensures that the given agentcheck version satisfies the
// constraint declared in the configuration, if any.
// Development builds (non-semver versions such as "SNAPSHOT") always satisfy it.
func (config *Config) CheckVersion(version string) error {
	if config.Requires == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(config.Requires)
	if err != nil {
		return ValidationError{
			Path:    "$.requires",
			Message: fmt.Sprintf("invalid version constraint '%s': %s", config.Requires, err),
		}
	}

	current, err := semver.NewVersion(version)
	if err != nil {
		return nil //nolint:nilerr
	}

	if !constraint.Check(current) {
		return ValidationError{
			Path:    "$.requires",
			Message: fmt.Sprintf("agentcheck %s does not satisfy '%s'", current, config.Requires),
			Suggestions: []string{
				"Upgrade agentcheck",
			},
		}
	}

	return nil
}
