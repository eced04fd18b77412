package integration

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/grafana/grafana-app-sdk/logging"
	"github.com/tidal-dl-ng/agentcheck/internal/logs"
)

type Option func(v *Verifier) error

// Root sets the project root: modules and files are resolved against it.
func Root(dir string) Option {
	return func(v *Verifier) error {
		v.root = dir
		return nil
	}
}

// Probes replaces the default probes.
func Probes(probes []Probe) Option {
	return func(v *Verifier) error {
		for i, probe := range probes {
			if err := probe.Validate(); err != nil {
				return fmt.Errorf("probe %d: %w", i+1, err)
			}
		}

		v.probes = probes
		return nil
	}
}

// Verifier runs integration probes against the sources of a project.
type Verifier struct {
	root   string
	probes []Probe
}

func New(opts ...Option) (*Verifier, error) {
	verifier := &Verifier{
		root:   ".",
		probes: DefaultProbes(),
	}

	for _, opt := range opts {
		if err := opt(verifier); err != nil {
			return nil, err
		}
	}

	return verifier, nil
}

func (verifier *Verifier) Probes() []Probe {
	return verifier.probes
}

// Verify runs every probe, in order. A failing probe never prevents the
// following ones from running.
func (verifier *Verifier) Verify(ctx context.Context) (Report, error) {
	logger := logging.FromContext(ctx).With(slog.String("component", "integration"))
	proj := newProject(verifier.root)

	report := Report{
		Outcomes: make([]Outcome, 0, len(verifier.probes)),
	}

	for i, probe := range verifier.probes {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}

		outcome := Outcome{
			Number: i + 1,
			Kind:   probe.Kind,
			Probe:  probe.Describe(),
		}

		found, err := verifier.run(ctx, proj, probe)

		switch {
		case err != nil:
			logger.Debug("Probe failed", slog.Int("probe", outcome.Number), logs.Err(err))
			outcome.Message = probe.errorMessage(err)
		case found:
			outcome.Passed = true
			outcome.Message = probe.successMessage()
		default:
			outcome.Message = probe.failureMessage()
		}

		report.add(outcome)
	}

	logger.Debug("Integration verified", slog.Int("passed", report.Passed), slog.Int("failed", report.Failed))

	return report, nil
}

func (verifier *Verifier) run(ctx context.Context, proj *project, probe Probe) (bool, error) {
	switch probe.Kind {
	case KindImport:
		if err := proj.importName(ctx, probe.Module, probe.Symbol); err != nil {
			return false, err
		}

		return true, nil
	case KindInherits:
		return verifier.inherits(ctx, proj, probe)
	case KindAttribute:
		class, err := proj.findClass(ctx, probe.Module, probe.Class)
		if err != nil {
			return false, err
		}

		return proj.hasAttribute(ctx, class, probe.Attribute), nil
	case KindContains:
		content, err := proj.readFile(probe.File)
		if err != nil {
			return false, err
		}

		return strings.Contains(content, probe.Contains), nil
	default:
		return false, fmt.Errorf("unknown probe kind '%s'", probe.Kind)
	}
}

func (verifier *Verifier) inherits(ctx context.Context, proj *project, probe Probe) (bool, error) {
	class, err := proj.findClass(ctx, probe.Module, probe.Class)
	if err != nil {
		return false, err
	}

	var want *classRef

	if probe.BaseModule != "" {
		base, err := proj.findClass(ctx, probe.BaseModule, probe.Base)
		if err != nil {
			return false, err
		}

		want = &base.ref
	}

	for _, base := range proj.bases(ctx, class) {
		if want != nil && base.ref == *want {
			return true, nil
		}

		if want == nil && base.ref.name == probe.Base {
			return true, nil
		}
	}

	return false, nil
}
