package compliance

import (
	"context"
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"
)

const (
	toolName = "agentcheck"
	toolURI  = "https://github.com/tidal-dl-ng/agentcheck"
)

var _ Reporter = (*SarifReporter)(nil)

// SarifReporter publishes reports as SARIF 2.1.0 documents, for code scanning integrations.
// Passed checks are not part of the document.
type SarifReporter struct {
}

func (reporter SarifReporter) Publish(_ context.Context, out io.Writer, r Report) error {
	document, err := ToSarif(r)
	if err != nil {
		return err
	}

	return document.PrettyWrite(out)
}

// ToSarif converts a report to a SARIF document with a single run.
func ToSarif(r Report) (*sarif.Report, error) {
	document, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(toolName, toolURI)

	for _, rule := range rules {
		run.AddRule(rule.ID()).
			WithDescription(rule.Description).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{
				Level: toSarifLevel(rule.Severity),
			})
	}

	for _, violation := range r.Violations {
		physicalLocation := sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewArtifactLocation().WithUri(violation.Location.File))

		if violation.Location.Line > 0 {
			physicalLocation = physicalLocation.WithRegion(sarif.NewRegion().WithStartLine(violation.Location.Line))
		}

		result := sarif.NewRuleResult(violation.Rule).
			WithMessage(sarif.NewTextMessage(violation.Details)).
			WithLevel(toSarifLevel(violation.Severity)).
			WithLocations([]*sarif.Location{sarif.NewLocation().WithPhysicalLocation(physicalLocation)})

		run.AddResult(result)
	}

	document.AddRun(run)

	return document, nil
}

func toSarifLevel(severity Severity) string {
	switch severity {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}
