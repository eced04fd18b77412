//nolint:wrapcheck
package compliance

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Reporter formats and publishes compliance reports.
type Reporter interface {
	// Publish formats and publishes a report to any appropriate target
	Publish(ctx context.Context, out io.Writer, report Report) error
}

var _ Reporter = (*CompactReporter)(nil)

// CompactReporter reports violations in a compact table.
type CompactReporter struct {
}

// Publish prints a compact report to the configured output.
func (reporter CompactReporter) Publish(_ context.Context, out io.Writer, r Report) error {
	summary := fmt.Sprintf("%d %s checked, %d %s found.",
		r.Summary.FilesScanned, pluralizeWord("file", r.Summary.FilesScanned),
		len(r.Violations), pluralizeWord("violation", len(r.Violations)))

	if len(r.Violations) == 0 {
		_, err := fmt.Fprintln(out, summary)

		return err
	}

	buffer := &strings.Builder{}
	table := tablewriter.NewWriter(buffer)

	table.SetHeader([]string{"Location", "Severity", "Rule", "Details"})
	table.SetAutoFormatHeaders(false)
	table.SetColWidth(80)
	table.SetAutoWrapText(true)

	for _, violation := range orderedViolations(r) {
		table.Append([]string{violation.Location.String(), string(violation.Severity), violation.Rule, violation.Details})
	}

	table.Render()

	_, err := fmt.Fprintln(out, buffer.String()+summary)

	return err
}

var _ Reporter = (*PrettyReporter)(nil)

// PrettyReporter lists passed checks, then errors and warnings as tables.
type PrettyReporter struct {
	// HidePassed omits the list of passed checks.
	HidePassed bool
}

// Publish prints a pretty report to the configured output.
func (reporter PrettyReporter) Publish(_ context.Context, out io.Writer, r Report) error {
	buffer := &strings.Builder{}

	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	for _, skipped := range r.Skipped {
		fmt.Fprintln(buffer, yellow("⚠ ")+"File not found: "+skipped.File)
	}

	if !reporter.HidePassed && len(r.Passed) != 0 {
		if len(r.Skipped) != 0 {
			buffer.WriteString("\n")
		}

		for _, pass := range r.Passed {
			fmt.Fprintf(buffer, "%s%s (%s)\n", green("✓ "), pass.Message, pass.Location.File)
		}
	}

	if len(r.Violations) != 0 {
		if buffer.Len() != 0 {
			buffer.WriteString("\n")
		}

		buffer.WriteString(buildPrettyViolationsTable(orderedViolations(r)))
	}

	if buffer.Len() != 0 {
		buffer.WriteString("\n")
	}

	buffer.WriteString(prettyFooter(r))

	_, err := fmt.Fprint(out, buffer.String()+"\n")
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

func prettyFooter(r Report) string {
	footer := fmt.Sprintf("%d %s checked, %d %s passed.",
		r.Summary.FilesScanned, pluralizeWord("file", r.Summary.FilesScanned),
		r.Summary.NumPassed, pluralizeWord("check", r.Summary.NumPassed))

	numViolations := r.Summary.NumErrors + r.Summary.NumWarnings

	if numViolations == 0 {
		footer += " No problems found."
	} else {
		footer += fmt.Sprintf(" %d %s (%d %s, %d %s) found",
			numViolations, pluralizeWord("problem", numViolations),
			r.Summary.NumErrors, pluralizeWord("error", r.Summary.NumErrors),
			r.Summary.NumWarnings, pluralizeWord("warning", r.Summary.NumWarnings),
		)

		if r.Summary.FilesScanned > 1 && r.Summary.FilesFailed > 0 {
			footer += fmt.Sprintf(" in %d %s.", r.Summary.FilesFailed, pluralizeWord("file", r.Summary.FilesFailed))
		} else {
			footer += "."
		}
	}

	if r.Summary.RulesSkipped > 0 {
		footer += fmt.Sprintf(" %d %s skipped.", r.Summary.RulesSkipped, pluralizeWord("rule", r.Summary.RulesSkipped))
	}

	return footer
}

func buildPrettyViolationsTable(violations []Violation) string {
	buffer := &strings.Builder{}
	table := tablewriter.NewWriter(buffer)

	table.SetNoWhiteSpace(true)
	table.SetTablePadding("\t")
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	numViolations := len(violations)

	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for i, violation := range violations {
		details := red(violation.Details)
		if violation.Severity == SeverityWarning {
			details = yellow(violation.Details)
		}

		table.Append([]string{yellow("Rule:"), violation.Rule})

		// without colors, the severity would otherwise be lost
		if color.NoColor {
			table.Append([]string{"Severity:", string(violation.Severity)})
		}

		table.Append([]string{yellow("Details:"), details})
		table.Append([]string{yellow("Description:"), violation.Description})
		table.Append([]string{yellow("Location:"), cyan(violation.Location.String())})

		if i+1 < numViolations {
			table.Append([]string{""})
		}
	}

	table.Render()

	return buffer.String()
}

// orderedViolations lists errors first, then warnings.
func orderedViolations(r Report) []Violation {
	return append(r.Errors(), r.Warnings()...)
}

func pluralizeWord(singular string, count int) string {
	if count == 1 {
		return singular
	}

	return singular + "s"
}
