package integration

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const separatorWidth = 70

// Reporter formats and publishes integration reports.
type Reporter interface {
	Publish(ctx context.Context, out io.Writer, report Report) error
}

var _ Reporter = (*PrettyReporter)(nil)

// PrettyReporter prints one line per probe, followed by a summary.
type PrettyReporter struct {
	// Title is printed above the probe outcomes, when set.
	Title string
}

func (reporter PrettyReporter) Publish(_ context.Context, out io.Writer, r Report) error {
	buffer := &strings.Builder{}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()
	separator := strings.Repeat("=", separatorWidth)

	if reporter.Title != "" {
		fmt.Fprintf(buffer, "%s\n\n", bold(reporter.Title))
	}

	fmt.Fprintln(buffer, separator)

	for _, outcome := range r.Outcomes {
		mark := green("✓")
		if !outcome.Passed {
			mark = red("✗")
		}

		fmt.Fprintf(buffer, "%s Check %d: %s\n", mark, outcome.Number, outcome.Message)
	}

	fmt.Fprintf(buffer, "\n%s\n\n", separator)
	fmt.Fprintf(buffer, "Result: %s / %s\n\n", green(fmt.Sprintf("%d passed", r.Passed)), red(fmt.Sprintf("%d failed", r.Failed)))

	if r.Failed == 0 {
		fmt.Fprintln(buffer, green("Integration complete: all checks passed!"))
	} else {
		problems := "problems"
		if r.Failed == 1 {
			problems = "problem"
		}

		fmt.Fprintln(buffer, red(fmt.Sprintf("%d %s detected", r.Failed, problems)))
	}

	if _, err := io.WriteString(out, buffer.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
