package fail

import (
	"errors"
	"strings"

	"github.com/fatih/color"
)

// DetailedError is an error meant to be displayed to end users.
// It carries a summary, optional details, suggestions to fix the problem and
// the exit code the process should terminate with.
type DetailedError struct {
	// Parent is the underlying error, if any.
	Parent error

	// Summary is a one-line description of the problem.
	Summary string

	// Details gives more context on the problem. Optional.
	Details string

	// Suggestions are hints displayed to the user on how to fix the problem.
	Suggestions []string

	// ExitCode overrides the default exit code (1) of the process.
	ExitCode *int

	// Silent indicates that the failure was already reported to the user
	// (ie: a report was printed) and that only the exit code matters.
	Silent bool
}

func (e DetailedError) Error() string {
	if e.Silent {
		return ""
	}

	buffer := strings.Builder{}

	buffer.WriteString(color.RedString("Error: "))
	buffer.WriteString(e.Summary)

	if e.Details != "" {
		buffer.WriteString("\n")
		buffer.WriteString(color.RedString("│\n"))
		buffer.WriteString(color.RedString("├─ "))
		buffer.WriteString(strings.ReplaceAll(e.Details, "\n", "\n"+color.RedString("│  ")))
	}

	if e.Parent != nil {
		buffer.WriteString("\n")
		buffer.WriteString(color.RedString("│\n"))
		buffer.WriteString(color.RedString("├─ "))
		buffer.WriteString(e.Parent.Error())
	}

	if len(e.Suggestions) != 0 {
		buffer.WriteString("\n")
		buffer.WriteString(color.RedString("│\n"))
		buffer.WriteString(color.YellowString("└─ Suggestions:\n"))

		for _, suggestion := range e.Suggestions {
			buffer.WriteString("\n   • ")
			buffer.WriteString(suggestion)
		}
	}

	return buffer.String()
}

func (e DetailedError) Unwrap() error {
	return e.Parent
}

// Exit returns a silent error that only carries an exit code.
// It is used by commands that already reported their outcome.
func Exit(code int) DetailedError {
	return DetailedError{
		ExitCode: &code,
		Silent:   true,
	}
}

// ExitCodeOf returns the exit code carried by err, defaulting to 1.
// A nil error has an exit code of 0.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}

	detailedErr := DetailedError{}
	if errors.As(err, &detailedErr) && detailedErr.ExitCode != nil {
		return *detailedErr.ExitCode
	}

	return 1
}
