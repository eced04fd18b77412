package compliance

import (
	"strconv"
)

// Severity classifies the outcome of a check.
type Severity string

const (
	// SeverityPass is informational: the check found nothing wrong.
	SeverityPass Severity = "pass"
	// SeverityWarning is a style deviation that does not fail the run.
	SeverityWarning Severity = "warning"
	// SeverityError is a contract violation: the run fails.
	SeverityError Severity = "error"
)

// Level returns the numeric level of the severity: 0 for passes, 1 for warnings, 2 for errors.
func (severity Severity) Level() int {
	switch severity {
	case SeverityWarning:
		return 1
	case SeverityError:
		return 2
	default:
		return 0
	}
}

type Report struct {
	Passed     []Pass      `json:"passed"`
	Violations []Violation `json:"violations"`
	Skipped    []Location  `json:"skipped,omitempty"`
	Summary    Summary     `json:"summary"`
}

// Errors returns the error-severity violations, in detection order.
func (report Report) Errors() []Violation {
	return report.violationsWithSeverity(SeverityError)
}

// Warnings returns the warning-severity violations, in detection order.
func (report Report) Warnings() []Violation {
	return report.violationsWithSeverity(SeverityWarning)
}

func (report Report) violationsWithSeverity(severity Severity) []Violation {
	var violations []Violation

	for _, violation := range report.Violations {
		if violation.Severity == severity {
			violations = append(violations, violation)
		}
	}

	return violations
}

// ViolationsFileCount returns the number of violations per file (for files containing violations).
func (report Report) ViolationsFileCount() map[string]int {
	violationsMap := map[string]int{}
	for _, violation := range report.Violations {
		violationsMap[violation.Location.File]++
	}

	return violationsMap
}

// ExitCode returns 0 when no error-severity violation was found, 1 otherwise.
func (report Report) ExitCode() int {
	if report.Summary.NumErrors == 0 {
		return 0
	}

	return 1
}

func (report *Report) summarize(filesScanned int, rulesSkipped int) {
	report.Summary = Summary{
		FilesScanned: filesScanned,
		FilesSkipped: len(report.Skipped),
		FilesFailed:  len(report.ViolationsFileCount()),
		RulesSkipped: rulesSkipped,
		NumPassed:    len(report.Passed),
		NumWarnings:  len(report.Warnings()),
		NumErrors:    len(report.Errors()),
	}
}

// Violation describes a warning or an error found by a check.
type Violation struct {
	Rule        string   `json:"rule"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Location    Location `json:"location"`
	Details     string   `json:"details,omitempty"`
}

// Pass describes a check that found nothing wrong.
type Pass struct {
	Rule     string   `json:"rule"`
	Location Location `json:"location"`
	Message  string   `json:"message"`
}

type Location struct {
	File string `json:"file"`
	Line int    `json:"line,omitempty"`
}

func (l Location) String() string {
	if l.Line == 0 {
		return l.File
	}

	return l.File + ":" + strconv.Itoa(l.Line)
}

type Summary struct {
	FilesScanned int `json:"files_scanned"`
	FilesSkipped int `json:"files_skipped"`
	FilesFailed  int `json:"files_failed"`
	RulesSkipped int `json:"rules_skipped"`
	NumPassed    int `json:"num_passed"`
	NumWarnings  int `json:"num_warnings"`
	NumErrors    int `json:"num_errors"`
}
