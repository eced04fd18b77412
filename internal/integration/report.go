package integration

// Outcome is the result of a single probe.
type Outcome struct {
	// Number is the 1-based position of the probe.
	Number  int    `json:"number"`
	Kind    Kind   `json:"kind"`
	Probe   string `json:"probe"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

type Report struct {
	Outcomes []Outcome `json:"outcomes"`
	Passed   int       `json:"passed"`
	Failed   int       `json:"failed"`
}

func (report *Report) add(outcome Outcome) {
	report.Outcomes = append(report.Outcomes, outcome)

	if outcome.Passed {
		report.Passed++
	} else {
		report.Failed++
	}
}

// ExitCode returns 0 when every probe passed, 1 otherwise.
func (report Report) ExitCode() int {
	if report.Failed == 0 {
		return 0
	}

	return 1
}
