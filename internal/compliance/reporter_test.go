package compliance_test

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"github.com/tidal-dl-ng/agentcheck/internal/compliance"
	"github.com/tidal-dl-ng/agentcheck/internal/testutils"
)

func sampleReport(t *testing.T) compliance.Report {
	t.Helper()

	return checkSources(t, map[string]string{
		"clean.py":  testutils.CompliantModule,
		"broken.py": "from typing import Optional\n\n\ndef run() -> None:\n    try:\n        pass\n    except:\n        pass\n",
	})
}

func TestPrettyReporter_Publish(t *testing.T) {
	color.NoColor = true

	req := require.New(t)
	report := sampleReport(t)
	out := &bytes.Buffer{}

	req.NoError(compliance.PrettyReporter{}.Publish(testutils.Context(), out, report))

	output := out.String()
	req.Contains(output, "✓ No deprecated typing imports (")
	req.Contains(output, "Rule:")
	req.Contains(output, "errors/bare-except")
	req.Contains(output, "Severity:")
	req.Contains(output, "Deprecated: 'from typing import Optional' (use built-in)")
	req.Contains(output, "2 files checked")
	req.Contains(output, "(2 errors, 1 warning) found in 1 file.")

	// errors come before warnings
	req.Less(bytes.Index(out.Bytes(), []byte("errors/bare-except")), bytes.Index(out.Bytes(), []byte("docs/docstrings")))
}

func TestPrettyReporter_Publish_hidePassed(t *testing.T) {
	color.NoColor = true

	out := &bytes.Buffer{}

	require.NoError(t, compliance.PrettyReporter{HidePassed: true}.Publish(testutils.Context(), out, sampleReport(t)))
	require.NotContains(t, out.String(), "✓")
}

func TestPrettyReporter_Publish_noProblems(t *testing.T) {
	color.NoColor = true

	out := &bytes.Buffer{}
	report := checkSource(t, testutils.CompliantModule)

	require.NoError(t, compliance.PrettyReporter{}.Publish(testutils.Context(), out, report))
	require.Contains(t, out.String(), "1 file checked, 12 checks passed. No problems found.")
	require.NotContains(t, out.String(), "Rule:")
}

func TestPrettyReporter_Publish_skippedFiles(t *testing.T) {
	color.NoColor = true

	out := &bytes.Buffer{}
	report := compliance.Report{
		Skipped: []compliance.Location{{File: "missing.py"}},
	}

	require.NoError(t, compliance.PrettyReporter{}.Publish(testutils.Context(), out, report))
	require.Contains(t, out.String(), "⚠ File not found: missing.py")
	require.Contains(t, out.String(), "0 files checked, 0 checks passed. No problems found.")
}

func TestCompactReporter_Publish(t *testing.T) {
	req := require.New(t)
	out := &bytes.Buffer{}

	req.NoError(compliance.CompactReporter{}.Publish(testutils.Context(), out, sampleReport(t)))

	output := out.String()
	req.Contains(output, "Location")
	req.Contains(output, "typing/deprecated-imports")
	req.Contains(output, "broken.py:7")
	req.Contains(output, "2 files checked, 3 violations found.")
	req.NotContains(output, "✓")
}

func TestCompactReporter_Publish_noViolations(t *testing.T) {
	out := &bytes.Buffer{}

	require.NoError(t, compliance.CompactReporter{}.Publish(testutils.Context(), out, compliance.Report{
		Summary: compliance.Summary{FilesScanned: 1},
	}))
	require.Equal(t, "1 file checked, 0 violations found.\n", out.String())
}
