package compliance_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/tidal-dl-ng/agentcheck/internal/compliance"
	"github.com/tidal-dl-ng/agentcheck/internal/testutils"
)

func checkSources(t *testing.T, sources map[string]string, opts ...compliance.Option) compliance.Report {
	t.Helper()

	root := testutils.WriteProject(t, sources)

	files := make([]string, 0, len(sources))
	for file := range sources {
		files = append(files, file)
	}

	checker, err := compliance.New(append([]compliance.Option{compliance.Root(root), compliance.Files(files)}, opts...)...)
	require.NoError(t, err)

	report, err := checker.Check(testutils.Context())
	require.NoError(t, err)

	return report
}

func checkSource(t *testing.T, source string, opts ...compliance.Option) compliance.Report {
	t.Helper()

	return checkSources(t, map[string]string{"module.py": source}, opts...)
}

func violationsFor(report compliance.Report, rule string) []compliance.Violation {
	var violations []compliance.Violation

	for _, violation := range report.Violations {
		if violation.Rule == rule {
			violations = append(violations, violation)
		}
	}

	return violations
}

func passesFor(report compliance.Report, rule string) []string {
	var messages []string

	for _, pass := range report.Passed {
		if pass.Rule == rule {
			messages = append(messages, pass.Message)
		}
	}

	return messages
}

func TestCheck_compliantModule(t *testing.T) {
	req := require.New(t)

	report := checkSource(t, testutils.CompliantModule)

	req.Empty(report.Violations)
	req.Len(report.Passed, testutils.CompliantModulePasses)
	req.Equal(0, report.ExitCode())
	req.Equal(1, report.Summary.FilesScanned)
	req.Equal(0, report.Summary.FilesFailed)
}

func TestCheck_bareExcept(t *testing.T) {
	req := require.New(t)

	report := checkSource(t, "except:\n")

	violations := violationsFor(report, "errors/bare-except")
	req.Len(violations, 1)
	req.Equal(compliance.SeverityError, violations[0].Severity)
	req.Equal(1, violations[0].Location.Line)
	req.Equal(1, report.ExitCode())
}

func TestCheck_bareExcept_onlyOneErrorPerFile(t *testing.T) {
	source := `try:
    pass
except:
    pass

try:
    pass
except :
    pass
`
	violations := violationsFor(checkSource(t, source), "errors/bare-except")

	require.Len(t, violations, 1)
	require.Equal(t, 3, violations[0].Location.Line)
}

func TestCheck_bareExcept_withOtherwiseCleanFiles(t *testing.T) {
	req := require.New(t)

	report := checkSources(t, map[string]string{
		"clean.py":  testutils.CompliantModule,
		"broken.py": "except:\n",
	})

	req.Len(violationsFor(report, "errors/bare-except"), 1)
	req.Equal(1, report.ExitCode())
	req.Equal(2, report.Summary.FilesScanned)
	req.Equal(1, report.Summary.FilesFailed)
}

func TestCheck_deprecatedTyping(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		wantDetails string
	}{
		{
			name:        "optional",
			source:      "from typing import Optional\n",
			wantDetails: "Deprecated: 'from typing import Optional' (use built-in)",
		},
		{
			name:        "first match in fixed order wins",
			source:      "from typing import Union, Optional, List\n",
			wantDetails: "Deprecated: 'from typing import List' (use built-in)",
		},
		{
			name:        "several statements",
			source:      "from typing import Any\nfrom typing import Dict\nfrom typing import Tuple\n",
			wantDetails: "Deprecated: 'from typing import Dict' (use built-in)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			report := checkSource(t, tc.source)

			violations := violationsFor(report, "typing/deprecated-imports")
			require.Len(t, violations, 1)
			require.Equal(t, compliance.SeverityError, violations[0].Severity)
			require.True(t, strings.HasPrefix(violations[0].Details, "Syntax error: "))
			if tc.wantDetails != "" {
				require.Equal(t, tc.wantDetails, violations[0].Details)
			}
			require.Empty(t, passesFor(report, "typing/deprecated-imports"))
		})
	}
}

func TestCheck_deprecatedTyping_wordBoundaries(t *testing.T) {
	report := checkSource(t, "from typing import OptionalType, Listing\n")

	require.Empty(t, violationsFor(report, "typing/deprecated-imports"))
	require.Equal(t, []string{"No deprecated typing imports"}, passesFor(report, "typing/deprecated-imports"))
}

func TestCheck_docstrings(t *testing.T) {
	docstrings := func(count int) string {
		return strings.Repeat(`"""Doc."""`+"\n", count)
	}

	t.Run("more than five", func(t *testing.T) {
		report := checkSource(t, docstrings(6))

		require.Empty(t, violationsFor(report, "docs/docstrings"))
		require.Equal(t, []string{"Comprehensive docstrings - 6 found"}, passesFor(report, "docs/docstrings"))
	})

	t.Run("five", func(t *testing.T) {
		report := checkSource(t, docstrings(5))

		violations := violationsFor(report, "docs/docstrings")
		require.Len(t, violations, 1)
		require.Equal(t, compliance.SeverityWarning, violations[0].Severity)
		require.Equal(t, "Few docstrings found (5)", violations[0].Details)
		require.Equal(t, 0, report.ExitCode())
	})

	t.Run("custom threshold", func(t *testing.T) {
		report := checkSource(t, docstrings(2), compliance.MinDocstrings(1))

		require.Empty(t, violationsFor(report, "docs/docstrings"))
	})
}

func TestCheck_lineLength(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		wantDetails string
		wantLine    int
	}{
		{
			name:   "exactly the limit",
			source: "x = '" + strings.Repeat("a", 114) + "'\n",
		},
		{
			name:   "long comment",
			source: "    # " + strings.Repeat("a", 200) + "\n",
		},
		{
			name:   "multi-byte characters are counted once",
			source: "x = '" + strings.Repeat("é", 114) + "'\n",
		},
		{
			name:        "one long line",
			source:      "x = 1\ny = '" + strings.Repeat("a", 120) + "'\n",
			wantDetails: "1 lines exceed 120 characters",
			wantLine:    2,
		},
		{
			name:        "several long lines",
			source:      strings.Repeat("y = '"+strings.Repeat("a", 120)+"'\n", 3),
			wantDetails: "3 lines exceed 120 characters",
			wantLine:    1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			violations := violationsFor(checkSource(t, tc.source), "style/line-length")

			if tc.wantDetails == "" {
				require.Empty(t, violations)
				return
			}

			require.Len(t, violations, 1)
			require.Equal(t, compliance.SeverityWarning, violations[0].Severity)
			require.Equal(t, tc.wantDetails, violations[0].Details)
			require.Equal(t, tc.wantLine, violations[0].Location.Line)
		})
	}
}

func TestCheck_importOrder(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		wantPass   string
		wantIssues int
	}{
		{
			name:     "ordered",
			source:   "import threading\nfrom PySide6 import QtCore\nfrom tidal_dl_ng import helper\n",
			wantPass: "Imports properly ordered (isort)",
		},
		{
			name:       "third-party first",
			source:     "import requests\nimport threading\nfrom tidal_dl_ng import helper\n",
			wantIssues: 1,
		},
		{
			name:     "missing first-party section",
			source:   "import requests\nimport threading\n",
			wantPass: "Import order OK",
		},
		{
			name:     "imports after the first statement are ignored",
			source:   "import threading\n\nX = 1\nimport requests\nfrom tidal_dl_ng import helper\n",
			wantPass: "Import order OK",
		},
		{
			name:   "no imports",
			source: "X = 1\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			report := checkSource(t, tc.source)

			require.Len(t, violationsFor(report, "style/import-order"), tc.wantIssues)

			if tc.wantPass == "" {
				require.Empty(t, passesFor(report, "style/import-order"))
			} else {
				require.Equal(t, []string{tc.wantPass}, passesFor(report, "style/import-order"))
			}
		})
	}
}

func TestCheck_importOrder_customMarkers(t *testing.T) {
	report := checkSource(t,
		"import yaml\nimport os\nfrom myapp import core\n",
		compliance.WithImportMarkers(compliance.ImportMarkers{
			Stdlib:     []string{"import os"},
			ThirdParty: []string{"import yaml"},
			FirstParty: []string{"from myapp"},
		}),
	)

	require.Len(t, violationsFor(report, "style/import-order"), 1)
}

func TestCheck_returnHints(t *testing.T) {
	source := `class Thing:
    @property
    def name(self):
        return "thing"

    @name.setter
    def name(self, value):
        pass

    def _private(self):
        pass

    async def fetch(self):
        pass


def test_something():
    pass


def typed() -> int:
    return 1
`
	report := checkSource(t, source)

	require.Empty(t, violationsFor(report, "typing/return-hints"))
	require.Equal(t, []string{"Most functions typed - 2 without return hints"}, passesFor(report, "typing/return-hints"))
}

func TestCheck_syntaxError(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		wantDetails string
	}{
		{
			name:   "unclosed parameters",
			source: "def broken(:\n    pass\n",
		},
		{
			name:        "print statement",
			source:      "def greet() -> None:\n    print \"hello\"\n",
			wantDetails: "Syntax error: Missing parentheses in call to 'print' (line 2)",
		},
		{
			name:        "comma in except clause",
			source:      "try:\n    pass\nexcept Exception, e:\n    pass\n",
			wantDetails: "Syntax error: multiple exception types must be parenthesized (line 3)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			report := checkSource(t, tc.source)

			violations := violationsFor(report, "typing/return-hints")
			require.Len(t, violations, 1)
			require.Equal(t, compliance.SeverityError, violations[0].Severity)
			require.True(t, strings.HasPrefix(violations[0].Details, "Syntax error: "))
			if tc.wantDetails != "" {
				require.Equal(t, tc.wantDetails, violations[0].Details)
			}
			require.Empty(t, passesFor(report, "typing/return-hints"))
			require.Equal(t, 1, report.ExitCode())
		})
	}
}

func TestCheck_informationalRules(t *testing.T) {
	report := checkSource(t, "X = 1\n")

	for _, rule := range []string{
		"typing/union-operator",
		"naming/pascal-case-classes",
		"naming/snake-case-functions",
		"concurrency/thread-safety",
		"logging/project-logger",
	} {
		require.Empty(t, passesFor(report, rule), rule)
		require.Empty(t, violationsFor(report, rule), rule)
	}

	report = checkSource(t, `from concurrent.futures import ThreadPoolExecutor
import threading


class Pool:
    def run(self, x: int | None) -> None:
        with self._lock:
            logger.info("run")
`)

	require.Len(t, passesFor(report, "concurrency/thread-safety"), 2)
	require.Len(t, passesFor(report, "typing/union-operator"), 1)
	require.Len(t, passesFor(report, "naming/pascal-case-classes"), 1)
	require.Len(t, passesFor(report, "naming/snake-case-functions"), 1)
	require.Len(t, passesFor(report, "logging/project-logger"), 1)
}

func TestCheck_missingFileIsSkipped(t *testing.T) {
	req := require.New(t)

	checker, err := compliance.New(
		compliance.Root(t.TempDir()),
		compliance.Files([]string{"does/not/exist.py"}),
	)
	req.NoError(err)

	report, err := checker.Check(testutils.Context())
	req.NoError(err)

	req.Len(report.Skipped, 1)
	req.Equal(1, report.Summary.FilesSkipped)
	req.Equal(0, report.Summary.FilesScanned)
	req.Empty(report.Passed)
	req.Equal(0, report.ExitCode())
}

func TestCheck_invalidUTF8(t *testing.T) {
	report := checkSource(t, "x = '\xff\xfe'\n")

	violations := violationsFor(report, "io/readable")
	require.Len(t, violations, 1)
	require.Empty(t, report.Passed)
	require.Equal(t, 1, report.ExitCode())
}

func TestCheck_disabledRules(t *testing.T) {
	req := require.New(t)

	report := checkSource(t, "except:\n", compliance.DisableRules([]string{"errors/bare-except", "typing/return-hints"}))

	req.Empty(violationsFor(report, "errors/bare-except"))
	req.Equal(2, report.Summary.RulesSkipped)
	req.Equal(0, report.ExitCode())
}

func TestNew_invalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  compliance.Option
	}{
		{name: "unknown rule", opt: compliance.DisableRules([]string{"style/nope"})},
		{name: "readable rule", opt: compliance.DisableRules([]string{"io/readable"})},
		{name: "concurrency", opt: compliance.MaxConcurrency(0)},
		{name: "line length", opt: compliance.MaxLineLength(0)},
		{name: "docstrings", opt: compliance.MinDocstrings(-1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := compliance.New(tc.opt)
			require.Error(t, err)
		})
	}
}

func TestChecker_Paths(t *testing.T) {
	checker, err := compliance.New(compliance.Root("/project"))
	require.NoError(t, err)

	require.Equal(t, []string{
		filepath.Join("/project", "tidal_dl_ng/gui/playlist_membership.py"),
		filepath.Join("/project", "tidal_dl_ng/ui/dialog_playlist_manager.py"),
		filepath.Join("/project", "tests/test_playlist_manager.py"),
	}, checker.Paths())
}

func TestCheck_isIdempotentAndOrdered(t *testing.T) {
	req := require.New(t)

	root := testutils.WriteProject(t, testutils.IntegratedProject())
	files := []string{
		"tidal_dl_ng/gui/playlist_membership.py",
		"tidal_dl_ng/gui/main_window.py",
		"tidal_dl_ng/ui/dialog_playlist_manager.py",
		"tests/test_playlist_manager.py",
		"missing.py",
	}

	run := func(concurrency int) compliance.Report {
		checker, err := compliance.New(compliance.Root(root), compliance.Files(files), compliance.MaxConcurrency(concurrency))
		req.NoError(err)

		report, err := checker.Check(testutils.Context())
		req.NoError(err)

		return report
	}

	first := run(1)
	req.Empty(cmp.Diff(first, run(1)))
	req.Empty(cmp.Diff(first, run(8)))

	// results follow the order of the files
	req.Equal(filepath.Join(root, files[0]), first.Passed[0].Location.File)
	req.Equal(filepath.Join(root, files[3]), first.Passed[len(first.Passed)-1].Location.File)
}

func TestRules(t *testing.T) {
	req := require.New(t)

	rules := compliance.Rules()
	req.NotEmpty(rules)
	req.Equal("io/readable", rules[0].ID())

	for _, rule := range rules {
		req.True(compliance.IsKnownRule(rule.ID()))
		req.NotEmpty(rule.Description)
	}

	req.False(compliance.IsKnownRule("nope/nope"))

	checker, err := compliance.New(compliance.DisableRules([]string{"docs/docstrings"}))
	req.NoError(err)
	req.Len(checker.Rules(), len(rules)-1)
}

func TestCheck_unreadableFile(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	root := testutils.WriteProject(t, map[string]string{"locked.py": "x = 1\n"})
	require.NoError(t, os.Chmod(filepath.Join(root, "locked.py"), 0o000))

	checker, err := compliance.New(compliance.Root(root), compliance.Files([]string{"locked.py"}))
	require.NoError(t, err)

	report, err := checker.Check(testutils.Context())
	require.NoError(t, err)
	require.Len(t, violationsFor(report, "io/readable"), 1)
}

func TestCheck_directories(t *testing.T) {
	req := require.New(t)

	root := testutils.WriteProject(t, map[string]string{
		"pkg/a.py":                   "except:\n",
		"pkg/sub/b.py":               testutils.CompliantModule,
		"pkg/README.md":              "except:\n",
		"pkg/.hidden/c.py":           "except:\n",
		"pkg/__pycache__/d.py":       "except:\n",
		"other/not_checked/never.py": "except:\n",
	})

	checker, err := compliance.New(compliance.Root(root), compliance.Files([]string{"pkg"}))
	req.NoError(err)

	report, err := checker.Check(testutils.Context())
	req.NoError(err)

	req.Equal(2, report.Summary.FilesScanned)
	req.Len(violationsFor(report, "errors/bare-except"), 1)
	req.Equal(filepath.Join(root, "pkg/a.py"), violationsFor(report, "errors/bare-except")[0].Location.File)
}
