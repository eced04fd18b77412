package compliance_test

import (
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/tidal-dl-ng/agentcheck/cmd/compliance"
	cmdconfig "github.com/tidal-dl-ng/agentcheck/cmd/config"
	"github.com/tidal-dl-ng/agentcheck/internal/config"
	"github.com/tidal-dl-ng/agentcheck/internal/testutils"
)

func isolateConfig(t *testing.T) {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// make sure the xdg library uses the new-fake env var we just set
	xdg.Reload()
}

func withProjectConfig(files map[string]string, cfg string) map[string]string {
	files[config.ProjectConfigFileName] = cfg

	return files
}

func Test_CheckCommand_integratedProject(t *testing.T) {
	isolateConfig(t)
	root := testutils.WriteProject(t, testutils.IntegratedProject())

	testCase := testutils.CommandTestCase{
		Cmd:     compliance.Command(&cmdconfig.Options{}),
		Command: []string{"check", "--root", root},
		Assertions: []testutils.CommandAssertion{
			testutils.CommandSuccess(),
			testutils.CommandExitCode(0),
			testutils.CommandOutputContains("✓ No deprecated typing imports"),
			testutils.CommandOutputContains("3 files checked"),
			testutils.CommandOutputContains("Few docstrings found"),
		},
	}

	testCase.Run(t)
}

func Test_CheckCommand_bareExcept(t *testing.T) {
	isolateConfig(t)
	file := testutils.CreateTempFile(t, "try:\n    pass\nexcept:\n    pass\n")

	testCase := testutils.CommandTestCase{
		Cmd:     compliance.Command(&cmdconfig.Options{}),
		Command: []string{"check", "--root", filepath.Dir(file), file},
		Assertions: []testutils.CommandAssertion{
			testutils.CommandExitCode(1),
			testutils.CommandOutputContains("errors/bare-except"),
			testutils.CommandOutputContains("1 file checked"),
		},
	}

	testCase.Run(t)
}

func Test_CheckCommand_outputFormats(t *testing.T) {
	isolateConfig(t)
	root := testutils.WriteProject(t, testutils.IntegratedProject())

	tests := []struct {
		format string
		want   string
	}{
		{format: "json", want: `"num_errors": 0`},
		{format: "yaml", want: "num_errors: 0"},
		{format: "sarif", want: `"version": "2.1.0"`},
		{format: "compact", want: "3 files checked, 2 violations found."},
	}

	for _, tc := range tests {
		t.Run(tc.format, func(t *testing.T) {
			testCase := testutils.CommandTestCase{
				Cmd:     compliance.Command(&cmdconfig.Options{}),
				Command: []string{"check", "--root", root, "-o", tc.format},
				Assertions: []testutils.CommandAssertion{
					testutils.CommandSuccess(),
					testutils.CommandOutputContains(tc.want),
				},
			}

			testCase.Run(t)
		})
	}
}

func Test_CheckCommand_hidePassed(t *testing.T) {
	isolateConfig(t)
	root := testutils.WriteProject(t, testutils.IntegratedProject())

	testCase := testutils.CommandTestCase{
		Cmd:     compliance.Command(&cmdconfig.Options{}),
		Command: []string{"check", "--root", root, "--hide-passed"},
		Assertions: []testutils.CommandAssertion{
			testutils.CommandSuccess(),
			testutils.CommandOutputNotContains("✓"),
		},
	}

	testCase.Run(t)
}

func Test_CheckCommand_missingFiles(t *testing.T) {
	isolateConfig(t)

	testCase := testutils.CommandTestCase{
		Cmd:     compliance.Command(&cmdconfig.Options{}),
		Command: []string{"check", "--root", t.TempDir()},
		Assertions: []testutils.CommandAssertion{
			testutils.CommandSuccess(),
			testutils.CommandOutputContains("File not found"),
			testutils.CommandOutputContains("0 files checked"),
		},
	}

	testCase.Run(t)
}

func Test_CheckCommand_projectConfig(t *testing.T) {
	isolateConfig(t)
	root := testutils.WriteProject(t, withProjectConfig(
		map[string]string{"broken.py": "except:\n"},
		`compliance:
  files:
    - broken.py
  disabled-rules:
    - errors/bare-except
    - typing/return-hints
`,
	))

	testCase := testutils.CommandTestCase{
		Cmd:     compliance.Command(&cmdconfig.Options{}),
		Command: []string{"check", "--root", root},
		Assertions: []testutils.CommandAssertion{
			testutils.CommandSuccess(),
			testutils.CommandOutputContains("2 rules skipped."),
		},
	}

	testCase.Run(t)
}

func Test_CheckCommand_invalidConfig(t *testing.T) {
	isolateConfig(t)
	root := testutils.WriteProject(t, withProjectConfig(map[string]string{}, `compliance:
  disabled-rules:
    - style/nope
`))

	testCase := testutils.CommandTestCase{
		Cmd:     compliance.Command(&cmdconfig.Options{}),
		Command: []string{"check", "--root", root},
		Assertions: []testutils.CommandAssertion{
			testutils.CommandErrorContains("unknown rule 'style/nope'"),
		},
	}

	testCase.Run(t)
}

func Test_CheckCommand_requiredVersion(t *testing.T) {
	isolateConfig(t)
	root := testutils.WriteProject(t, withProjectConfig(map[string]string{}, "requires: '>= 2.0'\n"))

	testCase := testutils.CommandTestCase{
		Cmd:     compliance.Command(&cmdconfig.Options{Version: "1.4.0"}),
		Command: []string{"check", "--root", root},
		Assertions: []testutils.CommandAssertion{
			testutils.CommandErrorContains("agentcheck 1.4.0 does not satisfy '>= 2.0'"),
		},
	}

	testCase.Run(t)
}

func Test_CheckCommand_invalidFlags(t *testing.T) {
	isolateConfig(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "concurrency", args: []string{"--max-concurrent", "0"}, wantErr: "max-concurrent must be greater than zero"},
		{name: "format", args: []string{"-o", "html"}, wantErr: "unknown output format 'html'"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			testCase := testutils.CommandTestCase{
				Cmd:     compliance.Command(&cmdconfig.Options{}),
				Command: append([]string{"check", "--root", t.TempDir()}, tc.args...),
				Assertions: []testutils.CommandAssertion{
					testutils.CommandErrorContains(tc.wantErr),
				},
			}

			testCase.Run(t)
		})
	}
}

func Test_RulesCommand(t *testing.T) {
	isolateConfig(t)
	root := testutils.WriteProject(t, withProjectConfig(map[string]string{}, `compliance:
  disabled-rules:
    - docs/docstrings
`))

	testCase := testutils.CommandTestCase{
		Cmd:     compliance.Command(&cmdconfig.Options{}),
		Command: []string{"rules", "--root", root},
		Assertions: []testutils.CommandAssertion{
			testutils.CommandSuccess(),
			testutils.CommandOutputContains("RULE"),
			testutils.CommandOutputContains("errors/bare-except"),
		},
	}

	testCase.Run(t)
}

func Test_RulesCommand_yaml(t *testing.T) {
	isolateConfig(t)
	root := testutils.WriteProject(t, withProjectConfig(map[string]string{}, `compliance:
  disabled-rules:
    - docs/docstrings
`))

	testCase := testutils.CommandTestCase{
		Cmd:     compliance.Command(&cmdconfig.Options{}),
		Command: []string{"rules", "--root", root, "-o", "yaml"},
		Assertions: []testutils.CommandAssertion{
			testutils.CommandSuccess(),
			testutils.CommandOutputContains("- id: io/readable"),
			testutils.CommandOutputContains("id: docs/docstrings\n  severity: warning\n  enabled: false"),
		},
	}

	testCase.Run(t)
}
