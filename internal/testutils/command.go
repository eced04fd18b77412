package testutils

import (
	"bytes"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"github.com/tidal-dl-ng/agentcheck/internal/fail"
)

type CommandAssertion func(*testing.T, CommandResult)

func CommandSuccess() CommandAssertion {
	return func(t *testing.T, result CommandResult) {
		t.Helper()

		require.NoError(t, result.Err)
	}
}

func CommandErrorContains(message string) CommandAssertion {
	return func(t *testing.T, result CommandResult) {
		t.Helper()

		require.Error(t, result.Err)
		require.ErrorContains(t, result.Err, message)
	}
}

// CommandExitCode asserts the exit code the process would terminate with.
func CommandExitCode(expected int) CommandAssertion {
	return func(t *testing.T, result CommandResult) {
		t.Helper()

		require.Equal(t, expected, fail.ExitCodeOf(result.Err))
	}
}

func CommandOutputContains(expected string) CommandAssertion {
	return func(t *testing.T, result CommandResult) {
		t.Helper()

		require.Contains(t, result.Stdout, expected)
	}
}

func CommandOutputNotContains(unexpected string) CommandAssertion {
	return func(t *testing.T, result CommandResult) {
		t.Helper()

		require.NotContains(t, result.Stdout, unexpected)
	}
}

type CommandResult struct {
	Err    error
	Stdout string
}

type CommandTestCase struct {
	Cmd     *cobra.Command
	Command []string

	Assertions []CommandAssertion

	Stdin io.Reader
}

func (testCase CommandTestCase) Run(t *testing.T) {
	t.Helper()

	var stdin io.Reader = &bytes.Buffer{}
	if testCase.Stdin != nil {
		stdin = testCase.Stdin
	}
	stdout := &bytes.Buffer{}

	// To avoid polluting the tests output
	testCase.Cmd.SilenceErrors = true
	testCase.Cmd.SilenceUsage = true

	testCase.Cmd.SetIn(stdin)
	testCase.Cmd.SetOut(stdout)
	testCase.Cmd.SetErr(io.Discard)
	testCase.Cmd.SetArgs(testCase.Command)

	err := testCase.Cmd.ExecuteContext(Context())
	result := CommandResult{
		Err:    err,
		Stdout: stdout.String(),
	}

	for _, assertion := range testCase.Assertions {
		assertion(t, result)
	}
}
