package compliance

import (
	"os"
	"path"

	"github.com/spf13/cobra"
	cmdconfig "github.com/tidal-dl-ng/agentcheck/cmd/config"
)

//nolint:gochecknoglobals
var binaryName = path.Base(os.Args[0])

func Command(configOpts *cmdconfig.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compliance",
		Short: "Check Python sources against the project guidelines",
		Long: `Check Python sources against the project guidelines.

Each file is checked for deprecated typing imports, bare except clauses,
syntax errors, missing return type hints, docstrings, line length and import
order. Errors fail the check, warnings are reported without failing it.`,
	}

	configOpts.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(checkCmd(configOpts))
	cmd.AddCommand(rulesCmd(configOpts))

	return cmd
}
