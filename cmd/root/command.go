package root

import (
	"log/slog"
	"os"
	"path"

	"github.com/fatih/color"
	"github.com/grafana/grafana-app-sdk/logging"
	"github.com/spf13/cobra"
	"github.com/tidal-dl-ng/agentcheck/cmd/compliance"
	"github.com/tidal-dl-ng/agentcheck/cmd/config"
	"github.com/tidal-dl-ng/agentcheck/cmd/verify"
	"github.com/tidal-dl-ng/agentcheck/internal/logs"
)

func Command(version string) *cobra.Command {
	noColors := false
	verbosity := 0
	configOpts := &config.Options{Version: version}

	rootCmd := &cobra.Command{
		Use:           path.Base(os.Args[0]),
		Short:         "Check the tidal_dl_ng sources against the project guidelines",
		SilenceUsage:  true,
		SilenceErrors: true, // We want to print errors ourselves
		Version:       version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if noColors {
				color.NoColor = true // globally disables colorized output
			}

			handler := logs.NewHandler(cmd.ErrOrStderr(), &logs.Options{
				Level: logs.LevelFromVerbosity(verbosity),
			})
			logger := logging.NewSLogLogger(handler).With(slog.String("version", version))

			cmd.SetContext(logging.Context(cmd.Context(), logger))
		},
		Annotations: map[string]string{
			cobra.CommandDisplayNameAnnotation: "agentcheck",
		},
	}

	rootCmd.AddCommand(config.Command(configOpts))
	rootCmd.AddCommand(compliance.Command(configOpts))
	rootCmd.AddCommand(verify.Command(configOpts))

	rootCmd.PersistentFlags().BoolVar(&noColors, "no-color", noColors, "Disable color output")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Verbose mode. Multiple -v options increase the verbosity (maximum: 2)")

	return rootCmd
}
