package config

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tidal-dl-ng/agentcheck/cmd/io"
	"github.com/tidal-dl-ng/agentcheck/internal/config"
)

//nolint:gochecknoglobals
var binaryName = path.Base(os.Args[0])

type Options struct {
	ConfigFile string
	Root       string

	// Version is the version of the running binary, checked against the
	// constraint declared by the configuration.
	Version string
}

func (opts *Options) BindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&opts.ConfigFile, "config", "", "Path to the configuration file to use")
	flags.StringVar(&opts.Root, "root", "", "Root directory of the project to check")

	_ = cobra.MarkFlagFilename(flags, "config", "yaml", "yml")
	_ = cobra.MarkFlagDirname(flags, "root")
}

// loadConfigTolerant loads the configuration file (default, or explicitly set via flags)
// and returns it without validation.
// This function should only be used by config-related commands, to allow the
// user to iterate on the configuration until it becomes valid.
func (opts *Options) loadConfigTolerant(ctx context.Context, extraOverrides ...config.Override) (config.Config, error) {
	overrides := []config.Override{
		// Environment variables take precedence over the configuration file.
		func(cfg *config.Config) error {
			envOverrides := config.EnvOverrides{}

			if err := env.Parse(&envOverrides); err != nil {
				return err
			}

			envOverrides.Apply(cfg)

			return nil
		},
	}

	// The project root is being overridden by a flag
	if opts.Root != "" {
		overrides = append(overrides, func(cfg *config.Config) error {
			cfg.Root = opts.Root
			return nil
		})
	}

	return config.Load(ctx, opts.configSource(), append(overrides, extraOverrides...)...)
}

// LoadConfig loads the configuration file (default, or explicitly set via flags)
// and validates it.
func (opts *Options) LoadConfig(ctx context.Context) (config.Config, error) {
	validator := func(cfg *config.Config) error {
		if err := cfg.CheckVersion(opts.Version); err != nil {
			return err
		}

		return cfg.Validate()
	}

	return opts.loadConfigTolerant(ctx, validator)
}

func (opts *Options) configSource() config.Source {
	if opts.ConfigFile != "" {
		return config.ExplicitConfigFile(opts.ConfigFile)
	}

	projectDir := opts.Root
	if projectDir == "" {
		projectDir = "."
	}

	return config.ProjectOrStandardLocation(projectDir)
}

func Command(configOpts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View configuration settings",
		Long: fmt.Sprintf(`View configuration settings.

The configuration file to load is chosen as follows:

1. If the --config flag is set, then that file will be loaded. No other location will be considered.
2. If the project directory (--root, or the current directory) contains a %[3]s file, then it will be used.
3. If the $XDG_CONFIG_HOME environment variable is set, then it will be used: $XDG_CONFIG_HOME/%[1]s/%[2]s
   Example: /home/user/.config/%[1]s/%[2]s
4. If the $HOME environment variable is set, then it will be used: $HOME/.config/%[1]s/%[2]s
   Example: /home/user/.config/%[1]s/%[2]s
5. If the $XDG_CONFIG_DIRS environment variable is set, then it will be used: $XDG_CONFIG_DIRS/%[1]s/%[2]s
   Example: /etc/xdg/%[1]s/%[2]s

The following environment variables override values from the configuration file:

  AGENTCHECK_ROOT            root directory of the project
  AGENTCHECK_MAX_CONCURRENT  maximum number of files checked concurrently
`, config.StandardConfigFolder, config.StandardConfigFileName, config.ProjectConfigFileName),
	}

	configOpts.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(pathCmd(configOpts))
	cmd.AddCommand(viewCmd(configOpts))

	return cmd
}

type viewOpts struct {
	IO io.Options
}

func (opts *viewOpts) BindFlags(flags *pflag.FlagSet) {
	opts.IO.BindFlags(flags)
}

func (opts *viewOpts) Validate() error {
	return opts.IO.Validate()
}

func viewCmd(configOpts *Options) *cobra.Command {
	opts := &viewOpts{}

	cmd := &cobra.Command{
		Use:     "view",
		Args:    cobra.NoArgs,
		Short:   "Display the current configuration",
		Example: "\n\t" + binaryName + " config view",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}

			cfg, err := configOpts.loadConfigTolerant(cmd.Context())
			if err != nil {
				return err
			}

			return opts.IO.Codec().Encode(cmd.OutOrStdout(), cfg)
		},
	}

	opts.BindFlags(cmd.Flags())

	return cmd
}

func pathCmd(configOpts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "path",
		Args:    cobra.NoArgs,
		Short:   "Display the path of the configuration file in use",
		Example: "\n\t" + binaryName + " config path",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configOpts.loadConfigTolerant(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cfg.Source)

			return err
		},
	}

	return cmd
}
