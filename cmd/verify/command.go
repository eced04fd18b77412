package verify

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	cmdconfig "github.com/tidal-dl-ng/agentcheck/cmd/config"
	cmdio "github.com/tidal-dl-ng/agentcheck/cmd/io"
	"github.com/tidal-dl-ng/agentcheck/internal/config"
	"github.com/tidal-dl-ng/agentcheck/internal/fail"
	"github.com/tidal-dl-ng/agentcheck/internal/integration"
)

//nolint:gochecknoglobals
var binaryName = path.Base(os.Args[0])

const reportTitle = "Verifying the playlist membership integration"

type verifyOpts struct {
	IO cmdio.Options
}

func (opts *verifyOpts) setup(flags *pflag.FlagSet) {
	opts.IO.RegisterCustomCodec("pretty", &reporterCodec{reporter: integration.PrettyReporter{Title: reportTitle}})
	opts.IO.DefaultFormat("pretty")

	opts.IO.BindFlags(flags)
}

func (opts *verifyOpts) validate() error {
	return opts.IO.Validate()
}

func Command(configOpts *cmdconfig.Options) *cobra.Command {
	opts := &verifyOpts{}

	cmd := &cobra.Command{
		Use:   "verify",
		Args:  cobra.NoArgs,
		Short: "Verify that the playlist membership feature is integrated",
		Long: `Verify that the playlist membership feature is integrated.

Each probe checks that a module exposes a symbol, that a class inherits from
another, that a class defines an attribute or that a file contains a string.
Probes are independent: a failing probe never prevents the next ones from
running. The probes listed in the configuration replace the default ones.

The command exits with status 1 when at least one probe fails.`,
		Example: fmt.Sprintf(`
	%[1]s verify
	%[1]s verify --root ~/src/tidal-dl-ng -o json
	%[1]s verify list`, binaryName),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validate(); err != nil {
				return err
			}

			cfg, err := configOpts.LoadConfig(cmd.Context())
			if err != nil {
				return err
			}

			verifier, err := newVerifier(cfg)
			if err != nil {
				return err
			}

			report, err := verifier.Verify(cmd.Context())
			if err != nil {
				return err
			}

			if err := opts.IO.Codec().Encode(cmd.OutOrStdout(), report); err != nil {
				return err
			}

			if exitCode := report.ExitCode(); exitCode != 0 {
				return fail.Exit(exitCode)
			}

			return nil
		},
	}

	configOpts.BindFlags(cmd.PersistentFlags())
	opts.setup(cmd.Flags())

	cmd.AddCommand(listCmd(configOpts))

	return cmd
}

func newVerifier(cfg config.Config) (*integration.Verifier, error) {
	verifierOpts := []integration.Option{}

	if cfg.Root != "" {
		verifierOpts = append(verifierOpts, integration.Root(cfg.Root))
	}

	if len(cfg.Integration.Probes) != 0 {
		verifierOpts = append(verifierOpts, integration.Probes(cfg.Integration.Probes))
	}

	return integration.New(verifierOpts...)
}

type listOpts struct {
	IO cmdio.Options
}

func (opts *listOpts) setup(flags *pflag.FlagSet) {
	opts.IO.RegisterCustomCodec("text", probesTableCodec{})
	opts.IO.DefaultFormat("text")

	opts.IO.BindFlags(flags)
}

func listCmd(configOpts *cmdconfig.Options) *cobra.Command {
	opts := &listOpts{}

	cmd := &cobra.Command{
		Use:     "list",
		Args:    cobra.NoArgs,
		Short:   "List the integration probes",
		Example: "\n\t" + binaryName + " verify list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.IO.Validate(); err != nil {
				return err
			}

			cfg, err := configOpts.LoadConfig(cmd.Context())
			if err != nil {
				return err
			}

			verifier, err := newVerifier(cfg)
			if err != nil {
				return err
			}

			return opts.IO.Codec().Encode(cmd.OutOrStdout(), verifier.Probes())
		},
	}

	opts.setup(cmd.Flags())

	return cmd
}

type probesTableCodec struct{}

func (probesTableCodec) Encode(output io.Writer, input any) error {
	//nolint:forcetypeassert
	probes := input.([]integration.Probe)

	out := tabwriter.NewWriter(output, 0, 4, 2, ' ', tabwriter.TabIndent|tabwriter.DiscardEmptyColumns)
	fmt.Fprintf(out, "#\tKIND\tPROBE\n")

	for i, probe := range probes {
		fmt.Fprintf(out, "%d\t%s\t%s\n", i+1, probe.Kind, probe.Describe())
	}

	return out.Flush()
}

type reporterCodec struct {
	reporter integration.Reporter
}

func (c *reporterCodec) Encode(output io.Writer, input any) error {
	//nolint:forcetypeassert
	return c.reporter.Publish(context.Background(), output, input.(integration.Report))
}
