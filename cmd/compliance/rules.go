package compliance

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	cmdconfig "github.com/tidal-dl-ng/agentcheck/cmd/config"
	cmdio "github.com/tidal-dl-ng/agentcheck/cmd/io"
	"github.com/tidal-dl-ng/agentcheck/internal/compliance"
)

type ruleStatus struct {
	ID          string              `json:"id"`
	Severity    compliance.Severity `json:"severity"`
	Enabled     bool                `json:"enabled"`
	Description string              `json:"description"`
}

type rulesOpts struct {
	IO cmdio.Options
}

func (opts *rulesOpts) setup(flags *pflag.FlagSet) {
	opts.IO.RegisterCustomCodec("text", rulesTableCodec{})
	opts.IO.DefaultFormat("text")

	opts.IO.BindFlags(flags)
}

func (opts *rulesOpts) validate() error {
	return opts.IO.Validate()
}

func rulesCmd(configOpts *cmdconfig.Options) *cobra.Command {
	opts := rulesOpts{}

	cmd := &cobra.Command{
		Use:   "rules",
		Args:  cobra.NoArgs,
		Short: "List the compliance rules",
		Long:  "List the compliance rules, in the order they are applied, and whether the configuration disables them.",
		Example: fmt.Sprintf(`
	%[1]s compliance rules
	%[1]s compliance rules -o yaml`, binaryName),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validate(); err != nil {
				return err
			}

			cfg, err := configOpts.LoadConfig(cmd.Context())
			if err != nil {
				return err
			}

			rules := compliance.Rules()
			statuses := make([]ruleStatus, 0, len(rules))

			for _, rule := range rules {
				statuses = append(statuses, ruleStatus{
					ID:          rule.ID(),
					Severity:    rule.Severity,
					Enabled:     !slices.Contains(cfg.Compliance.DisabledRules, rule.ID()),
					Description: rule.Description,
				})
			}

			return opts.IO.Codec().Encode(cmd.OutOrStdout(), statuses)
		},
	}

	opts.setup(cmd.Flags())

	return cmd
}

type rulesTableCodec struct{}

func (rulesTableCodec) Encode(output io.Writer, input any) error {
	//nolint:forcetypeassert
	statuses := input.([]ruleStatus)

	out := tabwriter.NewWriter(output, 0, 4, 2, ' ', tabwriter.TabIndent|tabwriter.DiscardEmptyColumns)
	fmt.Fprintf(out, "RULE\tSEVERITY\tENABLED\tDESCRIPTION\n")

	for _, status := range statuses {
		fmt.Fprintf(out, "%s\t%s\t%t\t%s\n", status.ID, status.Severity, status.Enabled, status.Description)
	}

	return out.Flush()
}
