package compliance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/grafana/grafana-app-sdk/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	cmdconfig "github.com/tidal-dl-ng/agentcheck/cmd/config"
	cmdio "github.com/tidal-dl-ng/agentcheck/cmd/io"
	"github.com/tidal-dl-ng/agentcheck/internal/compliance"
	"github.com/tidal-dl-ng/agentcheck/internal/config"
	"github.com/tidal-dl-ng/agentcheck/internal/fail"
	"github.com/tidal-dl-ng/agentcheck/internal/logs"
	"github.com/tidal-dl-ng/agentcheck/internal/watch"
)

type checkOpts struct {
	IO cmdio.Options

	pretty        compliance.PrettyReporter
	watch         bool
	maxConcurrent int
}

func (opts *checkOpts) setup(flags *pflag.FlagSet) {
	opts.IO.RegisterCustomCodec("pretty", &reporterCodec{reporter: &opts.pretty})
	opts.IO.RegisterCustomCodec("compact", &reporterCodec{reporter: compliance.CompactReporter{}})
	opts.IO.RegisterCustomCodec("sarif", &reporterCodec{reporter: compliance.SarifReporter{}})
	opts.IO.DefaultFormat("pretty")

	opts.IO.BindFlags(flags)

	flags.BoolVar(&opts.pretty.HidePassed, "hide-passed", false, "Only list problems in the pretty output")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "Check the files again every time they change")
	flags.IntVar(&opts.maxConcurrent, "max-concurrent", compliance.DefaultMaxConcurrency, "Maximum number of files checked concurrently")
}

func (opts *checkOpts) validate() error {
	if err := opts.IO.Validate(); err != nil {
		return err
	}

	if opts.maxConcurrent < 1 {
		return errors.New("max-concurrent must be greater than zero")
	}

	return nil
}

func checkCmd(configOpts *cmdconfig.Options) *cobra.Command {
	opts := &checkOpts{}

	cmd := &cobra.Command{
		Use:   "check [PATH]...",
		Short: "Check Python files against the project guidelines",
		Long: `Check Python files against the project guidelines.

When no path is given, the files listed in the configuration are checked. If
the configuration lists none, the playlist membership feature files are
checked. Files that do not exist are reported and skipped.

The command exits with status 1 when at least one error is found.`,
		Example: fmt.Sprintf(`
	# Check the default files of the project in the current directory
	%[1]s compliance check

	# Check specific files, listing problems only
	%[1]s compliance check --hide-passed tidal_dl_ng/gui/main_window.py

	# Produce a SARIF report for code scanning tools
	%[1]s compliance check -o sarif > compliance.sarif

	# Check the files again every time they change
	%[1]s compliance check --watch`, binaryName),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}

			cfg, err := configOpts.LoadConfig(cmd.Context())
			if err != nil {
				return err
			}

			checker, err := opts.checker(cfg, args, cmd.Flags().Changed("max-concurrent"))
			if err != nil {
				return err
			}

			if opts.watch {
				return opts.watchFiles(cmd, checker)
			}

			return opts.check(cmd.Context(), cmd.OutOrStdout(), checker)
		},
	}

	opts.setup(cmd.Flags())

	return cmd
}

func (opts *checkOpts) checker(cfg config.Config, args []string, maxConcurrentFromFlag bool) (*compliance.Checker, error) {
	checkerOpts := []compliance.Option{
		compliance.DisableRules(cfg.Compliance.DisabledRules),
	}

	if cfg.Root != "" {
		checkerOpts = append(checkerOpts, compliance.Root(cfg.Root))
	}

	switch {
	case len(args) != 0:
		// paths given as arguments are relative to the working directory
		files := make([]string, 0, len(args))
		for _, arg := range args {
			file, err := filepath.Abs(arg)
			if err != nil {
				return nil, err
			}

			files = append(files, file)
		}

		checkerOpts = append(checkerOpts, compliance.Files(files))
	case len(cfg.Compliance.Files) != 0:
		checkerOpts = append(checkerOpts, compliance.Files(cfg.Compliance.Files))
	}

	switch {
	case maxConcurrentFromFlag:
		checkerOpts = append(checkerOpts, compliance.MaxConcurrency(opts.maxConcurrent))
	case cfg.MaxConcurrent != 0:
		checkerOpts = append(checkerOpts, compliance.MaxConcurrency(cfg.MaxConcurrent))
	}

	if cfg.Compliance.MaxLineLength != 0 {
		checkerOpts = append(checkerOpts, compliance.MaxLineLength(cfg.Compliance.MaxLineLength))
	}

	if cfg.Compliance.MinDocstrings != 0 {
		checkerOpts = append(checkerOpts, compliance.MinDocstrings(cfg.Compliance.MinDocstrings))
	}

	if cfg.Compliance.ImportOrder != nil {
		checkerOpts = append(checkerOpts, compliance.WithImportMarkers(*cfg.Compliance.ImportOrder))
	}

	return compliance.New(checkerOpts...)
}

func (opts *checkOpts) check(ctx context.Context, out io.Writer, checker *compliance.Checker) error {
	report, err := checker.Check(ctx)
	if err != nil {
		return err
	}

	if err := opts.IO.Codec().Encode(out, report); err != nil {
		return err
	}

	if exitCode := report.ExitCode(); exitCode != 0 {
		return fail.Exit(exitCode)
	}

	return nil
}

func (opts *checkOpts) watchFiles(cmd *cobra.Command, checker *compliance.Checker) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.FromContext(ctx)
	out := cmd.OutOrStdout()

	check := func() {
		err := opts.check(ctx, out, checker)

		// failed checks are already part of the report
		detailedErr := fail.DetailedError{}
		if err != nil && !(errors.As(err, &detailedErr) && detailedErr.Silent) {
			logger.Warn("Compliance check failed", logs.Err(err))
		}
	}

	check()

	watcher, err := watch.NewWatcher(ctx, func(changed []string) {
		logger.Debug("Files changed", slog.Any("files", changed))
		cmdio.Info(out, "Change detected in %s, checking again", strings.Join(changed, ", "))

		check()
	})
	if err != nil {
		return err
	}

	if err := watcher.Add(checker.Paths()...); err != nil {
		return err
	}

	cmdio.Info(out, "Watching for changes. Press Ctrl+C to stop.")

	watcher.Watch()

	return nil
}

type reporterCodec struct {
	reporter compliance.Reporter
}

func (c *reporterCodec) Encode(output io.Writer, input any) error {
	//nolint:forcetypeassert
	return c.reporter.Publish(context.Background(), output, input.(compliance.Report))
}
