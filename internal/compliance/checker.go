package compliance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/grafana/grafana-app-sdk/logging"
	"github.com/tidal-dl-ng/agentcheck/internal/logs"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMaxLineLength  = 120
	DefaultMinDocstrings  = 5
	DefaultMaxConcurrency = 10
)

// DefaultFiles lists the files checked when none are configured, relative to the project root.
//
//nolint:gochecknoglobals
var DefaultFiles = []string{
	"tidal_dl_ng/gui/playlist_membership.py",
	"tidal_dl_ng/ui/dialog_playlist_manager.py",
	"tests/test_playlist_manager.py",
}

type Option func(c *Checker) error

// Files sets the files to check. Relative paths are resolved against the root directory.
// Directories are replaced by the Python files they contain.
func Files(paths []string) Option {
	return func(c *Checker) error {
		c.files = paths
		return nil
	}
}

// Root sets the directory relative file paths are resolved against.
func Root(dir string) Option {
	return func(c *Checker) error {
		c.root = dir
		return nil
	}
}

func MaxConcurrency(maxConcurrency int) Option {
	return func(c *Checker) error {
		if maxConcurrency < 1 {
			return errors.New("max concurrency must be greater than zero")
		}

		c.maxConcurrency = maxConcurrency
		return nil
	}
}

func MaxLineLength(length int) Option {
	return func(c *Checker) error {
		if length < 1 {
			return errors.New("max line length must be greater than zero")
		}

		c.settings.maxLineLength = length
		return nil
	}
}

// MinDocstrings sets the number of docstrings a file must exceed to pass the docstrings rule.
func MinDocstrings(count int) Option {
	return func(c *Checker) error {
		if count < 0 {
			return errors.New("min docstrings must be a positive number")
		}

		c.settings.minDocstrings = count
		return nil
	}
}

func WithImportMarkers(markers ImportMarkers) Option {
	return func(c *Checker) error {
		c.settings.importMarkers = markers
		return nil
	}
}

// DisableRules disables the rules with the given identifiers.
func DisableRules(ids []string) Option {
	return func(c *Checker) error {
		for _, id := range ids {
			if !IsKnownRule(id) {
				return fmt.Errorf("unknown rule '%s'", id)
			}

			if id == readableRuleID {
				return fmt.Errorf("rule '%s' can not be disabled", id)
			}

			c.disabled[id] = true
		}

		return nil
	}
}

// Checker applies the compliance rules to a set of Python files.
type Checker struct {
	root           string
	files          []string
	maxConcurrency int
	settings       settings
	disabled       map[string]bool
}

func New(opts ...Option) (*Checker, error) {
	checker := &Checker{
		root:           ".",
		files:          DefaultFiles,
		maxConcurrency: DefaultMaxConcurrency,
		settings: settings{
			maxLineLength: DefaultMaxLineLength,
			minDocstrings: DefaultMinDocstrings,
			importMarkers: DefaultImportMarkers(),
		},
		disabled: map[string]bool{},
	}

	for _, opt := range opts {
		if err := opt(checker); err != nil {
			return nil, err
		}
	}

	return checker, nil
}

// Paths returns the paths of the files to check, resolved against the root directory.
func (checker *Checker) Paths() []string {
	paths := make([]string, 0, len(checker.files))

	for _, file := range checker.files {
		if filepath.IsAbs(file) {
			paths = append(paths, file)
			continue
		}

		paths = append(paths, filepath.Join(checker.root, file))
	}

	return paths
}

// Rules returns the enabled rules, in the order they are applied.
func (checker *Checker) Rules() []Rule {
	var enabled []Rule

	for _, rule := range rules {
		if !checker.disabled[rule.ID()] {
			enabled = append(enabled, rule)
		}
	}

	return enabled
}

// Check applies the enabled rules to every file.
// Files are checked concurrently but the report lists results in file order,
// making it identical from one run to the next.
func (checker *Checker) Check(ctx context.Context) (Report, error) {
	logger := logging.FromContext(ctx).With(slog.String("component", "compliance"))

	paths, err := sourceFiles(ctx, checker.Paths())
	if err != nil {
		return Report{}, err
	}

	perFile := make([]fileOutcome, len(paths))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(checker.maxConcurrency)

	for i, path := range paths {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			perFile[i] = checker.checkFile(ctx, path)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{}
	scanned := 0

	for _, outcome := range perFile {
		if outcome.skipped {
			logger.Warn("File not found, skipping", slog.String("file", outcome.path))
			report.Skipped = append(report.Skipped, Location{File: outcome.path})

			continue
		}

		scanned++
		report.Passed = append(report.Passed, outcome.results.passed...)
		report.Violations = append(report.Violations, outcome.results.violations...)
	}

	report.summarize(scanned, len(checker.disabled))

	logger.Debug("Compliance check done",
		slog.Int("files", scanned),
		slog.Int("errors", report.Summary.NumErrors),
		slog.Int("warnings", report.Summary.NumWarnings),
	)

	return report, nil
}

type fileOutcome struct {
	path    string
	skipped bool
	results fileResults
}

func (checker *Checker) checkFile(ctx context.Context, path string) fileOutcome {
	logger := logging.FromContext(ctx).With(slog.String("component", "compliance"), slog.String("file", path))
	outcome := fileOutcome{
		path:    path,
		results: fileResults{file: path},
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		outcome.skipped = true
		return outcome
	}

	outcome.results.rule = ruleByID(readableRuleID)

	if err != nil {
		logger.Warn("Could not read file", logs.Err(err))
		outcome.results.fail(SeverityError, 0, "Could not read file: "+err.Error())

		return outcome
	}

	if !utf8.Valid(raw) {
		outcome.results.fail(SeverityError, 0, "File is not valid UTF-8")
		return outcome
	}

	logger.Debug("Checking file")

	file := sourceFile{path: path, content: string(raw)}

	for _, rule := range rules {
		if rule.check == nil || checker.disabled[rule.ID()] {
			continue
		}

		outcome.results.rule = rule
		rule.check(ctx, file, checker.settings, &outcome.results)
	}

	return outcome
}
