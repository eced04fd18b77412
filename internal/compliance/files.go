package compliance

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/grafana/grafana-app-sdk/logging"
	"github.com/tidal-dl-ng/agentcheck/internal/logs"
)

const pythonFileExtension = ".py"

// sourceFiles replaces the directories found in paths with the Python files
// they contain, recursively. Hidden directories and bytecode caches are not traversed.
func sourceFiles(ctx context.Context, paths []string) ([]string, error) {
	logger := logging.FromContext(ctx).With(slog.String("component", "compliance"))
	files := make([]string, 0, len(paths))

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			// missing files are reported by the checker
			files = append(files, path)
			continue
		}

		if err := filepath.WalkDir(path, func(file string, entry fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			if err != nil {
				logger.Warn("Failed to traverse directory", slog.String("path", file), logs.Err(err))
				return nil
			}

			if entry.IsDir() {
				if file != path && (strings.HasPrefix(entry.Name(), ".") || entry.Name() == "__pycache__") {
					return filepath.SkipDir
				}

				return nil
			}

			if filepath.Ext(file) == pythonFileExtension {
				files = append(files, file)
			}

			return nil
		}); err != nil {
			return nil, err
		}
	}

	return files, nil
}
