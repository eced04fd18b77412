package testutils

import (
	"context"
	"io"
	"log/slog"

	"github.com/grafana/grafana-app-sdk/logging"
	"github.com/tidal-dl-ng/agentcheck/internal/logs"
)

func NullLogger() *slog.Logger {
	return slog.New(logs.NewHandler(io.Discard, &logs.Options{}))
}

// Context returns a context carrying a logger that discards everything.
func Context() context.Context {
	return logging.Context(context.Background(), logging.NewSLogLogger(NullLogger().Handler()))
}
