// Package cli implements the scenebridge command-line interface.
//
// # Commands
//
//   - extract: write a scene snapshot to a versioned JSON interchange file
//   - validate: check an interchange file against the envelope schema
//   - passes: list the active renderer's passes
//   - render: render one pass of one frame and report the written file
//   - cache: manage the snapshot cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// turns on the observability log hooks. The logger is passed through
// context.Context.
//
// # Configuration
//
// Defaults come from ~/.config/scenebridge/config.toml and SCENEBRIDGE_*
// environment variables; flags override both.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger prefixed with the binary name, with
// "HH:MM:SS.ms" timestamps. Debug output also reports the caller.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          appName,
		ReportTimestamp: true,
		ReportCaller:    level <= log.DebugLevel,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time as a key-value pair.
func (p *progress) done(msg string) {
	p.logger.Info(msg, "elapsed", time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
