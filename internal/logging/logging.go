// Package logging configures the global zerolog logger and attaches a
// per-invocation logger to a context.
//
// Components log through the context:
//
//	log.Ctx(ctx).Debug().Str("key", key).Msg("fetching object")
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string

	// Format is json or console.
	Format string

	// Output defaults to os.Stderr.
	Output io.Writer

	// Fields are attached to every log line (service, env, version).
	Fields map[string]string
}

// Init configures the global logger. Contexts without a logger fall back to it.
func Init(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	output := cfg.Output
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}

	lc := zerolog.New(output).With().Timestamp()
	for k, v := range cfg.Fields {
		lc = lc.Str(k, v)
	}
	log.Logger = lc.Logger()
	zerolog.DefaultContextLogger = &log.Logger
}

// WithInvocation returns a context carrying a child logger tagged with a new
// invocation id and the operation name, plus the id itself.
func WithInvocation(ctx context.Context, operation string) (context.Context, string) {
	id := uuid.New().String()
	l := log.Logger.With().Str("invocation_id", id).Str("operation", operation).Logger()
	return l.WithContext(ctx), id
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
