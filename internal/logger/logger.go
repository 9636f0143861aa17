// Package logger configures the process-wide zerolog logger and carries
// request-scoped loggers on a context.Context.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogConfig is the [log] part of the application config.
type LogConfig struct {
	Level      string // trace, debug, info, warn, error
	Format     string // json, console
	TimeFormat string
	Output     string // stdout, stderr, or file path
}

func DefaultConfig() LogConfig {
	return LogConfig{
		Level:      "info",
		Format:     "console",
		TimeFormat: time.RFC3339,
		Output:     "stdout",
	}
}

// Setup replaces the global logger. A file Output is opened in append mode.
func Setup(cfg LogConfig) error {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return err
	}

	out, err := openOutput(cfg.Output)
	if err != nil {
		return err
	}
	if !strings.EqualFold(cfg.Format, "json") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: cfg.TimeFormat}
	}
	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(out).With().Timestamp().Str("app", "bizbooks").Logger()
	return nil
}

func openOutput(target string) (io.Writer, error) {
	switch target {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}
	return os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// WithComponent returns the global logger tagged with component.
func WithComponent(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}

type ctxKey struct{}

type requestScope struct {
	id  string
	log zerolog.Logger
}

// ForRequest derives a logger tagged with requestID and stores both on ctx.
func ForRequest(ctx context.Context, requestID string) (context.Context, zerolog.Logger) {
	l := log.Logger.With().Str("request_id", requestID).Logger()
	return context.WithValue(ctx, ctxKey{}, requestScope{id: requestID, log: l}), l
}

// FromContext returns the logger stored by ForRequest, or the global logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if rs, ok := ctx.Value(ctxKey{}).(requestScope); ok {
		return rs.log
	}
	return log.Logger
}

// RequestID returns the id stored by ForRequest, or "".
func RequestID(ctx context.Context) string {
	rs, _ := ctx.Value(ctxKey{}).(requestScope)
	return rs.id
}

// Tag adds the request id carried by ctx, if any, to l.
func Tag(ctx context.Context, l zerolog.Logger) zerolog.Logger {
	if id := RequestID(ctx); id != "" {
		return l.With().Str("request_id", id).Logger()
	}
	return l
}

func Nop() zerolog.Logger {
	return zerolog.Nop()
}
