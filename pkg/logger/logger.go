// Package logger builds the process-wide slog logger and carries it through
// contexts. Handlers receive a *slog.Logger; this package only decides the
// output format and provides the attribute keys shared by every component.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Options configures the logger.
type Options struct {
	// Output defaults to os.Stdout.
	Output io.Writer

	// Level is one of debug, info, warn, error (default info).
	Level string

	// JSON selects the JSON handler; the text handler is used otherwise.
	JSON bool

	// AddSource adds file:line to every record.
	AddSource bool
}

// ParseLevel parses a level name, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a logger with the given options.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	handlerOpts := &slog.HandlerOptions{
		Level:     ParseLevel(opts.Level),
		AddSource: opts.AddSource,
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Context key for logger.
type ctxKey struct{}

// WithContext returns a new context with the logger attached.
func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// RequestIDKey is a common field key for request tracing.
const RequestIDKey = "request_id"

// Admission-related attribute helpers.
func PropositionUUID(id string) slog.Attr  { return slog.String("proposition_uuid", id) }
func Matricule(m string) slog.Attr         { return slog.String("matricule", m) }
func Statut(s string) slog.Attr            { return slog.String("statut", s) }
func Operation(name string) slog.Attr      { return slog.String("operation", name) }
func Component(name string) slog.Attr      { return slog.String("component", name) }
func RequestID(id string) slog.Attr        { return slog.String(RequestIDKey, id) }
func Latency(d time.Duration) slog.Attr    { return slog.Duration("latency", d) }
func Err(err error) slog.Attr              { return slog.Any("error", err) }
func Identifiants(ids []string) slog.Attr  { return slog.Any("identifiants", ids) }
