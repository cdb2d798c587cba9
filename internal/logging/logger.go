// Package logging configures logrus and carries request-scoped loggers
// through contexts.
//
// Loggers returned by FromContext carry the chi request ID, so every entry
// written while serving a request can be correlated.
package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

// Setup configures the standard logrus logger.
//
// Level values: "debug", "info", "warn", "error", "silent" (default: "info").
// Format values: "text", "json" (default: "text").
func Setup(level, format string) {
	Configure(logrus.StandardLogger(), os.Stdout, level, format)
}

// Configure applies level and format to logger and sends its output to out.
func Configure(logger *logrus.Logger, out io.Writer, level, format string) {
	logger.SetOutput(out)
	logger.SetLevel(parseLevel(level))
	if strings.ToLower(format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "silent":
		return logrus.PanicLevel
	default:
		return logrus.InfoLevel
	}
}

// NewContext returns a copy of ctx carrying entry.
func NewContext(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, entry)
}

// FromContext returns the logger stored in ctx, or the standard logger,
// with the chi request ID attached when present.
func FromContext(ctx context.Context) *logrus.Entry {
	entry, ok := ctx.Value(ctxKey{}).(*logrus.Entry)
	if !ok {
		entry = logrus.NewEntry(logrus.StandardLogger())
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		entry = entry.WithField("request_id", reqID)
	}
	return entry
}

// WithFields returns the context logger with additional fields.
//
//	log := logging.WithFields(ctx, logrus.Fields{"import_id": id})
//	log.Info("import started")
func WithFields(ctx context.Context, fields logrus.Fields) *logrus.Entry {
	return FromContext(ctx).WithFields(fields)
}
