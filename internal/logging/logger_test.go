package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"WARN", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"silent", logrus.PanicLevel},
		{"", logrus.InfoLevel},
		{"verbose", logrus.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.input), "level %q", tt.input)
	}
}

func TestFromContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	Configure(logger, &buf, "info", "json")

	ctx := NewContext(context.Background(), logrus.NewEntry(logger))
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-42")

	WithFields(ctx, logrus.Fields{"import_id": "abc"}).Info("import started")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "import started", line["msg"])
	assert.Equal(t, "req-42", line["request_id"])
	assert.Equal(t, "abc", line["import_id"])
}

func TestFromContextDefaultsToStandardLogger(t *testing.T) {
	entry := FromContext(context.Background())

	assert.Same(t, logrus.StandardLogger(), entry.Logger)
	assert.NotContains(t, entry.Data, "request_id")
}

func TestConfigureLevelFiltersEntries(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	Configure(logger, &buf, "error", "text")

	logger.Info("hidden")
	logger.Error("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
