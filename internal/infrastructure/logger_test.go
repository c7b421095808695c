package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"moviepulse/internal/config"
)

func decodeLines(t *testing.T, data []byte) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		entries = append(entries, entry)
	}
	return entries
}

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "test.log")
	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, GetLogger())

	// second call is a no-op
	again, err := InitializeLogger(config.LoggingConfig{Output: "console"})
	require.NoError(t, err)
	assert.Same(t, logger, again)

	logger.Info("test message", "key", "value")
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	entries := decodeLines(t, content)
	require.Len(t, entries, 1)
	assert.Equal(t, "test message", entries[0]["msg"])
	assert.Equal(t, "value", entries[0]["key"])
	assert.Equal(t, "INFO", entries[0]["level"])
}

func TestNewLogger_Outputs(t *testing.T) {
	tests := []struct {
		name       string
		output     string
		wantStdout bool
		wantFile   bool
	}{
		{name: "console", output: "console", wantStdout: true},
		{name: "file", output: "file", wantFile: true},
		{name: "both", output: "both", wantStdout: true, wantFile: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			path := filepath.Join(t.TempDir(), "app.log")

			logger, file, err := NewLogger(config.LoggingConfig{
				Level: "info", Format: "json", Output: tt.output, FilePath: path,
			}, &stdout)
			require.NoError(t, err)
			logger.Info("hello")
			if file != nil {
				require.NoError(t, file.Close())
			}

			assert.Equal(t, tt.wantStdout, strings.Contains(stdout.String(), "hello"))
			content, _ := os.ReadFile(path)
			assert.Equal(t, tt.wantFile, strings.Contains(string(content), "hello"))
		})
	}
}

func TestNewLogger_TextFormat(t *testing.T) {
	var out bytes.Buffer
	logger, _, err := NewLogger(config.LoggingConfig{Level: "info", Format: "text", Output: "console"}, &out)
	require.NoError(t, err)

	logger.Info("plain", slog.String("k", "v"))
	assert.Contains(t, out.String(), "msg=plain")
	assert.Contains(t, out.String(), "k=v")
}

func TestNewLogger_BadFilePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, _, err := NewLogger(config.LoggingConfig{Output: "file", FilePath: filepath.Join(blocker, "app.log")}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestTraceIDInjection(t *testing.T) {
	var out bytes.Buffer
	logger, _, err := NewLogger(config.LoggingConfig{Level: "debug", Format: "json", Output: "console"}, &out)
	require.NoError(t, err)

	ctx := WithTraceID(context.Background(), "req-123")
	logger.InfoContext(ctx, "with request id")
	logger.With(slog.String("component", "test")).InfoContext(ctx, "derived")

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())
	spanCtx, span := tp.Tracer("test").Start(context.Background(), "op")
	logger.InfoContext(spanCtx, "with span")
	span.End()

	logger.Info("without context")

	entries := decodeLines(t, out.Bytes())
	require.Len(t, entries, 4)
	assert.Equal(t, "req-123", entries[0]["trace_id"])
	assert.Equal(t, "req-123", entries[1]["trace_id"])
	assert.Equal(t, "test", entries[1]["component"])
	assert.Equal(t, span.SpanContext().TraceID().String(), entries[2]["trace_id"])
	assert.NotContains(t, entries[3], "trace_id")
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.level))
		})
	}
}

func TestLogLevelFiltering(t *testing.T) {
	var out bytes.Buffer
	logger, _, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "json", Output: "console"}, &out)
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept")

	assert.NotContains(t, out.String(), "dropped")
	assert.Contains(t, out.String(), "kept")
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ctx = EnsureTraceID(ctx)
	id := GetTraceID(ctx)
	assert.Len(t, id, 36)

	// existing IDs are kept
	assert.Equal(t, id, GetTraceID(EnsureTraceID(ctx)))
	assert.NotEqual(t, GenerateTraceID(), GenerateTraceID())
}

func TestWithComponent(t *testing.T) {
	var out bytes.Buffer
	logger, _, err := NewLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "console"}, &out)
	require.NoError(t, err)

	WithComponent(logger, "loader").Info("loaded")

	entries := decodeLines(t, out.Bytes())
	require.Len(t, entries, 1)
	assert.Equal(t, "loader", entries[0]["component"])
}
