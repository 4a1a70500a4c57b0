package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poly1603/ldesign-engine-sub006/internal/ports"
)

func TestConsoleLogger_Text(t *testing.T) {
	ctx := context.Background()

	t.Run("writes level message and fields", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewConsoleLogger(WithOutput(&buf), WithTimestamps(false))

		l.Info(ctx, "plugin registered", ports.F("plugin", "core"), ports.F("version", "1.0.0"))

		line := buf.String()
		assert.Contains(t, line, "[INFO] plugin registered")
		assert.Contains(t, line, "plugin=core")
		assert.Contains(t, line, "version=1.0.0")
	})

	t.Run("filters below the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewConsoleLogger(WithOutput(&buf), WithLevel(ports.LevelWarn), WithTimestamps(false))

		l.Debug(ctx, "debug")
		l.Info(ctx, "info")
		l.Warn(ctx, "warn")
		l.Error(ctx, "error")

		out := buf.String()
		assert.NotContains(t, out, "debug")
		assert.NotContains(t, out, "info")
		assert.Contains(t, out, "[WARN] warn")
		assert.Contains(t, out, "[ERROR] error")
	})

	t.Run("with fields apply to every entry", func(t *testing.T) {
		var buf bytes.Buffer
		base := NewConsoleLogger(WithOutput(&buf), WithTimestamps(false))
		l := base.With(ports.F("engine", "ldesign"))

		l.Info(ctx, "one")
		l.Info(ctx, "two")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		for _, line := range lines {
			assert.Contains(t, line, "engine=ldesign")
		}
	})

	t.Run("with does not mutate the parent", func(t *testing.T) {
		var buf bytes.Buffer
		base := NewConsoleLogger(WithOutput(&buf), WithTimestamps(false))
		_ = base.With(ports.F("engine", "ldesign"))

		base.Info(ctx, "plain")
		assert.NotContains(t, buf.String(), "engine=")
	})
}

func TestConsoleLogger_JSON(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	l := NewConsoleLogger(WithOutput(&buf), WithJSONFormat(true), WithTimestamps(false))

	l.Error(ctx, "hook failed", ports.F("plugin", "core"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "hook failed", entry["msg"])
	assert.Equal(t, "core", entry["plugin"])
	assert.NotContains(t, entry, "time")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, ports.LevelDebug, ports.ParseLevel("debug"))
	assert.Equal(t, ports.LevelWarn, ports.ParseLevel("warning"))
	assert.Equal(t, ports.LevelError, ports.ParseLevel("ERROR"))
	assert.Equal(t, ports.LevelInfo, ports.ParseLevel("anything"))
}
