package util

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tech-debt-manager/src/config"
)

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(config.LoggingConfig{Level: "warn"}, &buf)

	l.Info("hidden %d", 1)
	l.Warn("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
	assert.Equal(t, "warn", l.GetLevel())
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(config.LoggingConfig{Level: "debug", Format: "json"}, &buf)

	l.Debug("collected %d items", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "collected 3 items", record["msg"])
	assert.Equal(t, "DEBUG", record["level"])
	_, hasTime := record["time"]
	assert.False(t, hasTime)
}

func TestLogger_Timestamp(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(config.LoggingConfig{Level: "info", IncludeTimestamp: true}, &buf)

	l.Info("hello")

	assert.True(t, strings.HasPrefix(buf.String(), "time="))
}

func TestSetLogger_ReplacesDefault(t *testing.T) {
	previous := DefaultLogger()
	defer SetLogger(previous)

	var buf bytes.Buffer
	SetLogger(NewLoggerWithWriter(config.LoggingConfig{Level: "error"}, &buf))

	Info("dropped")
	Error("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}
