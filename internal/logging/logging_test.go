package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/mirrorhouse/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.InfoLevel},
		{"bogus", log.InfoLevel},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseLevel(tc.in))
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, config.LogConfig{Level: "warn", Format: "text"}, "test")

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "test")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, config.LogConfig{Level: "info", Format: "json"}, "mh")

	logger.Info("run finished", "board", "trap", "steps", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "run finished", entry["msg"])
	assert.Equal(t, "trap", entry["board"])
}

func TestLogfmtFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, config.LogConfig{Level: "info", Format: "logfmt"}, "")

	logger.Info("loaded", "mirrors", 3)
	assert.Contains(t, buf.String(), "mirrors=3")
}
