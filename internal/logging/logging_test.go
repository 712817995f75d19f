package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"", log.WarnLevel},
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestParseFormatter(t *testing.T) {
	assert.Equal(t, log.JSONFormatter, ParseFormatter("json"))
	assert.Equal(t, log.LogfmtFormatter, ParseFormatter("logfmt"))
	assert.Equal(t, log.TextFormatter, ParseFormatter("text"))
	assert.Equal(t, log.TextFormatter, ParseFormatter("whatever"))
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(&buf, Options{Level: "warn", Format: "json"})
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug("hidden")
	logger.Warn("update out of range ignored", "index", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "update out of range ignored", entry["msg"])
	assert.EqualValues(t, 7, entry["index"])
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tada.log")
	logger, closer, err := New(nil, Options{Level: "info", File: path})
	require.NoError(t, err)
	logger.Info("hello", "k", "v")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello")
	assert.Contains(t, string(b), "k=v")
}

func TestNew_RejectsBadLevel(t *testing.T) {
	_, _, err := New(nil, Options{Level: "loud"})
	assert.Error(t, err)
}
