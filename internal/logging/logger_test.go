package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, level, err := New(Options{Level: "warn", Writer: &buf})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "id", "t1")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "id=t1")

	level.Set(slog.LevelDebug)
	logger.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Options{Format: "json", Writer: &buf})
	require.NoError(t, err)

	logger.Info("task appended", "type", "move")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "task appended", rec["msg"])
	assert.Equal(t, "move", rec["type"])
}

func TestNew_RejectsUnknownSettings(t *testing.T) {
	_, _, err := New(Options{Level: "loud"})
	assert.Error(t, err)

	_, _, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestToJournalKey(t *testing.T) {
	assert.Equal(t, "REQUEST_ID", toJournalKey("request_id"))
	assert.Equal(t, "HTTP_STATUS", toJournalKey("http.status"))
	assert.Equal(t, "DURATION_MS", toJournalKey("duration-ms"))
}
