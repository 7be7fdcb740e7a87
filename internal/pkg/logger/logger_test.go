//go:build unit

package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"restaurant-booking/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"), "unknown levels fall back to info")
}

func TestNewWithWriterFormatsTime(t *testing.T) {
	cfg := config.LogConfig{
		Level:          "info",
		TimeZone:       "CET",
		TimeFormat:     "2006-01-02 15:04:05",
		TimeZoneOffset: 3600,
	}
	var buf bytes.Buffer
	log := NewWithWriter(&buf, cfg, true)

	log.Debug("hidden")
	log.Info("booked", "table_id", 4)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "booked", record["msg"])
	assert.EqualValues(t, 4, record["table_id"])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`, record["time"])
}
