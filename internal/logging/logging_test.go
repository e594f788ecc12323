package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel("warn") })

	tests := []struct {
		name  string
		level string
		want  zerolog.Level
	}{
		{"debug", "debug", zerolog.DebugLevel},
		{"info", "info", zerolog.InfoLevel},
		{"warn", "warn", zerolog.WarnLevel},
		{"error", "error", zerolog.ErrorLevel},
		{"off", "off", zerolog.Disabled},
		{"unknown defaults to warn", "loud", zerolog.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetLevel(tt.level)
			require.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestEngineLogger_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	SetJSON(&buf)
	SetLevel("debug")
	t.Cleanup(func() {
		SetLevel("warn")
		SetOutput(os.Stderr)
	})

	NewEngineLogger("calculation").Warnf("expense %q has no date", "Pens")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "warn", line["level"])
	require.Equal(t, "calculation", line["component"])
	require.Equal(t, `expense "Pens" has no date`, line["message"])
}

func TestEngineLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	SetJSON(&buf)
	SetLevel("error")
	t.Cleanup(func() {
		SetLevel("warn")
		SetOutput(os.Stderr)
	})

	l := NewEngineLogger("calculation")
	l.Debugf("hidden")
	l.Infof("hidden")
	l.Warnf("hidden")
	require.Zero(t, buf.Len())

	l.Errorf("shown")
	require.Contains(t, buf.String(), "shown")
}
