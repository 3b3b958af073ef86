package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name          string
		level         Level
		logFunc       func(Logger, string)
		expectedInLog bool
	}{
		{
			name:          "debug message when level is debug",
			level:         LevelDebug,
			logFunc:       func(l Logger, msg string) { l.Debug(msg) },
			expectedInLog: true,
		},
		{
			name:          "debug message when level is info",
			level:         LevelInfo,
			logFunc:       func(l Logger, msg string) { l.Debug(msg) },
			expectedInLog: false,
		},
		{
			name:          "info message when level is info",
			level:         LevelInfo,
			logFunc:       func(l Logger, msg string) { l.Info(msg) },
			expectedInLog: true,
		},
		{
			name:          "warn message when level is error",
			level:         LevelError,
			logFunc:       func(l Logger, msg string) { l.Warn(msg) },
			expectedInLog: false,
		},
		{
			name:          "error message when level is error",
			level:         LevelError,
			logFunc:       func(l Logger, msg string) { l.Error(msg) },
			expectedInLog: true,
		},
		{
			name:          "error message when silent",
			level:         LevelSilent,
			logFunc:       func(l Logger, msg string) { l.Error(msg) },
			expectedInLog: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			log := NewLogger(tt.level, buf)

			tt.logFunc(log, "test message")

			assert.Equal(t, tt.expectedInLog, strings.Contains(buf.String(), "test message"), buf.String())
		})
	}
}

func TestLogger_Fields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(LevelDebug, buf).WithFields(F("package", "models"))

	log.Info("generated", F("types", 3))

	out := buf.String()
	assert.Contains(t, out, "generated")
	assert.Contains(t, out, "package=models")
	assert.Contains(t, out, "types=3")
}

func TestLogger_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{Level: LevelInfo, Output: buf, JSON: true})

	log.Warn("stale output", F("file", "meili_index_gen.go"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "stale output", entry["msg"])
	assert.Equal(t, "meili_index_gen.go", entry["file"])
}

func TestLogger_SetLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(LevelError, buf)

	log.Info("hidden")
	log.SetLevel(LevelInfo)
	log.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"silent", LevelSilent, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) Level {
	t.Helper()
	l, err := ParseLevel(s)
	require.NoError(t, err)
	return l
}

func TestSilentLogger(t *testing.T) {
	log := NewSilentLogger()
	log.Error("nothing to see")
	log.WithFields(F("k", "v")).Info("still nothing")
}

func TestDefaultLogger(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	buf := &bytes.Buffer{}
	SetDefault(NewLogger(LevelDebug, buf))

	Debug("d")
	Info("i")
	Warn("w")
	Error("e")

	for _, msg := range []string{"d", "i", "w", "e"} {
		assert.Contains(t, buf.String(), msg)
	}
}
