package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{" Info ", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"ERROR", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LevelDebug.String())
	require.Equal(t, "INFO", LevelInfo.String())
	require.Equal(t, "WARN", LevelWarn.String())
	require.Equal(t, "ERROR", LevelError.String())
	require.Equal(t, "UNKNOWN", Level(42).String())
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetLevel(LevelWarn)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	output := buf.String()
	require.NotContains(t, output, "debug message")
	require.NotContains(t, output, "info message")
	require.Contains(t, output, "warn message")
	require.Contains(t, output, "error message")
}

func TestLogger_LogFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetLevel(LevelDebug)

	l.Info("saved question %s", "cq1")

	require.Contains(t, buf.String(), "[INFO] saved question cq1")
}

func TestLogger_EnvVars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quizr.log")
	t.Setenv("QUIZR_LOG_LEVEL", "debug")
	t.Setenv("QUIZR_LOG_FILE", path)

	l := New()
	require.Equal(t, LevelDebug, l.level)

	l.Debug("from env")
	require.NoError(t, l.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "from env")
}

func TestLogger_Configure(t *testing.T) {
	t.Setenv("QUIZR_LOG_LEVEL", "")
	t.Setenv("QUIZR_LOG_FILE", "")

	path := filepath.Join(t.TempDir(), "configured.log")
	l := New()

	require.NoError(t, l.Configure("warn", path))
	l.Info("hidden")
	l.Warn("visible")
	require.NoError(t, l.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(content), "hidden")
	require.Contains(t, string(content), "visible")

	require.Error(t, l.Configure("loud", ""))
}

func TestLogger_CloseWithoutFile(t *testing.T) {
	l := New()
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
}

func TestPackageLevelFunctions(t *testing.T) {
	var buf bytes.Buffer
	Default.SetOutput(&buf)
	Default.SetLevel(LevelDebug)
	t.Cleanup(func() {
		Default.SetLevel(LevelInfo)
	})

	Debug("debug %s", "test")
	Info("info %s", "test")
	Warn("warn %s", "test")
	Error("error %s", "test")

	output := buf.String()
	for _, want := range []string{"debug test", "info test", "warn test", "error test"} {
		require.True(t, strings.Contains(output, want), "missing %q", want)
	}
}
