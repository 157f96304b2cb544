package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// isolate points both config locations at a fresh temp directory.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	for _, key := range keys {
		env := "QUIZR_" + strings.ToUpper(key)
		t.Setenv(env, "")
		_ = os.Unsetenv(env)
	}
	return tmpDir
}

func TestGlobalPath(t *testing.T) {
	tests := []struct {
		name      string
		xdgConfig string
		want      string
	}{
		{
			name:      "with XDG_CONFIG_HOME set",
			xdgConfig: "/custom/config",
			want:      "/custom/config/quizr/quizr.yml",
		},
		{
			name:      "without XDG_CONFIG_HOME",
			xdgConfig: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", tt.xdgConfig)

			got := GlobalPath()
			if tt.want != "" {
				require.Equal(t, tt.want, got)
				return
			}
			require.True(t, filepath.IsAbs(got), "GlobalPath() should be absolute, got %v", got)
			require.Equal(t, "quizr.yml", filepath.Base(got))
			require.Equal(t, "quizr", filepath.Base(filepath.Dir(got)))
		})
	}
}

func TestProjectPath(t *testing.T) {
	require.Equal(t, "quizr.yml", ProjectPath())
}

func TestExists(t *testing.T) {
	isolate(t)

	t.Run("no config exists", func(t *testing.T) {
		require.False(t, Exists())
	})

	t.Run("global config exists", func(t *testing.T) {
		require.NoError(t, WriteGlobal(Defaults()))
		defer func() { _ = os.Remove(GlobalPath()) }()
		require.True(t, Exists())
	})

	t.Run("project config exists", func(t *testing.T) {
		require.NoError(t, WriteProject(Defaults()))
		defer func() { _ = os.Remove(ProjectPath()) }()
		require.True(t, Exists())
	})
}

func TestWriteGlobal(t *testing.T) {
	isolate(t)

	cfg := Defaults()
	cfg.DataDir = ".bank"
	cfg.LogLevel = "debug"
	cfg.LogFile = "/tmp/quizr.log"
	cfg.DefaultLanguage = "go"

	require.NoError(t, WriteGlobal(cfg))

	data, err := os.ReadFile(GlobalPath())
	require.NoError(t, err)

	content := string(data)
	for _, field := range []string{
		"data_dir: .bank",
		"log_level: debug",
		"log_file: /tmp/quizr.log",
		"default_language: go",
		"duplicate_check: true",
	} {
		require.Contains(t, content, field)
	}
}

func TestLoad_NoConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	isolate(t)

	global := Defaults()
	global.DataDir = ".global"
	global.LogLevel = "warn"
	global.DefaultPoints = 5
	require.NoError(t, WriteGlobal(global))

	require.NoError(t, os.WriteFile(ProjectPath(), []byte("data_dir: .project\nvalidation_debounce: 150ms\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ".project", cfg.DataDir)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, 5, cfg.DefaultPoints)
	require.Equal(t, 150*time.Millisecond, cfg.ValidationDebounce)
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	isolate(t)

	require.NoError(t, os.WriteFile(ProjectPath(), []byte("data_dir: .project\nduplicate_check: true\n"), 0644))
	t.Setenv("QUIZR_DATA_DIR", ".env")
	t.Setenv("QUIZR_DUPLICATE_CHECK", "false")
	t.Setenv("QUIZR_VALIDATION_DEBOUNCE", "1s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ".env", cfg.DataDir)
	require.False(t, cfg.DuplicateCheck)
	require.Equal(t, time.Second, cfg.ValidationDebounce)
}

func TestLoad_RejectsOutOfRangeValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"threshold above one", "duplicate_threshold: 1.5\n"},
		{"zero points", "default_points: 0\n"},
		{"unknown exporter", "trace_exporter: jaeger\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			require.NoError(t, os.WriteFile(ProjectPath(), []byte(tt.yaml), 0644))

			_, err := Load()
			require.Error(t, err)
		})
	}
}
