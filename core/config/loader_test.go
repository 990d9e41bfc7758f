package config

import (
	"bytes"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("later files override earlier ones", func(t *testing.T) {
		base := writeConfig(t, dir, "base.yaml", "a:\n  x: 1\n  y: 2\n")
		override := writeConfig(t, dir, "override.yaml", "a:\n  y: 3\n  z: 4\n")

		got, err := LoadConfig(base, override)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": map[string]any{"x": 1, "y": 3, "z": 4}}, got)
	})

	t.Run("empty and comment-only files are skipped", func(t *testing.T) {
		base := writeConfig(t, dir, "k.yaml", "k: 10\n")
		empty := writeConfig(t, dir, "empty.yaml", "")
		comments := writeConfig(t, dir, "comments.yaml", "# nothing here\n")

		got, err := LoadConfig(base, empty, comments)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"k": 10}, got)
	})

	t.Run("no paths", func(t *testing.T) {
		got, err := LoadConfig()
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("sequence at top level", func(t *testing.T) {
		path := writeConfig(t, dir, "list.yaml", "- a\n- b\n")
		_, err := LoadConfig(path)
		assert.ErrorIs(t, err, ErrNotMapping)
	})

	t.Run("scalar at top level", func(t *testing.T) {
		path := writeConfig(t, dir, "scalar.yaml", "42\n")
		_, err := LoadConfig(path)
		assert.ErrorIs(t, err, ErrNotMapping)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, dir, "bad.yaml", "a: [1, 2\n")
		_, err := LoadConfig(path)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotMapping)
	})
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, 0, s.K)
	assert.Equal(t, 1e-12, s.Eps)
	assert.Equal(t, []string{"*"}, s.Metrics)
	assert.Equal(t, FormatText, s.Output.Format)
	assert.Equal(t, "info", s.Log.Level)
	assert.NoError(t, s.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("files layer onto defaults", func(t *testing.T) {
		base := writeConfig(t, dir, "base.yaml", `
k: 10
metrics: [overlap, lid]
input:
  path: results.yaml
output:
  format: json
`)
		local := writeConfig(t, dir, "local.yaml", `
input:
  run: hnsw-ef64
output:
  per_query: true
`)

		s, err := Load(base, local)
		require.NoError(t, err)
		assert.Equal(t, 10, s.K)
		assert.Equal(t, 1e-12, s.Eps)
		assert.Equal(t, []string{"overlap", "lid"}, s.Metrics)
		assert.Equal(t, "results.yaml", s.Input.Path)
		assert.Equal(t, "hnsw-ef64", s.Input.Run)
		assert.Equal(t, FormatJSON, s.Output.Format)
		assert.True(t, s.Output.PerQuery)
		assert.Equal(t, "info", s.Log.Level)
	})

	t.Run("environment overrides files", func(t *testing.T) {
		path := writeConfig(t, dir, "env.yaml", "k: 5\noutput:\n  format: json\n")
		t.Setenv("NDRIFT_K", "7")
		t.Setenv("NDRIFT_OUTPUT_FORMAT", "YAML")
		t.Setenv("NDRIFT_INPUT_PATH", "/tmp/run.db")
		t.Setenv("NDRIFT_LOG_LEVEL", "debug")

		s, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 7, s.K)
		assert.Equal(t, FormatYAML, s.Output.Format)
		assert.Equal(t, "/tmp/run.db", s.Input.Path)
		assert.Equal(t, "debug", s.Log.Level)
	})

	t.Run("invalid values", func(t *testing.T) {
		tests := []struct {
			name    string
			content string
		}{
			{"negative k", "k: -1\n"},
			{"negative eps", "eps: -0.5\n"},
			{"zero eps", "eps: 0\n"},
			{"unknown output format", "output:\n  format: xml\n"},
			{"unknown log level", "log:\n  level: loud\n"},
			{"unknown log format", "log:\n  format: logfmt\n"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				path := writeConfig(t, dir, "invalid.yaml", tt.content)
				_, err := Load(path)
				assert.ErrorIs(t, err, ErrInvalidSettings)
			})
		}
	})

	t.Run("type mismatch", func(t *testing.T) {
		path := writeConfig(t, dir, "typed.yaml", "k: many\n")
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(LogSettings{Level: "warn", Format: FormatJSON}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", slog.Int("queries", 3))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"queries":3`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLevel("verbose")
	assert.ErrorIs(t, err, ErrInvalidSettings)
}
