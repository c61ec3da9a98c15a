package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacoelho/bufferstream"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bufferpipe.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
root = "site"
pattern = "**/*.md"
transform = "markdown"
mode = "items"
strict = true
log_level = "debug"
`)

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "site", cfg.Root)
	assert.Equal(t, "**/*.md", cfg.Pattern)
	assert.Equal(t, "markdown", cfg.Transform)
	assert.Equal(t, "\n", cfg.Separator)
	assert.Equal(t, bufferstream.Items, cfg.Mode)
	assert.True(t, cfg.Strict)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
}

func TestLoadConfigEmptyKeepsDefaults(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"UnknownKey", `colour = "red"`},
		{"UnknownMode", `mode = "stream"`},
		{"UnknownLevel", `log_level = "loud"`},
		{"EmptyPattern", `pattern = " "`},
		{"Malformed", `root = `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
