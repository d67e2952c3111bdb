package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "quality.db", cfg.Store.Path)
	assert.Equal(t, "gemini", cfg.Oracle.Provider)
	assert.Equal(t, 0, cfg.Oracle.RetryAttempts)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta", cfg.Gemini.BaseURL)
	assert.Equal(t, "gemini-3-flash-preview", cfg.Gemini.FlashModel)
	assert.Equal(t, "gemini-3-pro-preview", cfg.Gemini.ProModel)
	assert.Equal(t, 48000, cfg.Audit.MaxTranscriptChars)
	assert.Equal(t, 4, cfg.Batch.MaxConcurrent)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/quality
oracle:
  provider: anthropic
  retry_attempts: 2
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/quality", cfg.Store.DatabaseURL)
	assert.Equal(t, "anthropic", cfg.Oracle.Provider)
	assert.Equal(t, 2, cfg.Oracle.RetryAttempts)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still fill unset sections.
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}

func TestInitLogger_Console(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	assert.NoError(t, err)
}
