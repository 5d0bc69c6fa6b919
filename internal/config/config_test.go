package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.InDelta(t, 10, cfg.Places.RatePerSecond, 0.001)
	assert.Equal(t, 10, cfg.Places.TimeoutSecs)
	assert.Equal(t, 6, cfg.Registry.MaxPages)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.Model)
	assert.Equal(t, int64(2048), cfg.Anthropic.MaxTokens)
	assert.Equal(t, 45, cfg.Anthropic.TimeoutSecs)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
places:
  key: places-key
  rate_per_second: 4
registry:
  max_pages: 3
anthropic:
  model: claude-haiku-4-5-20251001
server:
  port: 9090
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "places-key", cfg.Places.Key)
	assert.InDelta(t, 4, cfg.Places.RatePerSecond, 0.001)
	assert.Equal(t, 3, cfg.Registry.MaxPages)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.Model)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched keys keep their defaults.
	assert.Equal(t, int64(2048), cfg.Anthropic.MaxTokens)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("SITEINTEL_SERVER_PORT", "7070")
	t.Setenv("SITEINTEL_ANTHROPIC_MODEL", "claude-opus-4-6")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "claude-opus-4-6", cfg.Anthropic.Model)
}

func TestAnthropicTimeout(t *testing.T) {
	c := AnthropicConfig{TimeoutSecs: 45}
	assert.Equal(t, "45s", c.Timeout().String())
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr bool
	}{
		{"json format", LogConfig{Level: "info", Format: "json"}, false},
		{"console format", LogConfig{Level: "debug", Format: "console"}, false},
		{"bad level", LogConfig{Level: "nope", Format: "json"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitLogger(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, zap.L())
		})
	}
}
