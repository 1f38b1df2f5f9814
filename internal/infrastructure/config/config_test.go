package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Zero(t, cfg.RateLimit.GlobalRequestsPerSecond)

	assert.Empty(t, cfg.Recipe.Path)
	assert.Equal(t, "0.0.8", cfg.Recipe.Version)
	assert.Equal(t, 100, cfg.Optimize.MaxIterations)
	assert.Equal(t, 128, cfg.Cache.DatumSize)
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                  "9000",
		"HOST":                  "127.0.0.1",
		"LOG_LEVEL":             "debug",
		"LOG_DEV":               "true",
		"RATE_LIMIT_RPS":        "500",
		"RATE_LIMIT_BURST":      "1000",
		"RATE_LIMIT_ENABLED":    "false",
		"RATE_LIMIT_GLOBAL_RPS": "2000",
		"RECIPE_PATH":           "/etc/terminus/recipe.yaml",
		"RECIPE_VERSION":        "0.0.1",
		"LM_MAX_ITERATIONS":     "250",
		"LM_ABS_TOLERANCE":      "1e-9",
		"DATUM_CACHE_SIZE":      "16",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 2000, cfg.RateLimit.GlobalRequestsPerSecond)
	assert.Equal(t, "/etc/terminus/recipe.yaml", cfg.Recipe.Path)
	assert.Equal(t, "0.0.1", cfg.Recipe.Version)
	assert.Equal(t, 250, cfg.Optimize.MaxIterations)
	assert.Equal(t, 1e-9, cfg.Optimize.AbsTolerance)
	assert.Equal(t, 1e-16, cfg.Optimize.RelTolerance)
	assert.Equal(t, 16, cfg.Cache.DatumSize)
}

func TestLoadInvalidFallsBackToDefault(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "fast")

	_, err := Load()
	assert.Error(t, err)

	cfg := LoadOrDefault()
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
}

func TestServerConfig(t *testing.T) {
	tests := []struct {
		name     string
		port     string
		host     string
		wantPort string
		wantHost string
	}{
		{name: "default values", wantPort: "8000", wantHost: "0.0.0.0"},
		{name: "custom port", port: "9000", wantPort: "9000", wantHost: "0.0.0.0"},
		{name: "custom host", host: "localhost", wantPort: "8000", wantHost: "localhost"},
		{name: "custom port and host", port: "3000", host: "127.0.0.1", wantPort: "3000", wantHost: "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.port != "" {
				t.Setenv("PORT", tt.port)
			}
			if tt.host != "" {
				t.Setenv("HOST", tt.host)
			}

			cfg := LoadOrDefault()

			assert.Equal(t, tt.wantPort, cfg.Server.Port)
			assert.Equal(t, tt.wantHost, cfg.Server.Host)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DATUM_CACHE_SIZE=7\nPORT=7000\n"), 0o644))

	// already-set variables win over the file
	t.Setenv("PORT", "9100")
	t.Setenv("DATUM_CACHE_SIZE", "")
	require.NoError(t, os.Unsetenv("DATUM_CACHE_SIZE"))

	require.NoError(t, LoadDotEnv(path))
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, 7, cfg.Cache.DatumSize)

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
