package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Recipe    RecipeConfig
	Optimize  OptimizeConfig
	Cache     CacheConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`

	// GlobalRequestsPerSecond caps all clients together; zero turns the cap off.
	GlobalRequestsPerSecond int `envconfig:"RATE_LIMIT_GLOBAL_RPS" default:"0"`
	GlobalBurst             int `envconfig:"RATE_LIMIT_GLOBAL_BURST" default:"0"`
}

// RecipeConfig selects the package recipe. An empty Path uses the
// built-in manifest for Version.
type RecipeConfig struct {
	Path    string `envconfig:"RECIPE_PATH"`
	Version string `envconfig:"RECIPE_VERSION" default:"0.0.8"`
}

// OptimizeConfig holds the default Levenberg-Marquardt limits.
type OptimizeConfig struct {
	MaxIterations int     `envconfig:"LM_MAX_ITERATIONS" default:"100"`
	AbsTolerance  float64 `envconfig:"LM_ABS_TOLERANCE" default:"1e-16"`
	RelTolerance  float64 `envconfig:"LM_REL_TOLERANCE" default:"1e-16"`
}

// CacheConfig sizes the datum cache.
type CacheConfig struct {
	DatumSize int `envconfig:"DATUM_CACHE_SIZE" default:"128"`
}

// LoadDotEnv loads variables from the given files (".env" when none are
// named) without overriding values already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Recipe: RecipeConfig{
			Version: "0.0.8",
		},
		Optimize: OptimizeConfig{
			MaxIterations: 100,
			AbsTolerance:  1e-16,
			RelTolerance:  1e-16,
		},
		Cache: CacheConfig{
			DatumSize: 128,
		},
	}
}
