// Package config provides 12-factor configuration management for the
// terminus-math server.
//
// Configuration is loaded from environment variables with sensible defaults.
// A .env file, when present, is loaded first and never overrides variables
// that are already set.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - Recipe: Manifest path or built-in recipe version
//   - Optimize: Default Levenberg-Marquardt limits
//   - Cache: Datum cache size
//
// Example Usage:
//
//	_ = config.LoadDotEnv()
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - RECIPE_PATH, RECIPE_VERSION
//   - LM_MAX_ITERATIONS, LM_ABS_TOLERANCE, LM_REL_TOLERANCE
//   - DATUM_CACHE_SIZE
package config
