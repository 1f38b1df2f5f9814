// Package middleware provides the HTTP middleware stack for the math service.
//
//   - CORS: cross-origin access via gin-contrib/cors
//   - RateLimit: per-client token buckets, idle clients are evicted
//   - GlobalRateLimit: a single bucket shared by every client
//   - RequestID: ULID request IDs carried in X-Request-ID
//   - Logger: zap access log keyed by route template and request ID
//
// Example Usage:
//
//	router.Use(middleware.RequestID())
//	router.Use(middleware.Logger(logger))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
