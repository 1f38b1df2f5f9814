// Package http provides the HTTP handlers for the math service REST API.
//
// Endpoints:
//   - Health: / and /health
//   - Services: /services, /services/discover, /services/execute
//   - Package: /package, /package/lock, /package/toolchain, /package/id
//
// Every tool call goes through the service registry with the request ID and
// client IP attached, and is timed into the service metrics.
//
// Example Usage:
//
//	handlers := http.NewHandlers(registry, metrics, logger, "0.0.8")
//	router.POST("/services/execute", handlers.ExecuteService)
package http
