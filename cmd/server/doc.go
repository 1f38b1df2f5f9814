// Package main is the entry point for the terminus-math HTTP service.
//
// The server exposes the math, geometry, coordinate, optimize and package
// providers through a tool registry:
//
//	POST /services/execute {"tool_id": "matrix.solve", "params": {...}}
//
// plus recipe endpoints under /package and Prometheus metrics at /metrics.
//
// Configuration:
//   - Environment variables (12-factor), optionally from a .env file
//   - CLI flags override the environment
//
// Usage:
//
//	./server -port 8000
//	./server -dev -recipe ./terminus_math.yaml
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
