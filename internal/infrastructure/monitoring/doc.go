/*
Package monitoring provides Prometheus metrics for the math service.

# Overview

Each Metrics value owns a prometheus.Registry populated through promauto, so
tests and embedded servers never collide on the default registry. It tracks
HTTP traffic, tool executions, Levenberg-Marquardt solves and datum cache
lookups.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "matrix", "matrix.solve")
	// ... execute tool ...
	timer.Stop("success")

Providers report solver and cache activity through observer funcs:

	optimize.NewProvider(settings, logger, metrics.RecordSolve)
	coordinate.NewProvider(cache, metrics.RecordDatumLookup)
*/
package monitoring
