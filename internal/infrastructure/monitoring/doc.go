/*
Package monitoring provides metrics collection for the shell.

# Overview

Metrics are registered on a private Prometheus registry owned by each
Metrics value, so several shells (and tests) can coexist in one process.

# Features

- Console HTTP request metrics (latency, throughput, size)
- Outbound request metrics by outcome (ok, status, network)
- Event bus emissions per event name and heartbeat ticks
- WebSocket stream connections and messages
- Uptime

# Usage

	metrics := monitoring.NewMetrics()

	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "GET")
	// ... perform request ...
	timer.Stop(monitoring.OutcomeOK)
*/
package monitoring
