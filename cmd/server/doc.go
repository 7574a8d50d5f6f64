// Package main is the entry point for the miniapp shell host.
//
// It launches the application shell (system info query and heartbeat) and
// serves the debug console next to it.
//
// The console provides:
//   - REST API for system info, debug flag, events and global data
//   - WebSocket streaming of every bus event
//   - Prometheus metrics
//   - Rate limiting and CORS
//
// Configuration:
//   - Defaults, then the APP_CONFIG file, then environment variables
//   - CLI flags (override all of the above)
//
// Usage:
//
//	# Production mode
//	./server --port 8000
//
//	# Development mode (colored logs, debug level, debug log on)
//	./server --dev --debug
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
