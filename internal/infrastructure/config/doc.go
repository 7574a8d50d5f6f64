// Package config provides 12-factor configuration management for the shell.
//
// Configuration starts from Default, is overlaid by an optional file named in
// APP_CONFIG (.yaml, .yml, .toml or .json), and finally by environment
// variables. Unset variables leave earlier values in place.
//
// Configuration Sections:
//   - App: debug flag, version, heartbeat interval, host query policy
//   - Request: default request timeout
//   - Server: debug console listen address
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting for the console
//   - DevTools: IDE command-line location
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Console on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - APP_CONFIG, APP_DEBUG, APP_VERSION, APP_TICK_INTERVAL_MS
//   - APP_HOST_QUERY_POLICY, APP_PLATFORM, REQUEST_TIMEOUT_MS
//   - PORT, HOST, CONSOLE_ENABLED
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - IDE_CLI
package config
