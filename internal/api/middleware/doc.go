// Package middleware provides the debug console's HTTP middleware: CORS,
// per-IP rate limiting, request ids with access logging, and panic recovery.
package middleware
