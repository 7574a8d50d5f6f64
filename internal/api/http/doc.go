// Package http implements the debug console's REST handlers over a running
// shell: health, system info, the debug flag, the event bus, the global data
// bag, page log forwarding and a JSON metrics snapshot.
package http
