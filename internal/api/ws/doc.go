// Package ws streams the shell's event bus over WebSocket.
//
// Every connected client receives each bus event as JSON, and may emit
// events or narrow its feed.
//
// Message Types (Client → Server):
//   - ping: Keep-alive ping
//   - emit: Emit {name, payload} on the bus
//   - subscribe: Restrict the feed to {names}; an empty list restores all
//
// Message Types (Server → Client):
//   - system: Connection established, carries the client id
//   - event: A bus event {name, payload, timestamp}
//   - pong: Reply to ping
//   - ack: Acknowledges emit and subscribe
//   - error: Error occurred
//
// Example Usage:
//
//	handler := ws.NewHandler(sh, metrics, logger)
//	router.GET("/stream", handler.HandleConnection)
package ws
