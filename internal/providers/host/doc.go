// Package host adapts the platform services the shell depends on.
//
// The shell never talks to the platform directly. It consumes two narrow
// interfaces:
//   - SystemQuerier: a one-shot query for the device/system record
//   - Network: a callback-style request primitive returning an abortable task
//
// RuntimeQuerier and RestyNetwork are the production implementations. Tests
// substitute fakes.
package host
