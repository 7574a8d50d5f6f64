/*
Package shell composes the application shell: state, event bus, debug log
and request wrapper behind one surface.

# Lifecycle

	uninitialized --Launch--> launched --Close--> closed

Launch queries the host for system information in the background and starts
the heartbeat, which emits TickEvent with TickPayload every TickInterval.
The heartbeat handle lives in the state so Close can stop it.

# Host query failures

A failed system query is never retried. HostQueryPolicy names what happens
to the error: PolicyIgnore drops it, PolicyLog writes a warning through the
structured logger.
*/
package shell
