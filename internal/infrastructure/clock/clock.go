// Package clock provides a testable time source.
//
// Components that schedule work take a Clock instead of calling the time
// package directly, so tests can drive them with clocktest.Fake.
package clock

import "time"

// Timer is a pending call scheduled with AfterFunc.
type Timer interface {
	// Stop prevents the call from firing. It reports whether the call was
	// still pending.
	Stop() bool
}

// Clock provides the current time and one-shot scheduled calls.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Real is a production Clock backed by the time package.
type Real struct{}

// Now implements Clock.
func (Real) Now() time.Time { return time.Now() }

// AfterFunc implements Clock. f runs on its own goroutine.
func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
