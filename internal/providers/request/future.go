package request

import (
	"context"
	"sync"

	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/miniapp/backend/internal/providers/host"
)

// Future is the single-settlement result of Submit
type Future struct {
	once   sync.Once
	done   chan struct{}
	handle *Handle

	result *host.RequestResult
	err    error

	onSettle func(outcome string)
}

func newFuture(handle *Handle, onSettle func(string)) *Future {
	return &Future{
		done:     make(chan struct{}),
		handle:   handle,
		onSettle: onSettle,
	}
}

// settle records the first outcome and reports whether it won
func (f *Future) settle(res *host.RequestResult, err error, outcome string) bool {
	won := false
	f.once.Do(func() {
		f.result = res
		f.err = err
		close(f.done)
		won = true
	})
	if won && f.onSettle != nil {
		f.onSettle(outcome)
	}
	return won
}

// Done is closed once the future settles
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles or ctx ends. When ctx ends first the
// in-flight call is aborted and ctx.Err() is returned.
func (f *Future) Await(ctx context.Context) (*host.RequestResult, error) {
	select {
	case <-f.done:
		return f.result, f.err
	default:
	}

	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		f.handle.Abort()
		f.settle(nil, &NetworkError{Err: ctx.Err()}, monitoring.OutcomeAborted)
		return nil, ctx.Err()
	}
}

// Settled reports whether the future has settled
func (f *Future) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Abort cancels the underlying call
func (f *Future) Abort() {
	f.handle.Abort()
}
