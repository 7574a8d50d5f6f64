// Package scheduler runs repeating work on an injectable clock.
package scheduler

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/clock"
)

var ErrInvalidInterval = errors.New("scheduler: interval must be positive")

// Task is a cancellable repeating call. The next run is armed after the
// current one returns, so runs never overlap.
type Task struct {
	clock    clock.Clock
	interval time.Duration
	fn       func()

	mu      sync.Mutex
	idle    *sync.Cond
	timer   clock.Timer
	stopped bool
	running bool

	runs atomic.Uint64
}

// Every schedules fn to run every interval until the returned task is stopped.
func Every(c clock.Clock, interval time.Duration, fn func()) (*Task, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if c == nil {
		c = clock.Real{}
	}

	t := &Task{
		clock:    c,
		interval: interval,
		fn:       fn,
	}
	t.idle = sync.NewCond(&t.mu)

	t.mu.Lock()
	t.arm()
	t.mu.Unlock()

	return t, nil
}

// Stop cancels future runs without waiting for one in progress. It is safe
// to call more than once and from inside fn.
func (t *Task) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
	}
}

// Wait blocks until no run is in progress. Calling it from inside fn
// deadlocks.
func (t *Task) Wait() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for t.running {
		t.idle.Wait()
	}
}

// StopWait stops the task and waits for a run in progress to return. Once it
// returns fn is never called again.
func (t *Task) StopWait() {
	t.Stop()
	t.Wait()
}

// Stopped reports whether Stop has been called.
func (t *Task) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Runs returns how many times fn has been called.
func (t *Task) Runs() uint64 {
	return t.runs.Load()
}

// Interval returns the configured interval.
func (t *Task) Interval() time.Duration {
	return t.interval
}

// arm schedules the next run. Callers must hold t.mu.
func (t *Task) arm() {
	t.timer = t.clock.AfterFunc(t.interval, t.fire)
}

func (t *Task) fire() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.mu.Unlock()

	t.runs.Add(1)
	defer t.finish()
	t.fn()
}

// finish marks the run done and arms the next one unless stopped
func (t *Task) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.idle.Broadcast()
	if !t.stopped {
		t.arm()
	}
}
