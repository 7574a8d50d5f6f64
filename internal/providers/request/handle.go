package request

import (
	"sync"

	"github.com/GriffinCanCode/miniapp/backend/internal/providers/host"
)

// Handle lets a caller cancel a request it submitted. The zero value is
// ready to use. Aborting before the request is bound aborts it at bind time.
type Handle struct {
	mu      sync.Mutex
	task    host.RequestTask
	aborted bool
}

// Abort cancels the bound call, or marks the handle so the next bind aborts.
func (h *Handle) Abort() {
	h.mu.Lock()
	h.aborted = true
	task := h.task
	h.mu.Unlock()

	if task != nil {
		task.Abort()
	}
}

// Aborted reports whether Abort has been called
func (h *Handle) Aborted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.aborted
}

// Bound reports whether a host task is attached
func (h *Handle) Bound() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.task != nil
}

func (h *Handle) bind(task host.RequestTask) {
	if task == nil {
		return
	}

	h.mu.Lock()
	h.task = task
	aborted := h.aborted
	h.mu.Unlock()

	if aborted {
		task.Abort()
	}
}
