// Package state holds the shell's process-wide application state.
//
// A single State is constructed at startup and passed by reference to every
// component that reads or writes it. Fields are safe for concurrent use.
package state

import (
	"sync"
	"sync/atomic"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/GriffinCanCode/miniapp/backend/internal/providers/host"
)

// Stopper is a cancellable background task.
type Stopper interface {
	Stop()
}

// State is the application state record.
type State struct {
	system atomic.Pointer[host.SystemInfo]
	debug  atomic.Bool
	global cmap.ConcurrentMap[string, any]

	mu        sync.Mutex
	heartbeat Stopper
}

// New creates an empty state with debug disabled.
func New() *State {
	return &State{
		global: cmap.New[any](),
	}
}

// System returns the system record, or nil until the host query resolves.
func (s *State) System() *host.SystemInfo {
	return s.system.Load()
}

// SetSystem stores the system record. Only the first call takes effect; it
// reports whether this call stored the record.
func (s *State) SetSystem(info *host.SystemInfo) bool {
	if info == nil {
		return false
	}
	return s.system.CompareAndSwap(nil, info)
}

// Debug reports whether debug logging is enabled.
func (s *State) Debug() bool {
	return s.debug.Load()
}

// SetDebug toggles debug logging.
func (s *State) SetDebug(enabled bool) {
	s.debug.Store(enabled)
}

// GlobalData returns the open-ended application data bag.
func (s *State) GlobalData() *GlobalData {
	return &GlobalData{m: s.global}
}

// SetHeartbeat stores the heartbeat task, stopping any previous one.
func (s *State) SetHeartbeat(task Stopper) {
	s.mu.Lock()
	prev := s.heartbeat
	s.heartbeat = task
	s.mu.Unlock()

	if prev != nil && prev != task {
		prev.Stop()
	}
}

// StopHeartbeat stops and clears the heartbeat task. It reports whether a
// task was running.
func (s *State) StopHeartbeat() bool {
	s.mu.Lock()
	task := s.heartbeat
	s.heartbeat = nil
	s.mu.Unlock()

	if task == nil {
		return false
	}
	task.Stop()
	return true
}

// HasHeartbeat reports whether a heartbeat task is stored.
func (s *State) HasHeartbeat() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heartbeat != nil
}
