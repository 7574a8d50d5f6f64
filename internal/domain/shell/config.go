package shell

import (
	"fmt"
	"strings"
	"time"
)

// Heartbeat contract
const (
	TickEvent   = "app:tick"
	TickPayload = "tick"

	// SystemEvent is emitted once when the host system record is stored
	SystemEvent = "app:system"

	DefaultTickInterval = 1000 * time.Millisecond
)

// HostQueryPolicy names the handling of a failed host system query
type HostQueryPolicy string

const (
	PolicyIgnore HostQueryPolicy = "ignore"
	PolicyLog    HostQueryPolicy = "log"
)

// ParseHostQueryPolicy parses a policy name. Empty means PolicyIgnore.
func ParseHostQueryPolicy(s string) (HostQueryPolicy, error) {
	switch HostQueryPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyIgnore:
		return PolicyIgnore, nil
	case PolicyLog:
		return PolicyLog, nil
	default:
		return "", fmt.Errorf("unknown host query policy %q", s)
	}
}

// Config holds shell settings
type Config struct {
	TickInterval    time.Duration
	HostQueryPolicy HostQueryPolicy
	Debug           bool
}

// DefaultConfig returns the standard shell settings
func DefaultConfig() Config {
	return Config{
		TickInterval:    DefaultTickInterval,
		HostQueryPolicy: PolicyIgnore,
	}
}
