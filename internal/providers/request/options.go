package request

import (
	"net/http"
	"strings"
	"time"

	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

// Defaults applied to every request unless overridden
const (
	DefaultTimeout  = 2000 * time.Millisecond
	DefaultMethod   = http.MethodGet
	DefaultDataType = "json"
	DefaultVersion  = "1.0.0"

	// VersionHeader carries the application version on every call
	VersionHeader = "version"
)

// Options describes the caller's side of one request. Zero fields fall back
// to the requester defaults.
type Options struct {
	Method   string
	Header   map[string]string
	Data     any
	Timeout  time.Duration
	DataType string
}

// merge overlays o on top of base. Header keys are merged individually.
func (base Options) merge(o Options) Options {
	out := base

	if o.Method != "" {
		out.Method = strings.ToUpper(o.Method)
	}
	if o.Data != nil {
		out.Data = o.Data
	}
	if o.Timeout > 0 {
		out.Timeout = o.Timeout
	}
	if o.DataType != "" {
		out.DataType = o.DataType
	}

	out.Header = make(map[string]string, len(base.Header)+len(o.Header))
	for k, v := range base.Header {
		out.Header[k] = v
	}
	for k, v := range o.Header {
		out.Header[k] = v
	}

	return out
}

// Option configures a Requester
type Option func(*Requester)

// WithTimeout replaces the default timeout
func WithTimeout(d time.Duration) Option {
	return func(r *Requester) {
		if d > 0 {
			r.defaults.Timeout = d
		}
	}
}

// WithHeader adds a default header
func WithHeader(key, value string) Option {
	return func(r *Requester) {
		r.defaults.Header[key] = value
	}
}

// WithVersion sets the value of the version header
func WithVersion(version string) Option {
	return WithHeader(VersionHeader, version)
}

// WithLogger sets the structured logger
func WithLogger(logger *zap.Logger) Option {
	return func(r *Requester) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics records every settled request
func WithMetrics(m *monitoring.Metrics) Option {
	return func(r *Requester) {
		r.metrics = m
	}
}
