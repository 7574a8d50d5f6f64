package request

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/miniapp/backend/internal/providers/host"
	"github.com/GriffinCanCode/miniapp/backend/internal/shared/id"
	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// Requester submits calls through a host network with shared defaults
type Requester struct {
	network  host.Network
	defaults Options
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// New creates a requester over network
func New(network host.Network, opts ...Option) *Requester {
	r := &Requester{
		network: network,
		defaults: Options{
			Method:   DefaultMethod,
			Header:   map[string]string{VersionHeader: DefaultVersion},
			Timeout:  DefaultTimeout,
			DataType: DefaultDataType,
		},
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Defaults returns a copy of the requester defaults
func (r *Requester) Defaults() Options {
	out := r.defaults
	out.Header = maps.Clone(r.defaults.Header)
	return out
}

// Submit starts one call and returns its future. A non-nil handle is bound
// to the in-flight call.
func (r *Requester) Submit(url string, opts Options, handle *Handle) *Future {
	merged := r.defaults.merge(opts)
	reqID := id.NewRequestID()

	if handle == nil {
		handle = &Handle{}
	}

	timer := monitoring.NewTimer(r.metrics, merged.Method)
	log := r.logger.With(
		zap.String("request_id", reqID.String()),
		zap.String("method", merged.Method),
		zap.String("url", url),
	)

	f := newFuture(handle, func(outcome string) {
		timer.Stop(outcome)
		log.Debug("request settled", zap.String("outcome", outcome))
	})

	log.Debug("request submitted", zap.Duration("timeout", merged.Timeout))

	task := r.network.Request(host.RequestOption{
		URL:      url,
		Method:   merged.Method,
		Header:   merged.Header,
		Data:     merged.Data,
		Timeout:  merged.Timeout,
		DataType: merged.DataType,
		Success: func(res *host.RequestResult) {
			if res == nil {
				f.settle(nil, &NetworkError{Err: errors.New("empty response")}, monitoring.OutcomeNetwork)
				return
			}
			if res.OK() {
				f.settle(res, nil, monitoring.OutcomeOK)
				return
			}
			f.settle(nil, &StatusError{Result: res}, monitoring.OutcomeStatus)
		},
		Fail: func(err error) {
			f.settle(nil, &NetworkError{Err: err}, monitoring.OutcomeNetwork)
		},
	})

	handle.bind(task)
	return f
}

// Do submits a call, waits for it and decodes the JSON body into T
func Do[T any](ctx context.Context, r *Requester, url string, opts Options, handle *Handle) (T, error) {
	var out T

	res, err := r.Submit(url, opts, handle).Await(ctx)
	if err != nil {
		return out, err
	}

	if len(res.Data) == 0 {
		return out, nil
	}

	if err := sonic.Unmarshal(res.Data, &out); err != nil {
		return out, fmt.Errorf("decode response body: %w", err)
	}

	return out, nil
}
