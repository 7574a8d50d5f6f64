package shell

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/GriffinCanCode/miniapp/backend/internal/domain/events"
	"github.com/GriffinCanCode/miniapp/backend/internal/domain/state"
	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/clock"
	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/scheduler"
	"github.com/GriffinCanCode/miniapp/backend/internal/providers/host"
	"github.com/GriffinCanCode/miniapp/backend/internal/providers/request"
	"github.com/GriffinCanCode/miniapp/backend/internal/shared/apperr"
	"go.uber.org/zap"
)

var (
	ErrAlreadyLaunched = errors.New("shell already launched")
	ErrClosed          = errors.New("shell closed")
)

// Phase is the shell lifecycle phase
type Phase int32

const (
	PhaseUninitialized Phase = iota
	PhaseLaunched
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseLaunched:
		return "launched"
	case PhaseClosed:
		return "closed"
	default:
		return fmt.Sprintf("phase(%d)", int32(p))
	}
}

// Deps are the collaborators of a shell. Nil fields get defaults.
type Deps struct {
	Querier   host.SystemQuerier
	Network   host.Network
	Requester *request.Requester
	Clock     clock.Clock
	Logger    *zap.Logger
	DebugOut  *zap.Logger
	Metrics   *monitoring.Metrics

	// RequestOptions apply when the shell builds its own Requester
	RequestOptions []request.Option
}

// Shell is the composed application surface
type Shell struct {
	mu          sync.Mutex
	phase       Phase
	cancelQuery context.CancelFunc
	queryDone   chan struct{}
	heartbeat   *scheduler.Task

	cfg       Config
	state     *state.State
	bus       *events.Emitter
	debug     *logging.DebugLog
	requester *request.Requester
	querier   host.SystemQuerier
	clock     clock.Clock
	logger    *zap.Logger
	metrics   *monitoring.Metrics
}

// New composes a shell
func New(cfg Config, deps Deps) *Shell {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.HostQueryPolicy == "" {
		cfg.HostQueryPolicy = PolicyIgnore
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clk := deps.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	querier := deps.Querier
	if querier == nil {
		querier = host.NewRuntimeQuerier("", "")
	}

	var busOpts []events.Option
	if deps.Metrics != nil {
		busOpts = append(busOpts, events.WithObserver(deps.Metrics.RecordEmit))
	}

	requester := deps.Requester
	if requester == nil {
		network := deps.Network
		if network == nil {
			network = host.NewRestyNetwork(logger)
		}
		opts := append([]request.Option{
			request.WithLogger(logger.Named("request")),
			request.WithMetrics(deps.Metrics),
		}, deps.RequestOptions...)
		requester = request.New(network, opts...)
	}

	st := state.New()
	st.SetDebug(cfg.Debug)

	return &Shell{
		cfg:       cfg,
		state:     st,
		bus:       events.New(busOpts...),
		debug:     logging.NewDebugLog(st, deps.DebugOut),
		requester: requester,
		querier:   querier,
		clock:     clk,
		logger:    logger,
		metrics:   deps.Metrics,
	}
}

// Launch starts the host system query and the heartbeat
func (s *Shell) Launch(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseLaunched:
		return ErrAlreadyLaunched
	case PhaseClosed:
		return ErrClosed
	}

	task, err := scheduler.Every(s.clock, s.cfg.TickInterval, s.tick)
	if err != nil {
		return fmt.Errorf("start heartbeat: %w", err)
	}
	s.state.SetHeartbeat(task)
	s.heartbeat = task

	queryCtx, cancel := context.WithCancel(ctx)
	s.cancelQuery = cancel
	s.queryDone = make(chan struct{})
	go s.querySystem(queryCtx, s.queryDone)

	s.phase = PhaseLaunched
	s.logger.Info("shell launched",
		zap.Duration("tick_interval", s.cfg.TickInterval),
		zap.String("host_query_policy", string(s.cfg.HostQueryPolicy)))

	return nil
}

// Close stops the heartbeat and any pending host query. It returns after a
// tick in progress has been delivered, so no app:tick follows it. Closing
// twice is a no-op. Close must not be called from an app:tick handler.
func (s *Shell) Close() error {
	s.mu.Lock()
	if s.phase == PhaseClosed {
		s.mu.Unlock()
		return nil
	}

	heartbeat := s.heartbeat
	s.state.StopHeartbeat()
	if s.cancelQuery != nil {
		s.cancelQuery()
	}
	s.phase = PhaseClosed
	s.mu.Unlock()

	if heartbeat != nil {
		heartbeat.Wait()
	}
	s.logger.Info("shell closed")
	return nil
}

// WaitSystemQuery blocks until the launch-time host query has finished
func (s *Shell) WaitSystemQuery(ctx context.Context) error {
	s.mu.Lock()
	done := s.queryDone
	s.mu.Unlock()

	if done == nil {
		return errors.New("shell not launched")
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Shell) querySystem(ctx context.Context, done chan struct{}) {
	defer close(done)

	info, err := s.querier.SystemInfo(ctx)
	if err != nil {
		s.hostQueryFailed(err)
		return
	}
	if ctx.Err() != nil {
		return
	}

	if s.state.SetSystem(info) {
		s.bus.Emit(SystemEvent, info)
	}
}

func (s *Shell) hostQueryFailed(err error) {
	if apperr.KindOf(err) == apperr.Unknown {
		err = apperr.New(apperr.HostQueryFailed, "shell.launch", err)
	}

	if s.cfg.HostQueryPolicy == PolicyLog {
		s.logger.Warn("host system query failed", zap.Error(err))
	}
}

func (s *Shell) tick() {
	if s.metrics != nil {
		s.metrics.IncTicks()
	}
	s.bus.Emit(TickEvent, TickPayload)
}

// Log writes a debug line when the debug flag is set
func (s *Shell) Log(namespace string, values ...any) {
	s.debug.Log(namespace, values...)
}

// Request submits a call through the shell's requester
func (s *Shell) Request(url string, opts request.Options, handle *request.Handle) *request.Future {
	return s.requester.Submit(url, opts, handle)
}

// On registers a handler for name
func (s *Shell) On(name string, h events.Handler) events.Subscription {
	return s.bus.On(name, h)
}

// Off removes every handler of name
func (s *Shell) Off(name string) {
	s.bus.Off(name)
}

// Emit delivers payload to the handlers of name
func (s *Shell) Emit(name string, payload any) {
	s.bus.Emit(name, payload)
}

// Events returns a snapshot of the registered handlers by name
func (s *Shell) Events() map[string][]events.Handler {
	return s.bus.All()
}

// State returns the application state
func (s *Shell) State() *state.State { return s.state }

// Bus returns the event bus
func (s *Shell) Bus() *events.Emitter { return s.bus }

// Requester returns the request wrapper
func (s *Shell) Requester() *request.Requester { return s.requester }

// Config returns the shell settings
func (s *Shell) Config() Config { return s.cfg }

// Phase returns the lifecycle phase
func (s *Shell) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}
