package shell

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GriffinCanCode/miniapp/backend/internal/domain/events"
	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/clock/clocktest"
	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/miniapp/backend/internal/providers/host"
	"github.com/GriffinCanCode/miniapp/backend/internal/providers/host/hosttest"
	"github.com/GriffinCanCode/miniapp/backend/internal/providers/request"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// gatedQuerier answers only after release is closed
type gatedQuerier struct {
	release chan struct{}
	info    *host.SystemInfo
	err     error
}

func (q *gatedQuerier) SystemInfo(ctx context.Context) (*host.SystemInfo, error) {
	select {
	case <-q.release:
		return q.info, q.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type stubNetwork struct {
	mu    sync.Mutex
	calls []host.RequestOption
}

func (n *stubNetwork) Request(opt host.RequestOption) host.RequestTask {
	n.mu.Lock()
	n.calls = append(n.calls, opt)
	n.mu.Unlock()
	opt.Success(&host.RequestResult{StatusCode: 200, Data: []byte(`{"a":1}`)})
	return stubTask{}
}

type stubTask struct{}

func (stubTask) Abort() {}

func newTestShell(t *testing.T, cfg Config, q host.SystemQuerier) (*Shell, *clocktest.Fake) {
	t.Helper()
	clk := clocktest.NewFake(time.Unix(0, 0))
	s := New(cfg, Deps{
		Querier: q,
		Network: &stubNetwork{},
		Clock:   clk,
	})
	t.Cleanup(func() { _ = s.Close() })
	return s, clk
}

func TestSystemInfoAbsentUntilQueryResolves(t *testing.T) {
	q := &gatedQuerier{release: make(chan struct{}), info: &host.SystemInfo{Platform: "ios"}}
	s, _ := newTestShell(t, DefaultConfig(), q)

	var received []*host.SystemInfo
	var mu sync.Mutex
	events.Subscribe(s.Bus(), SystemEvent, func(info *host.SystemInfo) {
		mu.Lock()
		received = append(received, info)
		mu.Unlock()
	})

	require.NoError(t, s.Launch(context.Background()))
	assert.Equal(t, PhaseLaunched, s.Phase())

	time.Sleep(20 * time.Millisecond)
	assert.Nil(t, s.State().System(), "system info must be absent before the query resolves")

	close(q.release)
	require.NoError(t, s.WaitSystemQuery(context.Background()))

	info := s.State().System()
	require.NotNil(t, info)
	assert.Equal(t, "ios", info.Platform)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Same(t, info, received[0])
}

func TestHeartbeatFiresOncePerInterval(t *testing.T) {
	s, clk := newTestShell(t, DefaultConfig(), host.SystemQuerierFunc(func(context.Context) (*host.SystemInfo, error) {
		return &host.SystemInfo{}, nil
	}))

	var payloads []any
	s.On(TickEvent, func(e events.Event) { payloads = append(payloads, e.Payload) })

	require.NoError(t, s.Launch(context.Background()))
	assert.True(t, s.State().HasHeartbeat())

	clk.Advance(DefaultTickInterval - time.Millisecond)
	assert.Empty(t, payloads)
	clk.Advance(time.Millisecond)

	clk.Advance(DefaultTickInterval)
	clk.Advance(DefaultTickInterval)

	assert.Equal(t, []any{TickPayload, TickPayload, TickPayload}, payloads)
}

func TestCustomTickInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickInterval = 250 * time.Millisecond
	s, clk := newTestShell(t, cfg, host.SystemQuerierFunc(func(context.Context) (*host.SystemInfo, error) {
		return nil, errors.New("unavailable")
	}))

	ticks := 0
	s.On(TickEvent, func(events.Event) { ticks++ })
	require.NoError(t, s.Launch(context.Background()))

	clk.Advance(time.Second)
	assert.Equal(t, 4, ticks)
}

func TestCloseStopsHeartbeat(t *testing.T) {
	s, clk := newTestShell(t, DefaultConfig(), &gatedQuerier{release: make(chan struct{})})

	ticks := 0
	s.On(TickEvent, func(events.Event) { ticks++ })
	require.NoError(t, s.Launch(context.Background()))

	clk.Advance(DefaultTickInterval)
	require.NoError(t, s.Close())
	clk.Advance(5 * DefaultTickInterval)

	assert.Equal(t, 1, ticks)
	assert.Equal(t, PhaseClosed, s.Phase())
	assert.False(t, s.State().HasHeartbeat())
	assert.Zero(t, clk.Pending())

	// the pending query is cancelled and never stores anything
	require.NoError(t, s.WaitSystemQuery(context.Background()))
	assert.Nil(t, s.State().System())

	require.NoError(t, s.Close())
}

func TestCloseWaitsForTickInProgress(t *testing.T) {
	s, clk := newTestShell(t, DefaultConfig(), &gatedQuerier{release: make(chan struct{})})

	entered := make(chan struct{})
	release := make(chan struct{})
	var ticks atomic.Int32
	s.On(TickEvent, func(events.Event) {
		if ticks.Add(1) == 1 {
			close(entered)
			<-release
		}
	})
	require.NoError(t, s.Launch(context.Background()))

	go clk.Advance(DefaultTickInterval)
	<-entered

	closed := make(chan struct{})
	go func() {
		_ = s.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while a tick was being delivered")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close did not return after the tick finished")
	}

	clk.Advance(5 * DefaultTickInterval)
	assert.Equal(t, int32(1), ticks.Load())
	assert.Equal(t, PhaseClosed, s.Phase())
}

func TestLaunchPhaseErrors(t *testing.T) {
	s, _ := newTestShell(t, DefaultConfig(), &gatedQuerier{release: make(chan struct{})})

	err := s.WaitSystemQuery(context.Background())
	assert.Error(t, err)

	require.NoError(t, s.Launch(context.Background()))
	assert.ErrorIs(t, s.Launch(context.Background()), ErrAlreadyLaunched)

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Launch(context.Background()), ErrClosed)
}

func TestHostQueryFailurePolicies(t *testing.T) {
	tests := []struct {
		name     string
		policy   HostQueryPolicy
		wantWarn int
	}{
		{"ignore", PolicyIgnore, 0},
		{"log", PolicyLog, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			cfg := DefaultConfig()
			cfg.HostQueryPolicy = tt.policy

			s := New(cfg, Deps{
				Querier: host.SystemQuerierFunc(func(context.Context) (*host.SystemInfo, error) {
					return nil, errors.New("host unavailable")
				}),
				Network: &stubNetwork{},
				Clock:   clocktest.NewFake(time.Unix(0, 0)),
				Logger:  zap.New(core),
			})
			defer s.Close()

			require.NoError(t, s.Launch(context.Background()))
			require.NoError(t, s.WaitSystemQuery(context.Background()))

			assert.Nil(t, s.State().System())
			assert.Equal(t, tt.wantWarn, logs.FilterMessage("host system query failed").Len())
		})
	}
}

func TestParseHostQueryPolicy(t *testing.T) {
	p, err := ParseHostQueryPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyIgnore, p)

	p, err = ParseHostQueryPolicy(" LOG ")
	require.NoError(t, err)
	assert.Equal(t, PolicyLog, p)

	_, err = ParseHostQueryPolicy("retry")
	assert.Error(t, err)
}

func TestLogReadsDebugFlagAtCallTime(t *testing.T) {
	var buf bytes.Buffer
	s := New(DefaultConfig(), Deps{
		Network:  &stubNetwork{},
		DebugOut: logging.NewDiagnostic(zapcore.AddSync(&buf)),
	})

	s.Log("page", "hidden")
	assert.Empty(t, buf.String())

	s.State().SetDebug(true)
	s.Log("page", "shown", 1)
	assert.Equal(t, "[page]: shown 1\n", buf.String())
}

func TestComposedSurface(t *testing.T) {
	net := &stubNetwork{}
	m := monitoring.NewMetrics()
	s := New(DefaultConfig(), Deps{
		Network:        net,
		Clock:          clocktest.NewFake(time.Unix(0, 0)),
		Metrics:        m,
		RequestOptions: []request.Option{request.WithVersion("3.0.0")},
	})

	var got []events.Event
	s.On("page:ready", func(e events.Event) { got = append(got, e) })
	s.On("page:ready", func(e events.Event) { got = append(got, e) })
	assert.Len(t, s.Events()["page:ready"], 2)

	s.Emit("page:ready", 42)
	require.Len(t, got, 2)
	assert.Equal(t, 42, got[1].Payload)

	s.Off("page:ready")
	s.Emit("page:ready", 43)
	assert.Len(t, got, 2)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.EventsEmitted.WithLabelValues("page:ready")))

	res, err := s.Request("https://example.test/a", request.Options{}, nil).Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, "3.0.0", net.calls[0].Header[request.VersionHeader])

	s.State().GlobalData().Set("user", "ada")
	v, ok := s.State().GlobalData().Get("user")
	require.True(t, ok)
	assert.Equal(t, "ada", v)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "uninitialized", PhaseUninitialized.String())
	assert.Equal(t, "launched", PhaseLaunched.String())
	assert.Equal(t, "closed", PhaseClosed.String())
}

func TestLaunchQueriesHostOnceAndRequestsThroughNetwork(t *testing.T) {
	q := &hosttest.MockSystemQuerier{}
	q.On("SystemInfo", mock.Anything).Return(&host.SystemInfo{Platform: "devtools"}, nil).Once()

	net := &hosttest.MockNetwork{}
	net.On("Request", mock.MatchedBy(func(o host.RequestOption) bool {
		return o.URL == "https://example.test/user" && o.Timeout == 5*time.Second
	})).Run(hosttest.Respond(404, `{"error":"missing"}`)).Return(nil).Once()

	s := New(DefaultConfig(), Deps{Querier: q, Network: net, Clock: clocktest.NewFake(time.Unix(0, 0))})
	defer s.Close()

	require.NoError(t, s.Launch(context.Background()))
	require.NoError(t, s.WaitSystemQuery(context.Background()))
	assert.Equal(t, "devtools", s.State().System().Platform)

	_, err := s.Request("https://example.test/user", request.Options{Timeout: 5 * time.Second}, nil).Await(context.Background())
	var statusErr *request.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 404, statusErr.StatusCode())

	q.AssertExpectations(t)
	net.AssertExpectations(t)
}
