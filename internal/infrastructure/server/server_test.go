package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/miniapp/backend/internal/domain/events"
	"github.com/GriffinCanCode/miniapp/backend/internal/domain/shell"
	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/clock/clocktest"
	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/miniapp/backend/internal/providers/host"
)

type nopNetwork struct{}

func (nopNetwork) Request(host.RequestOption) host.RequestTask { return nopTask{} }

type nopTask struct{}

func (nopTask) Abort() {}

func newTestServer(t *testing.T, mutate func(*config.Config)) (*Server, *clocktest.Fake) {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Port = "0"
	cfg.Logging.Development = true
	if mutate != nil {
		mutate(cfg)
	}

	clk := clocktest.NewFake(time.Unix(0, 0))
	srv, err := NewServer(cfg, Options{
		Logger: logging.NewNop(),
		Querier: host.SystemQuerierFunc(func(context.Context) (*host.SystemInfo, error) {
			return &host.SystemInfo{Platform: "android"}, nil
		}),
		Network: nopNetwork{},
		Clock:   clk,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	return srv, clk
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestConsoleRoutes(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	require.NoError(t, srv.Shell().Launch(context.Background()))
	require.NoError(t, srv.Shell().WaitSystemQuery(context.Background()))

	w := get(t, srv, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = get(t, srv, "/system")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"platform":"android"`)

	w = get(t, srv, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "miniapp_console_requests_total"))
}

func TestConfigFlowsIntoShell(t *testing.T) {
	srv, clk := newTestServer(t, func(c *config.Config) {
		c.App.Debug = true
		c.App.TickIntervalMS = 200
		c.App.Version = "5.0.0"
	})

	assert.True(t, srv.Shell().State().Debug())
	assert.Equal(t, 200*time.Millisecond, srv.Shell().Config().TickInterval)
	assert.Equal(t, "5.0.0", srv.Shell().Requester().Defaults().Header["version"])

	ticks := 0
	srv.Shell().On(shell.TickEvent, func(events.Event) { ticks++ })
	require.NoError(t, srv.Shell().Launch(context.Background()))
	clk.Advance(time.Second)
	assert.Equal(t, 5, ticks)
}

func TestInvalidPolicyRejected(t *testing.T) {
	cfg := config.Default()
	cfg.App.HostQueryPolicy = "retry"

	_, err := NewServer(cfg, Options{Logger: logging.NewNop(), Network: nopNetwork{}})
	assert.Error(t, err)
}

func TestConsoleDisabled(t *testing.T) {
	srv, _ := newTestServer(t, func(c *config.Config) { c.Server.ConsoleEnabled = false })
	assert.Nil(t, srv.Router())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool {
		return srv.Shell().Phase() == shell.PhaseLaunched
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunServesAndShutsDown(t *testing.T) {
	srv, _ := newTestServer(t, func(c *config.Config) { c.Server.Host = "127.0.0.1" })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool {
		return srv.Shell().Phase() == shell.PhaseLaunched
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestLoggerConfig(t *testing.T) {
	prod := loggerConfig(config.LogConfig{Level: "warn"})
	assert.Equal(t, "warn", prod.Level)
	assert.False(t, prod.Development)

	dev := loggerConfig(config.LogConfig{Development: true})
	assert.Equal(t, logging.DevelopmentConfig(), dev)
}
