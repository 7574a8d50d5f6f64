// Package server wires the shell and its debug console into one runnable
// process.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	consolehttp "github.com/GriffinCanCode/miniapp/backend/internal/api/http"
	"github.com/GriffinCanCode/miniapp/backend/internal/api/middleware"
	"github.com/GriffinCanCode/miniapp/backend/internal/api/ws"
	"github.com/GriffinCanCode/miniapp/backend/internal/domain/shell"
	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/clock"
	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/miniapp/backend/internal/providers/host"
	"github.com/GriffinCanCode/miniapp/backend/internal/providers/request"
)

const shutdownTimeout = 5 * time.Second

// Server wraps the shell, the console router and dependencies
type Server struct {
	router  *gin.Engine
	http    *http.Server
	shell   *shell.Shell
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// Options overrides collaborators, mainly for tests
type Options struct {
	Logger  *logging.Logger
	Querier host.SystemQuerier
	Network host.Network
	Clock   clock.Clock
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		var err error
		logger, err = logging.New(loggerConfig(cfg.Logging))
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	policy, err := shell.ParseHostQueryPolicy(cfg.App.HostQueryPolicy)
	if err != nil {
		return nil, err
	}

	logger.Info("Initializing miniapp shell",
		zap.String("version", cfg.App.Version),
		zap.Duration("tick_interval", cfg.TickInterval()),
		zap.Duration("request_timeout", cfg.RequestTimeout()),
		zap.Bool("console", cfg.Server.ConsoleEnabled),
	)

	metrics := monitoring.NewMetrics()

	querier := opts.Querier
	if querier == nil {
		querier = host.NewRuntimeQuerier(cfg.App.Platform, cfg.App.Version)
	}
	network := opts.Network
	if network == nil {
		network = host.NewRestyNetwork(logger.Named("network").Logger)
	}

	sh := shell.New(shell.Config{
		TickInterval:    cfg.TickInterval(),
		HostQueryPolicy: policy,
		Debug:           cfg.App.Debug,
	}, shell.Deps{
		Querier: querier,
		Network: network,
		Clock:   opts.Clock,
		Logger:  logger.Named("shell").Logger,
		Metrics: metrics,
		RequestOptions: []request.Option{
			request.WithVersion(cfg.App.Version),
			request.WithTimeout(cfg.RequestTimeout()),
		},
	})

	s := &Server{
		shell:   sh,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}

	if cfg.Server.ConsoleEnabled {
		s.router = s.newRouter()
		s.http = &http.Server{
			Addr:              cfg.Addr(),
			Handler:           s.router,
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	logger.Info("Server initialized successfully")
	return s, nil
}

func (s *Server) newRouter() *gin.Engine {
	if !s.config.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	consoleLog := s.logger.Named("console").Logger

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(consoleLog))
	router.Use(middleware.Recovery(consoleLog))
	router.Use(monitoring.Middleware(s.metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if s.config.RateLimit.Enabled {
		s.logger.Info("Rate limiting enabled",
			zap.Int("rps", s.config.RateLimit.RequestsPerSecond),
			zap.Int("burst", s.config.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: s.config.RateLimit.RequestsPerSecond,
			Burst:             s.config.RateLimit.Burst,
		}))
	}

	handlers := consolehttp.NewHandlers(s.shell, s.metrics, consoleLog)
	handlers.Register(router)

	wsHandler := ws.NewHandler(s.shell, s.metrics, s.logger.Named("stream").Logger)
	router.GET("/stream", wsHandler.HandleConnection)

	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	return router
}

// Shell returns the hosted shell
func (s *Server) Shell() *shell.Shell { return s.shell }

// Router returns the console router, nil when the console is disabled
func (s *Server) Router() *gin.Engine { return s.router }

// Run launches the shell and serves the console until ctx ends
func (s *Server) Run(ctx context.Context) error {
	if err := s.shell.Launch(ctx); err != nil {
		return fmt.Errorf("failed to launch shell: %w", err)
	}

	if s.http == nil {
		<-ctx.Done()
		return nil
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("Starting console server", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down console: %w", err)
		}
		return nil
	case err, ok := <-errChan:
		if !ok {
			return nil
		}
		return fmt.Errorf("console server error: %w", err)
	}
}

// Close gracefully shuts down the shell
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	if err := s.shell.Close(); err != nil {
		s.logger.Error("Failed to close shell", zap.Error(err))
		return fmt.Errorf("failed to close shell: %w", err)
	}

	// Sync logger before exit
	_ = s.logger.Sync()

	return nil
}

// loggerConfig starts from the production or development preset and applies
// the configured level
func loggerConfig(c config.LogConfig) logging.Config {
	lc := logging.DefaultConfig()
	if c.Development {
		lc = logging.DevelopmentConfig()
	}
	if c.Level != "" {
		lc.Level = c.Level
	}
	return lc
}
