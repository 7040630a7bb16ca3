// Package api provides the diagnostics HTTP and WebSocket server.
//
// It exposes the shim's runtime state (hook installations, wrapped
// devices, the live gaze stream) for dashboards and debugging. The
// surface is read-only: nothing here mutates the shim.
//
// The server follows the same lifecycle pattern as the other
// infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tallowisp/gazeshim/internal/hook"
	"github.com/tallowisp/gazeshim/internal/infrastructure/config"
	"github.com/tallowisp/gazeshim/internal/infrastructure/logging"
	"github.com/tallowisp/gazeshim/internal/shim"
	"github.com/tallowisp/gazeshim/internal/telemetry"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight
// requests to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the diagnostics server.
type Deps struct {
	Config   config.APIConfig
	WS       config.WebSocketConfig
	Logger   *logging.Logger
	Recorder *telemetry.Recorder
	Plugin   *shim.Plugin
	Hooks    *hook.Registry
	Version  string
}

// Server is the diagnostics HTTP server.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg      config.APIConfig
	wsCfg    config.WebSocketConfig
	logger   *logging.Logger
	recorder *telemetry.Recorder
	plugin   *shim.Plugin
	hooks    *hook.Registry
	version  string
	started  time.Time
	server   *http.Server
	hub      *Hub
	cancel   context.CancelFunc
}

// New creates a diagnostics server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, recorder)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Recorder == nil {
		return nil, fmt.Errorf("recorder is required")
	}

	return &Server{
		cfg:      deps.Config,
		wsCfg:    deps.WS,
		logger:   deps.Logger,
		recorder: deps.Recorder,
		plugin:   deps.Plugin,
		hooks:    deps.Hooks,
		version:  deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It starts the WebSocket hub, subscribes to the recorder's sample
// stream for live broadcast, and launches the HTTP listener in a
// background goroutine. The server is stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.started = time.Now()
	s.hub = NewHub(s.wsCfg, s.logger)
	go s.hub.Run(srvCtx)

	// Every published sample goes out to connected WebSocket clients.
	// The hub drops messages for slow clients rather than blocking the
	// poller.
	s.recorder.SetOnSample(func(serial string, sample telemetry.Sample) {
		s.hub.BroadcastSample(serial, sample)
	})

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("diagnostics server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("diagnostics server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the diagnostics server.
//
// It waits up to 10 seconds for in-flight requests to complete, then
// forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	s.recorder.SetOnSample(nil)
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("diagnostics server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down diagnostics server: %w", err)
	}
	return nil
}
