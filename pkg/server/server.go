// Package server exposes the compatibility validator over HTTP, along with
// the dashboard's session/message forwarding routes.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"tessera-hq/tessera/pkg/config"
	"tessera-hq/tessera/pkg/history"
	"tessera-hq/tessera/pkg/rules"
	"tessera-hq/tessera/pkg/telemetry/metrics"
)

// Server is the HTTP server for validation and forwarding traffic.
type Server struct {
	config       *config.Config
	logger       *slog.Logger
	ruleManager  *rules.Manager
	collector    *metrics.Collector
	store        history.Store
	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.Mutex
	isRunning    bool
}

// Options carries the server's collaborators. Collector and Store are
// optional; a nil value disables metrics recording or report persistence.
type Options struct {
	Config      *config.Config
	Logger      *slog.Logger
	RuleManager *rules.Manager
	Collector   *metrics.Collector
	Store       history.Store
}

// New creates a server from its options.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.RuleManager == nil {
		return nil, fmt.Errorf("rule manager is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		config:      opts.Config,
		logger:      logger,
		ruleManager: opts.RuleManager,
		collector:   opts.Collector,
		store:       opts.Store,
	}, nil
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler, err := s.setupRoutes()
	if err != nil {
		return err
	}

	s.httpServer = &http.Server{
		Addr:           s.config.Server.ListenAddress,
		Handler:        handler,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "address", s.config.Server.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info("initiating graceful shutdown",
			"timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("server stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() (http.Handler, error) {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/validate", s.handleValidate)
	mux.HandleFunc("GET /v1/rules", s.handleRules)
	mux.HandleFunc("GET /v1/reports", s.handleListReports)
	mux.HandleFunc("GET /v1/reports/{id}", s.handleGetReport)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	if s.collector != nil && s.config.Telemetry.Metrics.Enabled {
		mux.Handle("GET /metrics", s.collector.Handler())
	}

	if s.config.Upstream.BaseURL != "" {
		forwarder, err := newForwarder(s.config.Upstream, s.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to build upstream forwarder: %w", err)
		}
		mux.Handle("/v1/sessions/", forwarder)
		mux.Handle("/v1/messages/", forwarder)
	}

	var handler http.Handler = mux
	handler = loggingMiddleware(s.logger)(handler)
	handler = requestIDMiddleware(handler)
	handler = recoveryMiddleware(s.logger)(handler)

	return handler, nil
}
