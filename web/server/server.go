package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	actx "go.hackfix.me/benchd/app/context"
	"go.hackfix.me/benchd/metrics"
	"go.hackfix.me/benchd/web/server/api"
	"go.hackfix.me/benchd/web/server/middleware"
)

// Server is a wrapper around http.Server with some custom behavior.
type Server struct {
	*http.Server
	logger     *slog.Logger
	registry   *prometheus.Registry
	cancelReqs context.CancelFunc
}

// New returns a new web Server instance that will listen on addr. Each Server
// has its own metrics registry.
func New(appCtx *actx.Context, addr string) *Server {
	logger := appCtx.Logger.With("component", "web-server")
	reg := metrics.NewRegistry()

	// Request contexts are detached from the app context. They're only
	// cancelled by Shutdown, once its timeout is reached.
	baseCtx, cancel := context.WithCancel(context.WithoutCancel(appCtx.Ctx))

	srv := &Server{
		Server: &http.Server{
			Handler:           SetupHandlers(appCtx, logger, reg),
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      10 * time.Minute,
			BaseContext:       func(net.Listener) context.Context { return baseCtx },
		},
		logger:     logger,
		registry:   reg,
		cancelReqs: cancel,
	}

	return srv
}

// ListenAndServe starts the HTTP server. It stores the actual listen address,
// which is convenient when the address is dynamically determined by the system
// (e.g. ':0').
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		//nolint:wrapcheck // This is fine.
		return err
	}

	s.Addr = ln.Addr().String()
	s.logger.Info("started listener", "address", s.Addr)

	//nolint:wrapcheck // This is fine.
	return s.Serve(ln)
}

// Shutdown stops accepting connections and waits up to timeout for in-flight
// requests to finish. Requests still running after that have their context
// cancelled, and the remaining connections are closed.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	defer s.cancelReqs()

	err := s.Server.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		s.logger.Warn("shutdown timeout reached, aborting in-flight requests", "timeout", timeout)
		s.cancelReqs()
		err = s.Close()
	}
	if err != nil {
		return fmt.Errorf("failed shutting down web server: %w", err)
	}

	return nil
}

// Registry returns the metrics registry of the server.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// SetupHandlers configures the server HTTP handlers.
func SetupHandlers(appCtx *actx.Context, logger *slog.Logger, reg *prometheus.Registry) http.Handler {
	return middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(logger),
		api.SetupHandlers(appCtx, logger, reg),
	)
}
