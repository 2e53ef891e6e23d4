package cli

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	actx "go.hackfix.me/benchd/app/context"
	"go.hackfix.me/benchd/web/server"
)

// Serve starts the web server.
type Serve struct {
	//nolint:lll // Long struct tags are unavoidable.
	Address         string        `arg:"" optional:"" help:"[host]:port to listen on. Falls back to the configured address, then to the HOST and PORT environment variables, then to :8000."`
	ShutdownTimeout time.Duration `help:"Maximum time in-flight requests are given to complete on shutdown."`
}

// Run the serve command.
func (c *Serve) Run(appCtx *actx.Context) error {
	addr := c.Address
	if addr == "" {
		addr = envAddress(appCtx.Env)
	}
	timeout := c.ShutdownTimeout
	if timeout <= 0 {
		timeout = appCtx.Config.Server.ShutdownTimeout.V
	}

	srv := server.New(appCtx, addr)
	logger := appCtx.Logger.With("component", "serve")

	// Gracefully shutdown the server if a process signal is received, or the
	// main context is done.
	srvDone := make(chan error, 1)
	go func() {
		srvErr := srv.ListenAndServe()
		logger.Debug("web server shutdown")
		srvDone <- srvErr
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case s := <-sigCh:
		logger.Debug("process received signal", "signal", s)
	case <-appCtx.Ctx.Done():
		logger.Debug("app context is done")
	case srvErr := <-srvDone:
		if srvErr != nil && !errors.Is(srvErr, http.ErrServerClosed) {
			return fmt.Errorf("web server error: %w", srvErr)
		}
		return nil
	}

	logger.Info("shutting down web server", "timeout", timeout)
	if err := srv.Shutdown(timeout); err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	return nil
}

// envAddress builds the listen address from the HOST and PORT environment
// variables. An unset HOST listens on all interfaces, and an unset PORT is
// 8000.
func envAddress(env actx.Environment) string {
	port := "8000"
	if env == nil {
		return net.JoinHostPort("", port)
	}
	if p := env.Get("PORT"); p != "" {
		port = p
	}

	return net.JoinHostPort(env.Get("HOST"), port)
}
