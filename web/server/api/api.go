package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/prometheus/client_golang/prometheus"

	actx "go.hackfix.me/benchd/app/context"
	"go.hackfix.me/benchd/metrics"
	"go.hackfix.me/benchd/web/server/api/util"
	"go.hackfix.me/benchd/web/server/middleware"
	"go.hackfix.me/benchd/web/server/types"
	"go.hackfix.me/benchd/workload"
)

// Route describes an endpoint served by the API.
type Route struct {
	Method      string
	Path        string
	Description string
}

// Pattern returns the ServeMux pattern of the route.
func (r Route) Pattern() string {
	return r.Method + " " + r.Path
}

var routes = []Route{
	{Method: http.MethodGet, Path: "/health", Description: "Liveness check"},
	{Method: http.MethodGet, Path: "/cpu", Description: "Compute SHA-256 hashes (?iterations=N)"},
	{Method: http.MethodGet, Path: "/io", Description: "Write, read back and delete a temporary file"},
	{Method: http.MethodGet, Path: "/json", Description: "Encode and decode a large JSON document"},
	{Method: http.MethodGet, Path: "/stream", Description: "Stream text chunks at a fixed interval"},
	{Method: http.MethodGet, Path: "/metrics", Description: "Prometheus metrics"},
}

// Routes returns all routes served by the API.
func Routes() []Route {
	return slices.Clone(routes)
}

// Handler is the API endpoint handler.
type Handler struct {
	appCtx  *actx.Context
	logger  *slog.Logger
	cpuPool *workload.Pool
	ioPool  *workload.Pool
}

// SetupHandlers configures the API handlers. Every route is instrumented with
// request metrics registered on reg, which is also exposed on /metrics. The
// application configuration must have its defaults set.
func SetupHandlers(appCtx *actx.Context, logger *slog.Logger, reg *prometheus.Registry) http.Handler {
	wcfg := appCtx.Config.Workload
	h := &Handler{
		appCtx:  appCtx,
		logger:  logger,
		cpuPool: workload.NewPool("cpu", wcfg.CPU.Workers.V),
		ioPool:  workload.NewPool("io", wcfg.IO.Workers.V),
	}
	handlers := map[string]http.Handler{
		"/health":  http.HandlerFunc(h.Health),
		"/cpu":     http.HandlerFunc(h.CPU),
		"/io":      http.HandlerFunc(h.IO),
		"/json":    http.HandlerFunc(h.JSON),
		"/stream":  http.HandlerFunc(h.Stream),
		"/metrics": metrics.Handler(reg),
	}

	m := metrics.NewHTTP(reg)
	mux := http.NewServeMux()
	for _, rt := range routes {
		mux.Handle(rt.Pattern(), middleware.Chain(middleware.Instrument(m, rt.Path), handlers[rt.Path]))
	}

	return mux
}

// writeWorkloadError responds to a failed pooled job. Jobs abandoned because the
// request was cancelled get a 503, everything else a 500.
func (h *Handler) writeWorkloadError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		h.logger.Debug(msg, "error", err.Error(), "request_id", middleware.GetRequestID(r.Context()))
		_ = util.WriteJSON(w, types.NewUnavailableError("request cancelled before completion"))
		return
	}

	h.logger.Error(msg, "error", err.Error(), "request_id", middleware.GetRequestID(r.Context()))
	_ = util.WriteJSON(w, types.NewInternalError(msg))
}
