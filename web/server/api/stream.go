package api

import (
	"net/http"

	"go.hackfix.me/benchd/web/server/middleware"
	"go.hackfix.me/benchd/workload"
)

// Stream writes a fixed number of text chunks, flushing each one and waiting
// the configured interval after it. It stops silently if the client goes away
// or a write fails.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	scfg := h.appCtx.Config.Workload.Stream
	s := workload.Stream{
		Chunks:   scfg.Chunks.V,
		Interval: scfg.Interval.V,
		Clock:    h.appCtx.Clock,
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	n, err := s.Run(r.Context(), workload.ChunkWriterFunc(func(p []byte) error {
		if _, err := w.Write(p); err != nil {
			return err
		}
		return rc.Flush()
	}))
	if err != nil {
		h.logger.Debug("stream ended early",
			"chunks_sent", n, "error", err.Error(),
			"request_id", middleware.GetRequestID(r.Context()))
	}
}
