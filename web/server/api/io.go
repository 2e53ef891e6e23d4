package api

import (
	"context"
	"net/http"

	"github.com/nrednav/cuid2"

	"go.hackfix.me/benchd/web/server/api/util"
	"go.hackfix.me/benchd/web/server/middleware"
	"go.hackfix.me/benchd/web/server/types"
	"go.hackfix.me/benchd/workload"
)

// IO writes generated lines to a temporary file, reads them back and deletes
// the file, on the I/O worker pool.
func (h *Handler) IO(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetRequestID(r.Context())
	if id == "" {
		id = cuid2.Generate()
	}

	iocfg := h.appCtx.Config.Workload.IO
	rt := workload.FileRoundTrip{FS: h.appCtx.FS, Dir: iocfg.Dir.V, Lines: iocfg.Lines.V}

	var lines int
	err := h.ioPool.Do(r.Context(), func(ctx context.Context) error {
		var err error
		lines, err = rt.Run(ctx, id)
		return err
	})
	if err != nil {
		h.writeWorkloadError(w, r, "I/O workload failed", err)
		return
	}

	_ = util.WriteJSON(w, types.IOResponse{Status: "ok", LinesWritten: lines})
}
