package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"go.hackfix.me/benchd/web/server/api/util"
	"go.hackfix.me/benchd/web/server/types"
	"go.hackfix.me/benchd/workload"
)

// CPU computes the number of SHA-256 hashes given by the iterations query
// parameter on the CPU worker pool.
func (h *Handler) CPU(w http.ResponseWriter, r *http.Request) {
	iterations := h.appCtx.Config.Workload.CPU.DefaultIterations.V
	if q := r.URL.Query(); q.Has("iterations") {
		var err error
		iterations, err = strconv.Atoi(q.Get("iterations"))
		if err != nil {
			_ = util.WriteJSON(w, types.NewBadRequestError(
				fmt.Sprintf("invalid iterations value '%s': must be an integer", q.Get("iterations"))))
			return
		}
	}

	err := h.cpuPool.Do(r.Context(), func(ctx context.Context) error {
		_, err := workload.Hash(ctx, iterations)
		return err
	})
	if err != nil {
		h.writeWorkloadError(w, r, "CPU workload failed", err)
		return
	}

	_ = util.WriteJSON(w, types.CPUResponse{Message: workload.HashSummary(iterations)})
}
