package api

import (
	"net/http"

	"go.hackfix.me/benchd/web/server/api/util"
	"go.hackfix.me/benchd/web/server/middleware"
	"go.hackfix.me/benchd/web/server/types"
	"go.hackfix.me/benchd/workload"
)

// JSON encodes a synthetic document, decodes it into a generic value and
// returns the decoded value.
func (h *Handler) JSON(w http.ResponseWriter, r *http.Request) {
	payload := workload.Synthesize(h.appCtx.Config.Workload.JSON.Users.V)

	v, err := workload.RoundTrip(payload)
	if err != nil {
		h.logger.Error("JSON workload failed",
			"error", err.Error(), "request_id", middleware.GetRequestID(r.Context()))
		_ = util.WriteJSON(w, types.NewInternalError("JSON workload failed"))
		return
	}

	_ = util.WriteJSON(w, v)
}
