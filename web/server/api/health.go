package api

import (
	"net/http"

	"go.hackfix.me/benchd/web/server/api/util"
)

// Health reports that the server is alive.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	_ = util.WriteText(w, http.StatusOK, "ok")
}
