package api

import (
	"net/http"
)

// HandleDashboard handles GET /dashboard
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.users.Dashboard(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dash)
}
