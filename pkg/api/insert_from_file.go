package api

import (
	"net/http"
)

// SeedResponse reports how many users a seed file contributed
type SeedResponse struct {
	Success       bool `json:"success"`
	InsertedCount int  `json:"insertedCount"`
}

// HandleInsertFromFile handles POST /usersFromFile by loading the configured
// seed file
func (h *Handler) HandleInsertFromFile(w http.ResponseWriter, r *http.Request) {
	n, err := h.users.SeedFromFile(r.Context(), h.seedFile)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.log.Infow("users loaded from file", "path", h.seedFile, "count", n)
	writeJSON(w, http.StatusCreated, SeedResponse{Success: true, InsertedCount: n})
}
