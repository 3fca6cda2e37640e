package api

import (
	"net/http"
)

// HandleFindAll handles GET /allUsers?page= and returns one page of name and
// age summaries ordered by age
func (h *Handler) HandleFindAll(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", defaultInt(1))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	summaries, err := h.users.ListAll(r.Context(), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}
