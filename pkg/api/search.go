package api

import (
	"net/http"
)

// HandleSearch handles GET /users/search?query=&page=
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	text, err := stringParam(r, "query")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, err := intParam(r, "page", defaultInt(1))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	results, err := h.users.SearchUsers(r.Context(), text, page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}
