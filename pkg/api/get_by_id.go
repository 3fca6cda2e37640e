package api

import (
	"net/http"
)

// HandleGetById handles GET /users?id= to retrieve a single user
func (h *Handler) HandleGetById(w http.ResponseWriter, r *http.Request) {
	id, err := stringParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
