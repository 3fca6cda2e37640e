package api

import (
	"net/http"
)

// HandleDeleteById handles DELETE /user?id=
func (h *Handler) HandleDeleteById(w http.ResponseWriter, r *http.Request) {
	id, err := stringParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	n, err := h.users.DeleteByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, DeletedResponse{DeletedCount: n})
}
