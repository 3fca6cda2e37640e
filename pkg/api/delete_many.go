package api

import (
	"net/http"
)

// HandleDeleteMany handles DELETE /users?age= and removes every user older
// than age
func (h *Handler) HandleDeleteMany(w http.ResponseWriter, r *http.Request) {
	age, err := intParam(r, "age", nil)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	n, err := h.users.DeleteWhereAgeGreaterThan(r.Context(), age)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.log.Infow("users deleted", "age_gt", age, "count", n)
	writeJSON(w, http.StatusOK, DeletedResponse{DeletedCount: n})
}
