package api

import (
	"net/http"
)

// defaultRenameAge is the age threshold PATCH /users applies when none is given
const defaultRenameAge = 20

// HandleBatchUpdate handles PATCH /users?age=&name= and renames every user
// older than age
func (h *Handler) HandleBatchUpdate(w http.ResponseWriter, r *http.Request) {
	age, err := intParam(r, "age", defaultInt(defaultRenameAge))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	name := r.URL.Query().Get("name")

	ok, err := h.users.UpdateManyNameWhereAgeGreaterThan(r.Context(), age, name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Success: ok})
}
