package api

import (
	"net/http"

	"github.com/adfharrison1/go-users/pkg/domain"
)

// UpdateRequest is the body of PATCH /user: the identifier plus the fields
// to change. Absent fields are left untouched.
type UpdateRequest struct {
	ID string `json:"id"`
	domain.UserUpdate
}

// HandleUpdateById handles PATCH /user. A user that does not exist yet is
// created from the given fields.
func (h *Handler) HandleUpdateById(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	ok, err := h.users.UpdateUser(r.Context(), req.ID, req.UserUpdate)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Success: ok})
}
