package api

import (
	"net/http"

	"github.com/adfharrison1/go-users/pkg/domain"
)

// HandleReplaceById handles PUT /user with a complete user record including
// its id
func (h *Handler) HandleReplaceById(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if err := decodeBody(r, &user); err != nil {
		h.writeError(w, r, err)
		return
	}

	ok, err := h.users.ReplaceByID(r.Context(), user)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Success: ok})
}
