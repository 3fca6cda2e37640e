package api

import (
	"net/http"

	"github.com/adfharrison1/go-users/pkg/domain"
)

// InsertResponse reports the identifier assigned to a new user
type InsertResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// HandleInsert handles POST /user
func (h *Handler) HandleInsert(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if err := decodeBody(r, &user); err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := h.users.InsertUser(r.Context(), user)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.log.Infow("user inserted", "id", id)
	writeJSON(w, http.StatusCreated, InsertResponse{Success: true, ID: id})
}
