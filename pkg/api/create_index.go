package api

import (
	"net/http"
)

// HandleCreateTextIndex handles POST /users/textIndex. The index is created
// at startup as well; calling this again is harmless.
func (h *Handler) HandleCreateTextIndex(w http.ResponseWriter, r *http.Request) {
	if err := h.users.EnsureTextIndex(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, SuccessResponse{Success: true})
}
