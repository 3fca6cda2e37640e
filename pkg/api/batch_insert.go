package api

import (
	"net/http"

	"github.com/adfharrison1/go-users/pkg/domain"
)

// MaxBatchSize caps the records accepted by POST /users
const MaxBatchSize = 1000

// BatchInsertResponse represents the response for batch insert operations
type BatchInsertResponse struct {
	Success       bool     `json:"success"`
	InsertedCount int      `json:"insertedCount"`
	IDs           []string `json:"ids"`
}

// HandleBatchInsert handles POST /users with a JSON array of users
func (h *Handler) HandleBatchInsert(w http.ResponseWriter, r *http.Request) {
	var batch []domain.User
	if err := decodeBody(r, &batch); err != nil {
		h.writeError(w, r, err)
		return
	}

	if len(batch) > MaxBatchSize {
		WriteJSONError(w, http.StatusBadRequest, "Maximum 1000 users allowed per batch")
		return
	}

	ids, err := h.users.InsertUsers(r.Context(), batch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.log.Infow("batch insert completed", "count", len(ids))
	writeJSON(w, http.StatusCreated, BatchInsertResponse{Success: true, InsertedCount: len(ids), IDs: ids})
}
