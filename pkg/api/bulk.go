package api

import (
	"net/http"

	"github.com/adfharrison1/go-users/pkg/domain"
)

// BulkRequest is the body of POST /bulkOperations
type BulkRequest struct {
	Operations []domain.BulkOp `json:"operations"`
}

// BulkResponse carries the tally of applied operations. On a partial
// failure Error is set and Result counts what was applied before it.
type BulkResponse struct {
	Result domain.BulkTally `json:"result"`
	Error  string           `json:"error,omitempty"`
}

// HandleBulk handles POST /bulkOperations
func (h *Handler) HandleBulk(w http.ResponseWriter, r *http.Request) {
	var req BulkRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	tally, err := h.users.ExecuteBulk(r.Context(), req.Operations)
	if err != nil {
		status := statusFor(err)
		if status < http.StatusInternalServerError {
			h.writeError(w, r, err)
			return
		}
		h.log.Errorw("bulk operations partially applied", "inserted", tally.Inserted, "updated", tally.Updated, "deleted", tally.Deleted, "error", err)
		writeJSON(w, status, BulkResponse{Result: tally, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, BulkResponse{Result: tally})
}
