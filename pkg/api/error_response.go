package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adfharrison1/go-users/pkg/domain"
)

// ErrorResponse represents a standard JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// WriteJSONError writes a JSON error response with the given status code and message
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// statusFor maps an engine error onto an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsValidation(err),
		errors.Is(err, domain.ErrMissingIdentifier),
		errors.Is(err, domain.ErrEmptyUpdate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and writes it as an ErrorResponse
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		h.log.Infow("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	WriteJSONError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// SuccessResponse reports whether a write took effect
type SuccessResponse struct {
	Success bool `json:"success"`
}

// DeletedResponse reports how many records a delete removed
type DeletedResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}
