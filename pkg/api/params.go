package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/adfharrison1/go-users/pkg/domain"
)

// intParam reads an integer query parameter. A missing parameter yields def
// when one is given, and a ValidationError otherwise.
func intParam(r *http.Request, name string, def *int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if def != nil {
			return *def, nil
		}
		return 0, &domain.ValidationError{Field: name, Reason: "is required"}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.ValidationError{Field: name, Reason: "must be an integer"}
	}
	return n, nil
}

// stringParam reads a required query parameter
func stringParam(r *http.Request, name string) (string, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return "", &domain.ValidationError{Field: name, Reason: "is required"}
	}
	return value, nil
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if domain.IsValidation(err) {
			return err
		}
		return &domain.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}

func defaultInt(n int) *int {
	return &n
}
