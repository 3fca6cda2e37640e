package api

import (
	"encoding/json"
	"net/http"
)

// HandleFilterUsers handles GET /users/filter?age=&country= and streams every
// user aged at most age or living in country as a JSON array.
// NOTE: the result is unbounded and not paginated.
func (h *Handler) HandleFilterUsers(w http.ResponseWriter, r *http.Request) {
	age, err := intParam(r, "age", nil)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	country := r.URL.Query().Get("country")

	ctx := r.Context()
	cur, err := h.users.FilterUsers(ctx, age, country)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer cur.Close(ctx)

	// Set headers for streaming
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	w.Write([]byte("["))

	count := 0
	for cur.Next(ctx) {
		if count > 0 {
			w.Write([]byte(","))
		}

		data, err := json.Marshal(cur.User())
		if err != nil {
			h.log.Errorw("failed to marshal user", "error", err)
			return
		}
		if _, err := w.Write(data); err != nil {
			h.log.Warnw("client went away while streaming", "error", err)
			return
		}

		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
		count++
	}

	// Headers are gone; the best we can do is end the array and log
	if err := cur.Err(); err != nil {
		h.log.Errorw("filter stream interrupted", "streamed", count, "error", err)
	}
	w.Write([]byte("]"))

	h.log.Debugw("streamed filtered users", "age", age, "country", country, "count", count)
}
