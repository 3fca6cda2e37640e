package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-users/pkg/api"
	"github.com/adfharrison1/go-users/pkg/storage/memory"
	"github.com/adfharrison1/go-users/pkg/users"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := memory.Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return NewServer(api.NewHandler(users.NewService(store.Collection("users"))))
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestServer_KeepsIncomingRequestID(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, "trace-123", w.Header().Get(RequestIDHeader))
}

func TestServer_NotFound(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest("GET", "/collections/users", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no route for GET /collections/users")
}

func TestServer_ShutdownBeforeListen(t *testing.T) {
	s := newTestServer(t)
	assert.NoError(t, s.Shutdown(t.Context()))
}
