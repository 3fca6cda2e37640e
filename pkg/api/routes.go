package api

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API routes with the given router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	// Queries
	router.HandleFunc("/users/filter", h.HandleFilterUsers).Methods("GET")
	router.HandleFunc("/users/search", h.HandleSearch).Methods("GET")
	router.HandleFunc("/users", h.HandleGetById).Methods("GET")
	router.HandleFunc("/allUsers", h.HandleFindAll).Methods("GET")
	router.HandleFunc("/dashboard", h.HandleDashboard).Methods("GET")

	// Single user
	router.HandleFunc("/user", h.HandleInsert).Methods("POST")
	router.HandleFunc("/user", h.HandleUpdateById).Methods("PATCH") // Partial update, upserts
	router.HandleFunc("/user", h.HandleReplaceById).Methods("PUT")  // Complete replacement
	router.HandleFunc("/user", h.HandleDeleteById).Methods("DELETE")

	// Many users
	router.HandleFunc("/users", h.HandleBatchInsert).Methods("POST")
	router.HandleFunc("/users", h.HandleBatchUpdate).Methods("PATCH")
	router.HandleFunc("/users", h.HandleDeleteMany).Methods("DELETE")
	router.HandleFunc("/usersFromFile", h.HandleInsertFromFile).Methods("POST")
	router.HandleFunc("/bulkOperations", h.HandleBulk).Methods("POST")
	router.HandleFunc("/users/textIndex", h.HandleCreateTextIndex).Methods("POST")

	router.HandleFunc("/health", h.HandleHealth).Methods("GET")
}
