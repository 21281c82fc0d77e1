package http

import (
	"net/http"
)

// HandleHealth returns a simple health check response.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// HandleIndex describes the API surface for anyone poking at the root.
func HandleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{
		"name":    "ExpenseZ API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"auth":         "/api/auth",
			"users":        "/api/users",
			"transactions": "/api/transactions",
			"health":       "/health",
		},
	})
}

// HandleNotFound is the JSON fallback for unmatched routes.
func HandleNotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "Route not found")
}
