package main

import (
	"net/http"

	httphandlers "expensez/internal/interfaces/http"
	"expensez/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	// JSON 404 for anything unmatched
	mux.HandleFunc("/", httphandlers.HandleNotFound)

	// API index and health check
	mux.HandleFunc("GET /{$}", httphandlers.HandleIndex)
	mux.HandleFunc("GET /api/{$}", httphandlers.HandleIndex)
	mux.HandleFunc("GET /health", httphandlers.HandleHealth)

	// Public auth routes
	mux.HandleFunc("POST /api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("POST /api/auth/google", deps.AuthHandler.HandleGoogleLogin)
	mux.HandleFunc("POST /api/auth/refresh-token", deps.AuthHandler.HandleRefresh)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)
	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}

	mux.Handle("POST /api/auth/logout", protected(deps.AuthHandler.HandleLogout))
	mux.Handle("GET /api/auth/me", protected(deps.AuthHandler.HandleMe))

	mux.Handle("GET /api/users/profile", protected(deps.UserHandler.HandleGetProfile))
	mux.Handle("PUT /api/users/profile", protected(deps.UserHandler.HandleUpdateProfile))
	mux.Handle("PUT /api/users/password", protected(deps.UserHandler.HandleChangePassword))
	mux.Handle("GET /api/users/stats", protected(deps.UserHandler.HandleStats))
	mux.Handle("GET /api/users/analytics", protected(deps.UserHandler.HandleAnalytics))

	mux.Handle("GET /api/transactions", protected(deps.TransactionHandler.HandleList))
	mux.Handle("POST /api/transactions", protected(deps.TransactionHandler.HandleCreate))
	mux.Handle("GET /api/transactions/summary", protected(deps.TransactionHandler.HandleSummary))
	mux.Handle("GET /api/transactions/{id}", protected(deps.TransactionHandler.HandleGet))
	mux.Handle("PUT /api/transactions/{id}", protected(deps.TransactionHandler.HandleUpdate))
	mux.Handle("DELETE /api/transactions/{id}", protected(deps.TransactionHandler.HandleDelete))

	// Apply global middleware
	return middleware.Telemetry(middleware.Logging(middleware.CORS(mux)))
}
