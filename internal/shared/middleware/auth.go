package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"expensez/internal/shared/auth"
)

type ContextKey string

const UserIDKey ContextKey = "user_id"

// UserID extracts the authenticated user id placed in the request context by Auth.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserIDKey).(int64)
	return id, ok
}

// Auth guards a handler with Bearer access-token authentication. On success the
// user id from the token is stored in the request context.
func Auth(jwt *auth.JWT) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "Not authorized, no token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, "Not authorized, no token")
				return
			}

			userID, err := jwt.Validate(parts[1])
			if err != nil {
				unauthorized(w, "Not authorized, token failed")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
