package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"expensez/internal/domain/auth"
	"expensez/internal/domain/transaction"
	"expensez/internal/domain/user"
)

// envelope is the common response shape. Handlers merge their payload fields
// into it before encoding.
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{"success": true, "data": data})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{"success": true, "message": message})
}

func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{"success": false, "message": message})
}

// respondServiceError maps domain errors onto HTTP statuses. Anything not
// recognized is logged and hidden behind a generic 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var authValidation *auth.ValidationError
	var userValidation *user.ValidationError
	var txValidation *transaction.ValidationError

	switch {
	case errors.As(err, &authValidation):
		respondError(w, http.StatusBadRequest, authValidation.Message)
	case errors.As(err, &userValidation):
		respondError(w, http.StatusBadRequest, userValidation.Message)
	case errors.As(err, &txValidation):
		respondError(w, http.StatusBadRequest, txValidation.Message)
	case errors.Is(err, user.ErrEmailTaken):
		respondError(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, auth.ErrInvalidRefreshToken):
		respondError(w, http.StatusUnauthorized, "Invalid refresh token")
	case errors.Is(err, auth.ErrInvalidIdentityToken):
		respondError(w, http.StatusUnauthorized, "Invalid Google token")
	case errors.Is(err, user.ErrWrongPassword):
		respondError(w, http.StatusUnauthorized, "Current password is incorrect")
	case errors.Is(err, user.ErrNotFound):
		respondError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, transaction.ErrNotFound):
		respondError(w, http.StatusNotFound, "Transaction not found")
	default:
		log.Printf("Internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
	}
}

// decodeStrict decodes a JSON body and rejects unknown fields, so a typo in a
// patch request fails loudly instead of silently doing nothing.
func decodeStrict(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
