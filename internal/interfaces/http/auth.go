package http

import (
	"log"
	"net/http"

	"expensez/internal/domain/auth"
	"expensez/internal/shared/middleware"
)

type AuthHandler struct {
	service *auth.Service
}

func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleLoginRequest struct {
	IDToken string `json:"idToken"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func sessionEnvelope(session *auth.Session) envelope {
	return envelope{
		"success":      true,
		"accessToken":  session.Pair.AccessToken,
		"refreshToken": session.Pair.RefreshToken,
		"user":         session.User.Profile(),
	}
}

// HandleRegister creates an account and signs the new user in.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeStrict(r, &req); err != nil {
		log.Printf("Error decoding register request: %v", err)
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionEnvelope(session))
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeStrict(r, &req); err != nil {
		log.Printf("Error decoding login request: %v", err)
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionEnvelope(session))
}

// HandleGoogleLogin exchanges a verified Google ID token for a session.
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if err := decodeStrict(r, &req); err != nil {
		log.Printf("Error decoding google login request: %v", err)
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.IDToken == "" {
		respondError(w, http.StatusBadRequest, "ID token is required")
		return
	}

	session, err := h.service.GoogleLogin(r.Context(), req.IDToken)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionEnvelope(session))
}

// HandleRefresh rotates the presented refresh token for a new pair.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeStrict(r, &req); err != nil {
		log.Printf("Error decoding refresh request: %v", err)
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RefreshToken == "" {
		respondError(w, http.StatusUnauthorized, "Refresh token is required")
		return
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success":      true,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	if err := h.service.Logout(r.Context(), userID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Logged out successfully")
}

// HandleMe returns the authenticated user's profile.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	u, err := h.service.CurrentUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{"success": true, "user": u.Profile()})
}
