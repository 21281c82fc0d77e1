package http

import (
	"log"
	"net/http"

	"expensez/internal/domain/analytics"
	"expensez/internal/domain/user"
	"expensez/internal/shared/middleware"
)

type UserHandler struct {
	users     *user.Service
	analytics *analytics.Service
}

func NewUserHandler(users *user.Service, analytics *analytics.Service) *UserHandler {
	return &UserHandler{users: users, analytics: analytics}
}

type updateProfileRequest struct {
	Name     *string `json:"name"`
	Avatar   *string `json:"avatar"`
	Currency *string `json:"currency"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// HandleProfile serves GET and PUT on the profile resource.
func (h *UserHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	u, err := h.users.Get(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, u.Profile())
}

// HandleUpdateProfile applies a partial profile update. Unknown fields in the
// body are rejected rather than ignored.
func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req updateProfileRequest
	if err := decodeStrict(r, &req); err != nil {
		log.Printf("Error decoding profile update: %v", err)
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.users.UpdateProfile(r.Context(), userID, user.UpdateParams{
		Name:     req.Name,
		Avatar:   req.Avatar,
		Currency: req.Currency,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, u.Profile())
}

func (h *UserHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req changePasswordRequest
	if err := decodeStrict(r, &req); err != nil {
		log.Printf("Error decoding password change: %v", err)
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.users.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Password updated successfully")
}

// HandleStats returns the lifetime dashboard payload.
func (h *UserHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	stats, err := h.analytics.UserStats(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, stats)
}

// HandleAnalytics returns the six-month trend payload.
func (h *UserHandler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	result, err := h.analytics.Monthly(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, result)
}
