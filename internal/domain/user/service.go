package user

import (
	"context"
	"errors"

	"expensez/internal/shared/auth"
)

var ErrWrongPassword = errors.New("current password is incorrect")

// ValidationError reports malformed profile or password input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Service contains the business logic for profile operations
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get retrieves a user by id.
func (s *Service) Get(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile applies a partial profile update and returns the new state.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, params UpdateParams) (*User, error) {
	if params.Name != nil && *params.Name == "" {
		return nil, &ValidationError{Message: "Name cannot be empty"}
	}
	if params.Currency != nil && *params.Currency == "" {
		return nil, &ValidationError{Message: "Currency cannot be empty"}
	}
	return s.repo.Update(ctx, userID, params)
}

// ChangePassword verifies the current password before storing a hash of the
// new one. Federated-only accounts have no password to change.
func (s *Service) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return &ValidationError{Message: "Password must be at least 6 characters"}
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if u.PasswordHash == nil || !auth.CheckPassword(*u.PasswordHash, currentPassword) {
		return ErrWrongPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, hash)
}
