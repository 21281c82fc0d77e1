package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"expensez/internal/shared/auth"
)

// MockRepository implements Repository with overridable functions
type MockRepository struct {
	CreateFunc                func(ctx context.Context, params CreateParams) (*User, error)
	GetByIDFunc               func(ctx context.Context, id int64) (*User, error)
	GetByEmailFunc            func(ctx context.Context, email string) (*User, error)
	GetByRefreshTokenHashFunc func(ctx context.Context, hash string) (*User, error)
	UpdateFunc                func(ctx context.Context, id int64, params UpdateParams) (*User, error)
	UpdatePasswordFunc        func(ctx context.Context, id int64, passwordHash string) error
	LinkGoogleFunc            func(ctx context.Context, id int64, googleID, avatarURL string) (*User, error)
	StoreRefreshTokenFunc     func(ctx context.Context, id int64, hash string, expires time.Time) error
	ClearRefreshTokenFunc     func(ctx context.Context, id int64) error
}

func (m *MockRepository) Create(ctx context.Context, params CreateParams) (*User, error) {
	return m.CreateFunc(ctx, params)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return m.GetByEmailFunc(ctx, email)
}

func (m *MockRepository) GetByRefreshTokenHash(ctx context.Context, hash string) (*User, error) {
	return m.GetByRefreshTokenHashFunc(ctx, hash)
}

func (m *MockRepository) Update(ctx context.Context, id int64, params UpdateParams) (*User, error) {
	return m.UpdateFunc(ctx, id, params)
}

func (m *MockRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return m.UpdatePasswordFunc(ctx, id, passwordHash)
}

func (m *MockRepository) LinkGoogle(ctx context.Context, id int64, googleID, avatarURL string) (*User, error) {
	return m.LinkGoogleFunc(ctx, id, googleID, avatarURL)
}

func (m *MockRepository) StoreRefreshToken(ctx context.Context, id int64, hash string, expires time.Time) error {
	return m.StoreRefreshTokenFunc(ctx, id, hash, expires)
}

func (m *MockRepository) ClearRefreshToken(ctx context.Context, id int64) error {
	return m.ClearRefreshTokenFunc(ctx, id)
}

func TestUpdateProfileValidation(t *testing.T) {
	empty := ""
	name := "New Name"

	tests := []struct {
		name    string
		params  UpdateParams
		wantErr bool
	}{
		{name: "empty name rejected", params: UpdateParams{Name: &empty}, wantErr: true},
		{name: "empty currency rejected", params: UpdateParams{Currency: &empty}, wantErr: true},
		{name: "nil fields pass through", params: UpdateParams{}, wantErr: false},
		{name: "set name passes through", params: UpdateParams{Name: &name}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepository{
				UpdateFunc: func(ctx context.Context, id int64, params UpdateParams) (*User, error) {
					return &User{ID: id}, nil
				},
			}
			service := NewService(repo)

			_, err := service.UpdateProfile(context.Background(), 1, tt.params)
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestChangePassword(t *testing.T) {
	hash, err := auth.HashPassword("oldpassword")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	newRepo := func(stored *string) (*MockRepository, *string) {
		var saved string
		repo := &MockRepository{
			GetByIDFunc: func(ctx context.Context, id int64) (*User, error) {
				return &User{ID: id, PasswordHash: stored}, nil
			},
			UpdatePasswordFunc: func(ctx context.Context, id int64, passwordHash string) error {
				saved = passwordHash
				return nil
			},
		}
		return repo, &saved
	}

	t.Run("success", func(t *testing.T) {
		repo, saved := newRepo(&hash)
		service := NewService(repo)

		if err := service.ChangePassword(context.Background(), 1, "oldpassword", "newpassword"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *saved == "" {
			t.Fatal("expected a new hash to be stored")
		}
		if !auth.CheckPassword(*saved, "newpassword") {
			t.Error("stored hash does not verify the new password")
		}
	})

	t.Run("wrong current password", func(t *testing.T) {
		repo, _ := newRepo(&hash)
		service := NewService(repo)

		err := service.ChangePassword(context.Background(), 1, "not-the-password", "newpassword")
		if !errors.Is(err, ErrWrongPassword) {
			t.Errorf("expected ErrWrongPassword, got %v", err)
		}
	})

	t.Run("federated account has no password", func(t *testing.T) {
		repo, _ := newRepo(nil)
		service := NewService(repo)

		err := service.ChangePassword(context.Background(), 1, "anything", "newpassword")
		if !errors.Is(err, ErrWrongPassword) {
			t.Errorf("expected ErrWrongPassword, got %v", err)
		}
	})

	t.Run("short new password", func(t *testing.T) {
		repo, _ := newRepo(&hash)
		service := NewService(repo)

		err := service.ChangePassword(context.Background(), 1, "oldpassword", "short")
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})
}
