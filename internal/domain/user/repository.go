package user

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("user already exists")
)

// Repository defines the interface for user data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByRefreshTokenHash(ctx context.Context, hash string) (*User, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	LinkGoogle(ctx context.Context, id int64, googleID, avatarURL string) (*User, error)
	StoreRefreshToken(ctx context.Context, id int64, hash string, expires time.Time) error
	ClearRefreshToken(ctx context.Context, id int64) error
}
