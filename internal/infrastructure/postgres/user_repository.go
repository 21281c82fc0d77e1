package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"expensez/internal/domain/user"
)

const uniqueViolation = "23505"

const userColumns = `id, name, email, password_hash, avatar_url, currency,
	       refresh_token_hash, refresh_token_expires, google_id, is_google_user,
	       created_at, updated_at`

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, avatar_url, currency, google_id, is_google_user)
		VALUES ($1, $2, $3, NULLIF($4, ''), COALESCE(NULLIF($5, ''), 'INR'), $6, $7)
		RETURNING ` + userColumns

	u, err := r.scanUser(r.db.QueryRowContext(
		ctx, query,
		params.Name, params.Email, params.PasswordHash, params.AvatarURL,
		params.Currency, params.GoogleID, params.IsGoogleUser,
	))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, user.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := r.scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := r.scanUser(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return u, nil
}

func (r *UserRepository) GetByRefreshTokenHash(ctx context.Context, hash string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE refresh_token_hash = $1`

	u, err := r.scanUser(r.db.QueryRowContext(ctx, query, hash))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by refresh token: %w", err)
	}

	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, params user.UpdateParams) (*user.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($1, name),
		    avatar_url = COALESCE($2, avatar_url),
		    currency = COALESCE($3, currency),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING ` + userColumns

	u, err := r.scanUser(r.db.QueryRowContext(ctx, query, params.Name, params.Avatar, params.Currency, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return user.ErrNotFound
	}

	return nil
}

func (r *UserRepository) LinkGoogle(ctx context.Context, id int64, googleID, avatarURL string) (*user.User, error) {
	query := `
		UPDATE users
		SET google_id = $1,
		    is_google_user = TRUE,
		    avatar_url = COALESCE(NULLIF($2, ''), avatar_url),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
		RETURNING ` + userColumns

	u, err := r.scanUser(r.db.QueryRowContext(ctx, query, googleID, avatarURL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to link google account: %w", err)
	}

	return u, nil
}

func (r *UserRepository) StoreRefreshToken(ctx context.Context, id int64, hash string, expires time.Time) error {
	query := `
		UPDATE users
		SET refresh_token_hash = $1, refresh_token_expires = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, hash, expires, id)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return user.ErrNotFound
	}

	return nil
}

func (r *UserRepository) ClearRefreshToken(ctx context.Context, id int64) error {
	query := `
		UPDATE users
		SET refresh_token_hash = NULL, refresh_token_expires = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}

	return nil
}

// PurgeExpiredRefreshTokens clears refresh-token state for every user whose
// token has passed its expiry. Used by the admin CLI.
func (r *UserRepository) PurgeExpiredRefreshTokens(ctx context.Context) (int64, error) {
	query := `
		UPDATE users
		SET refresh_token_hash = NULL, refresh_token_expires = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE refresh_token_expires IS NOT NULL AND refresh_token_expires < CURRENT_TIMESTAMP
	`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to purge refresh tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}

func (r *UserRepository) scanUser(row *tracedRow) (*user.User, error) {
	var u user.User
	var avatarURL sql.NullString

	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &avatarURL, &u.Currency,
		&u.RefreshTokenHash, &u.RefreshTokenExpires, &u.GoogleID, &u.IsGoogleUser,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if avatarURL.Valid {
		u.AvatarURL = avatarURL.String
	}

	return &u, nil
}
