package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"expensez/internal/domain/user"
	sharedauth "expensez/internal/shared/auth"
)

const (
	refreshTokenBytes = 40
	// DefaultRefreshTTL is the refresh-token lifetime used when the config
	// does not override it.
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenPair is what every successful authentication hands back to the client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenIssuer manages the token lifecycle for a user. A user holds at most one
// active refresh token: issuing a new pair overwrites the stored hash, which
// invalidates every previously issued refresh token (rotation).
type TokenIssuer struct {
	users      user.Repository
	signer     *sharedauth.JWT
	refreshTTL time.Duration
}

func NewTokenIssuer(users user.Repository, signer *sharedauth.JWT, refreshTTL time.Duration) *TokenIssuer {
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &TokenIssuer{users: users, signer: signer, refreshTTL: refreshTTL}
}

// HashRefreshToken is the one-way transform applied before a refresh token is
// stored. A database compromise therefore never exposes a usable token.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// IssuePair generates a signed access token and an opaque refresh token for
// the user, persisting only the refresh token's hash and absolute expiry.
func (t *TokenIssuer) IssuePair(ctx context.Context, userID int64) (*TokenPair, error) {
	accessToken, err := t.signer.Generate(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	refreshToken := hex.EncodeToString(buf)

	expires := time.Now().Add(t.refreshTTL)
	if err := t.users.StoreRefreshToken(ctx, userID, HashRefreshToken(refreshToken), expires); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// VerifyRefresh reports whether the presented refresh token is the user's
// currently active one and has not expired. It never mutates state.
func (t *TokenIssuer) VerifyRefresh(ctx context.Context, userID int64, token string) bool {
	u, err := t.users.GetByID(ctx, userID)
	if err != nil || u.RefreshTokenHash == nil || u.RefreshTokenExpires == nil {
		return false
	}

	hash := HashRefreshToken(token)
	if subtle.ConstantTimeCompare([]byte(hash), []byte(*u.RefreshTokenHash)) != 1 {
		return false
	}
	if time.Now().After(*u.RefreshTokenExpires) {
		return false
	}

	return true
}

// Revoke clears the stored refresh-token state for the user. Idempotent.
func (t *TokenIssuer) Revoke(ctx context.Context, userID int64) error {
	return t.users.ClearRefreshToken(ctx, userID)
}
