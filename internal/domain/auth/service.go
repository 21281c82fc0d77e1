package auth

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"

	"expensez/internal/domain/user"
	sharedauth "expensez/internal/shared/auth"
)

var (
	// ErrInvalidCredentials covers both "no such user" and "wrong password"
	// so that login failures cannot be used to enumerate accounts.
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrInvalidIdentityToken = errors.New("invalid identity token")
)

// ValidationError reports malformed registration input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// Identity is the claim set extracted from a verified third-party ID token.
type Identity struct {
	GoogleID  string
	Email     string
	Name      string
	AvatarURL string
}

// IdentityVerifier validates a federated ID token and returns its identity
// claims. Implemented by the Firebase client.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// Session is the result of a successful registration or login.
type Session struct {
	User *user.User
	Pair TokenPair
}

// Service orchestrates registration, login, federated login and the
// refresh-token lifecycle.
type Service struct {
	users    user.Repository
	tokens   *TokenIssuer
	verifier IdentityVerifier
}

func NewService(users user.Repository, tokens *TokenIssuer, verifier IdentityVerifier) *Service {
	return &Service{users: users, tokens: tokens, verifier: verifier}
}

// Register creates a password-authenticated user and issues a token pair.
func (s *Service) Register(ctx context.Context, name, email, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" {
		return nil, &ValidationError{Message: "Name is required"}
	}
	if !emailPattern.MatchString(email) {
		return nil, &ValidationError{Message: "Please include a valid email"}
	}
	if len(password) < 6 {
		return nil, &ValidationError{Message: "Password must be at least 6 characters long"}
	}

	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, user.ErrEmailTaken
	} else if err != nil && !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}

	hash, err := sharedauth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, user.CreateParams{
		Name:         name,
		Email:        email,
		PasswordHash: &hash,
	})
	if err != nil {
		return nil, err
	}

	pair, err := s.tokens.IssuePair(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	return &Session{User: u, Pair: *pair}, nil
}

// Login authenticates with email and password. The failure mode is identical
// for unknown users, federated-only accounts and wrong passwords.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if u.PasswordHash == nil || !sharedauth.CheckPassword(*u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	return &Session{User: u, Pair: *pair}, nil
}

// GoogleLogin verifies a Google ID token and signs the user in, creating a
// federated account on first login or linking an existing password account.
func (s *Service) GoogleLogin(ctx context.Context, idToken string) (*Session, error) {
	if s.verifier == nil {
		return nil, errors.New("federated login is not configured")
	}

	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		log.Printf("Google login: token verification failed: %v", err)
		return nil, ErrInvalidIdentityToken
	}

	email := normalizeEmail(identity.Email)

	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, user.ErrNotFound):
		googleID := identity.GoogleID
		u, err = s.users.Create(ctx, user.CreateParams{
			Name:         identity.Name,
			Email:        email,
			AvatarURL:    identity.AvatarURL,
			GoogleID:     &googleID,
			IsGoogleUser: true,
		})
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case !u.IsGoogleUser:
		// Link the existing password account; the password stays usable.
		u, err = s.users.LinkGoogle(ctx, u.ID, identity.GoogleID, identity.AvatarURL)
		if err != nil {
			return nil, err
		}
	}

	pair, err := s.tokens.IssuePair(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	return &Session{User: u, Pair: *pair}, nil
}

// Refresh exchanges a valid refresh token for a new pair. Issuing the new
// pair overwrites the stored hash, so the presented token is single-use.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	u, err := s.users.GetByRefreshTokenHash(ctx, HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if !s.tokens.VerifyRefresh(ctx, u.ID, refreshToken) {
		return nil, ErrInvalidRefreshToken
	}

	return s.tokens.IssuePair(ctx, u.ID)
}

// Logout revokes the user's refresh token. Safe to call repeatedly.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.tokens.Revoke(ctx, userID)
}

// CurrentUser returns the user behind an authenticated request.
func (s *Service) CurrentUser(ctx context.Context, userID int64) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
