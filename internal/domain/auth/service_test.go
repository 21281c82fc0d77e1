package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"expensez/internal/domain/user"
	sharedauth "expensez/internal/shared/auth"
)

// memoryUserRepo is a stateful in-memory user.Repository for exercising the
// full register/login/refresh lifecycle without a database.
type memoryUserRepo struct {
	nextID int64
	users  map[int64]*user.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{nextID: 1, users: map[int64]*user.User{}}
}

func (r *memoryUserRepo) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == params.Email {
			return nil, user.ErrEmailTaken
		}
	}
	u := &user.User{
		ID:           r.nextID,
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		AvatarURL:    params.AvatarURL,
		Currency:     params.Currency,
		GoogleID:     params.GoogleID,
		IsGoogleUser: params.IsGoogleUser,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	r.nextID++
	r.users[u.ID] = u
	return u, nil
}

func (r *memoryUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (r *memoryUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *memoryUserRepo) GetByRefreshTokenHash(ctx context.Context, hash string) (*user.User, error) {
	for _, u := range r.users {
		if u.RefreshTokenHash != nil && *u.RefreshTokenHash == hash {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *memoryUserRepo) Update(ctx context.Context, id int64, params user.UpdateParams) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	if params.Name != nil {
		u.Name = *params.Name
	}
	if params.Avatar != nil {
		u.AvatarURL = *params.Avatar
	}
	if params.Currency != nil {
		u.Currency = *params.Currency
	}
	return u, nil
}

func (r *memoryUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.PasswordHash = &passwordHash
	return nil
}

func (r *memoryUserRepo) LinkGoogle(ctx context.Context, id int64, googleID, avatarURL string) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	u.GoogleID = &googleID
	u.IsGoogleUser = true
	if avatarURL != "" {
		u.AvatarURL = avatarURL
	}
	return u, nil
}

func (r *memoryUserRepo) StoreRefreshToken(ctx context.Context, id int64, hash string, expires time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.RefreshTokenHash = &hash
	u.RefreshTokenExpires = &expires
	return nil
}

func (r *memoryUserRepo) ClearRefreshToken(ctx context.Context, id int64) error {
	u, ok := r.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.RefreshTokenHash = nil
	u.RefreshTokenExpires = nil
	return nil
}

type stubVerifier struct {
	identity *Identity
	err      error
}

func (v *stubVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	return v.identity, v.err
}

func newTestService(repo *memoryUserRepo, verifier IdentityVerifier) *Service {
	signer := sharedauth.NewJWT("test-secret", 15*time.Minute)
	issuer := NewTokenIssuer(repo, signer, DefaultRefreshTTL)
	return NewService(repo, issuer, verifier)
}

func TestRegisterLoginRoundtrip(t *testing.T) {
	repo := newMemoryUserRepo()
	service := newTestService(repo, nil)
	ctx := context.Background()

	session, err := service.Register(ctx, "Ada", "Ada@Example.com", "password123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if session.User.Email != "ada@example.com" {
		t.Errorf("expected normalized email, got %q", session.User.Email)
	}
	if session.Pair.AccessToken == "" || session.Pair.RefreshToken == "" {
		t.Fatal("expected a full token pair")
	}

	login, err := service.Login(ctx, "ada@example.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if login.User.ID != session.User.ID {
		t.Errorf("expected same user, got %d and %d", login.User.ID, session.User.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{name: "missing name", userName: "  ", email: "a@example.com", password: "password123"},
		{name: "invalid email", userName: "Ada", email: "not-an-email", password: "password123"},
		{name: "short password", userName: "Ada", email: "a@example.com", password: "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(newMemoryUserRepo(), nil)

			_, err := service.Register(context.Background(), tt.userName, tt.email, tt.password)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service := newTestService(newMemoryUserRepo(), nil)
	ctx := context.Background()

	if _, err := service.Register(ctx, "Ada", "ada@example.com", "password123"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := service.Register(ctx, "Imposter", "ADA@example.com", "password456")
	if !errors.Is(err, user.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	service := newTestService(newMemoryUserRepo(), nil)
	ctx := context.Background()

	if _, err := service.Register(ctx, "Ada", "ada@example.com", "password123"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, wrongPassword := service.Login(ctx, "ada@example.com", "wrong")
	_, unknownUser := service.Login(ctx, "nobody@example.com", "password123")

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownUser, ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Error("failure modes must be indistinguishable")
	}
}

func TestRefreshRotation(t *testing.T) {
	repo := newMemoryUserRepo()
	service := newTestService(repo, nil)
	ctx := context.Background()

	session, err := service.Register(ctx, "Ada", "ada@example.com", "password123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	first := session.Pair.RefreshToken

	pair, err := service.Refresh(ctx, first)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if pair.RefreshToken == first {
		t.Error("expected a new refresh token after rotation")
	}

	// The consumed token must be dead, the new one live.
	if _, err := service.Refresh(ctx, first); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("expected rotated-out token to be rejected, got %v", err)
	}
	if _, err := service.Refresh(ctx, pair.RefreshToken); err != nil {
		t.Errorf("expected new token to work, got %v", err)
	}
}

func TestRefreshTokenStoredAsHash(t *testing.T) {
	repo := newMemoryUserRepo()
	service := newTestService(repo, nil)

	session, err := service.Register(context.Background(), "Ada", "ada@example.com", "password123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	stored := repo.users[session.User.ID].RefreshTokenHash
	if stored == nil {
		t.Fatal("expected a stored refresh token hash")
	}
	if *stored == session.Pair.RefreshToken {
		t.Error("refresh token stored in the clear")
	}
	if *stored != HashRefreshToken(session.Pair.RefreshToken) {
		t.Error("stored value is not the token's hash")
	}
}

func TestRefreshExpired(t *testing.T) {
	repo := newMemoryUserRepo()
	service := newTestService(repo, nil)
	ctx := context.Background()

	session, err := service.Register(ctx, "Ada", "ada@example.com", "password123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	expired := time.Now().Add(-time.Minute)
	repo.users[session.User.ID].RefreshTokenExpires = &expired

	if _, err := service.Refresh(ctx, session.Pair.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("expected expired token to be rejected, got %v", err)
	}
}

func TestRefreshUnknownToken(t *testing.T) {
	service := newTestService(newMemoryUserRepo(), nil)

	_, err := service.Refresh(context.Background(), strings.Repeat("ab", 40))
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestLogoutRevokesAndIsIdempotent(t *testing.T) {
	repo := newMemoryUserRepo()
	service := newTestService(repo, nil)
	ctx := context.Background()

	session, err := service.Register(ctx, "Ada", "ada@example.com", "password123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := service.Logout(ctx, session.User.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := service.Refresh(ctx, session.Pair.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("expected refresh after logout to fail, got %v", err)
	}
	if err := service.Logout(ctx, session.User.ID); err != nil {
		t.Errorf("second logout should succeed, got %v", err)
	}
}

func TestGoogleLoginCreatesFederatedUser(t *testing.T) {
	repo := newMemoryUserRepo()
	verifier := &stubVerifier{identity: &Identity{
		GoogleID:  "google-123",
		Email:     "Ada@Example.com",
		Name:      "Ada",
		AvatarURL: "https://example.com/ada.png",
	}}
	service := newTestService(repo, verifier)

	session, err := service.GoogleLogin(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("google login failed: %v", err)
	}
	if !session.User.IsGoogleUser {
		t.Error("expected a federated user")
	}
	if session.User.Email != "ada@example.com" {
		t.Errorf("expected normalized email, got %q", session.User.Email)
	}
	if session.Pair.AccessToken == "" {
		t.Error("expected an access token")
	}
}

func TestGoogleLoginLinksExistingAccount(t *testing.T) {
	repo := newMemoryUserRepo()
	verifier := &stubVerifier{identity: &Identity{
		GoogleID: "google-123",
		Email:    "ada@example.com",
		Name:     "Ada",
	}}
	service := newTestService(repo, verifier)
	ctx := context.Background()

	registered, err := service.Register(ctx, "Ada", "ada@example.com", "password123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	session, err := service.GoogleLogin(ctx, "id-token")
	if err != nil {
		t.Fatalf("google login failed: %v", err)
	}
	if session.User.ID != registered.User.ID {
		t.Errorf("expected linking, got new user %d", session.User.ID)
	}
	if !session.User.IsGoogleUser || session.User.GoogleID == nil {
		t.Error("expected account to be linked to Google")
	}
	if session.User.PasswordHash == nil {
		t.Error("linking must not drop the password")
	}
}

func TestGoogleLoginBadToken(t *testing.T) {
	verifier := &stubVerifier{err: errors.New("verification failed")}
	service := newTestService(newMemoryUserRepo(), verifier)

	_, err := service.GoogleLogin(context.Background(), "bad-token")
	if !errors.Is(err, ErrInvalidIdentityToken) {
		t.Errorf("expected ErrInvalidIdentityToken, got %v", err)
	}
}
