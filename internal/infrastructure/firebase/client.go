package firebase

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"expensez/internal/domain/auth"
)

// Verifier implements auth.IdentityVerifier using the Firebase Auth admin
// client. The frontend signs in with Google through Firebase and sends the
// resulting ID token here.
type Verifier struct {
	authClient *fbauth.Client
}

// NewVerifier initializes a Firebase app from a service-account credentials
// file and returns an ID-token verifier.
func NewVerifier(ctx context.Context, credentialsFile string) (*Verifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}

	return &Verifier{authClient: authClient}, nil
}

// Verify checks the ID token's signature and expiry and extracts the
// identity claims the auth service needs.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*auth.Identity, error) {
	token, err := v.authClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify id token: %w", err)
	}

	identity := &auth.Identity{GoogleID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		identity.Name = name
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		identity.AvatarURL = picture
	}

	if identity.Email == "" {
		return nil, fmt.Errorf("id token carries no email claim")
	}

	return identity, nil
}
