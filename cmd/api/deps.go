package main

import (
	"context"
	"log"

	"expensez/internal/domain/analytics"
	"expensez/internal/domain/auth"
	"expensez/internal/domain/transaction"
	"expensez/internal/domain/user"
	"expensez/internal/infrastructure/firebase"
	"expensez/internal/infrastructure/postgres"
	httphandlers "expensez/internal/interfaces/http"
	sharedauth "expensez/internal/shared/auth"
	"expensez/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	UserHandler        *httphandlers.UserHandler
	TransactionHandler *httphandlers.TransactionHandler

	// Auth
	JWT *sharedauth.JWT
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)

	// Initialize auth components
	jwt := sharedauth.NewJWT(cfg.JWT.Secret, cfg.JWT.AccessTTL)
	tokenIssuer := auth.NewTokenIssuer(userRepo, jwt, cfg.JWT.RefreshTTL)

	// Google sign-in is optional; without credentials the endpoint rejects
	// all federated logins.
	var verifier auth.IdentityVerifier
	if cfg.Firebase.CredentialsFile != "" {
		v, err := firebase.NewVerifier(ctx, cfg.Firebase.CredentialsFile)
		if err != nil {
			db.Close()
			return nil, err
		}
		verifier = v
		log.Println("Firebase identity verifier initialized")
	} else {
		log.Println("Firebase credentials not configured, Google login disabled")
	}

	// Initialize domain services
	authService := auth.NewService(userRepo, tokenIssuer, verifier)
	userService := user.NewService(userRepo)
	transactionService := transaction.NewService(transactionRepo)
	analyticsService := analytics.NewService(transactionRepo)

	return &Dependencies{
		DB:                 db,
		AuthHandler:        httphandlers.NewAuthHandler(authService),
		UserHandler:        httphandlers.NewUserHandler(userService, analyticsService),
		TransactionHandler: httphandlers.NewTransactionHandler(transactionService),
		JWT:                jwt,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
