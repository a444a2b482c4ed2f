package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// UserLookup is the part of the user store Login needs.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// LoginResult is a successful login.
type LoginResult struct {
	Token string
	User  *domain.User
}

// Authenticator exchanges credentials for a bearer token.
type Authenticator struct {
	users     UserLookup
	hasher    PasswordHasher
	issuer    TokenIssuer
	logger    *slog.Logger
	dummyHash string
}

// NewAuthenticator creates an Authenticator. It hashes a throwaway password
// once so that logins for unknown emails cost as much as real ones.
func NewAuthenticator(
	users UserLookup,
	hasher PasswordHasher,
	issuer TokenIssuer,
	logger *slog.Logger,
) (*Authenticator, error) {
	if users == nil || hasher == nil || issuer == nil {
		return nil, fmt.Errorf("authenticator dependencies cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dummyHash, err := hasher.Hash("taskflow-login-timing-equalizer")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare authenticator: %w", err)
	}

	return &Authenticator{
		users:     users,
		hasher:    hasher,
		issuer:    issuer,
		logger:    logger.With(slog.String("component", "authenticator")),
		dummyHash: dummyHash,
	}, nil
}

// Login verifies the credentials and issues a token.
// An unknown email and a wrong password both return ErrInvalidCredentials
// after the same amount of hashing work. Store failures other than not-found
// are returned as is.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if !store.IsNotFoundError(err) {
			return nil, err
		}
		a.hasher.Verify(password, a.dummyHash)
		log.Info("login rejected")
		return nil, ErrInvalidCredentials
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		log.Info("login rejected")
		return nil, ErrInvalidCredentials
	}

	token, err := a.issuer.Issue(ctx, Identity{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		BirthDate: user.BirthDate.String(),
	})
	if err != nil {
		return nil, err
	}

	log.Info("login succeeded", slog.String("user_id", user.ID))
	return &LoginResult{Token: token, User: user}, nil
}
