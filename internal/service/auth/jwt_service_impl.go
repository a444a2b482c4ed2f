package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/taskflow-api/internal/config"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
)

// hmacTokenIssuer is an implementation of TokenIssuer using HMAC-SHA256 signing.
type hmacTokenIssuer struct {
	signingKey []byte
	timeFunc   func() time.Time // Injectable for testing
	clockSkew  time.Duration    // Leeway when validating time claims
}

// tokenClaims is the wire format: sub, email, name, birthDate, iat, exp.
type tokenClaims struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	BirthDate string `json:"birthDate"`
	jwt.RegisteredClaims
}

var _ TokenIssuer = (*hmacTokenIssuer)(nil)

// NewTokenIssuer creates a TokenIssuer from the auth configuration.
// It fails with config.ErrInvalidConfig when the secret is missing or shorter
// than MinSecretLength; callers treat that as a fatal startup error.
func NewTokenIssuer(cfg config.AuthConfig) (TokenIssuer, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: jwt secret is required", config.ErrInvalidConfig)
	}
	if utf8.RuneCountInString(cfg.JWTSecret) < MinSecretLength {
		return nil, fmt.Errorf("%w: jwt secret must be at least %d characters",
			config.ErrInvalidConfig, MinSecretLength)
	}

	return &hmacTokenIssuer{
		signingKey: []byte(cfg.JWTSecret),
		timeFunc:   time.Now,
		clockSkew:  time.Minute,
	}, nil
}

// Issue implements TokenIssuer.Issue
func (s *hmacTokenIssuer) Issue(ctx context.Context, identity Identity) (string, error) {
	log := logger.FromContextOrDefault(ctx, nil)
	now := s.timeFunc().UTC()

	claims := tokenClaims{
		Email:     identity.Email,
		Name:      identity.Name,
		BirthDate: identity.BirthDate,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign token",
			slog.String("error", err.Error()),
			slog.String("user_id", identity.ID))
		return "", fmt.Errorf("failed to sign token with HMAC-SHA256: %w", err)
	}
	return signed, nil
}

// Validate implements TokenIssuer.Validate
func (s *hmacTokenIssuer) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContextOrDefault(ctx, nil)
	now := s.timeFunc()

	token, err := jwt.ParseWithClaims(
		tokenString,
		&tokenClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: token expired")
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
			log.Debug("token validation failed: issued in the future")
			return nil, ErrTokenNotYetValid
		default:
			log.Debug("token validation failed",
				slog.String("error", err.Error()),
				slog.String("error_type", fmt.Sprintf("%T", err)))
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || claims.Subject == "" || claims.IssuedAt == nil {
		log.Debug("token validation failed: invalid claims")
		return nil, ErrInvalidToken
	}

	return &Claims{
		Identity: Identity{
			ID:        claims.Subject,
			Email:     claims.Email,
			Name:      claims.Name,
			BirthDate: claims.BirthDate,
		},
		IssuedAt:  claims.IssuedAt.UTC(),
		ExpiresAt: claims.ExpiresAt.UTC(),
	}, nil
}
