package auth

import (
	"context"
	"time"
)

// TokenLifetime is how long an issued token stays valid. There is no refresh.
const TokenLifetime = 10 * time.Hour

// MinSecretLength is the shortest signing secret NewTokenIssuer accepts.
const MinSecretLength = 32

// TokenIssuer signs bearer tokens carrying user identity claims and checks
// tokens presented back to the API.
type TokenIssuer interface {
	// Issue returns a signed token embedding the identity and an expiry of
	// TokenLifetime after the current time.
	Issue(ctx context.Context, identity Identity) (string, error)

	// Validate verifies signature and expiry and returns the embedded claims.
	// Returns ErrExpiredToken or ErrInvalidToken on failure.
	Validate(ctx context.Context, token string) (*Claims, error)
}

// Identity is the set of user attributes a token carries.
type Identity struct {
	ID        string
	Email     string
	Name      string
	BirthDate string // rendered as YYYY-MM-DD
}

// Claims are the decoded contents of a valid token.
type Claims struct {
	Identity
	IssuedAt  time.Time
	ExpiresAt time.Time
}
