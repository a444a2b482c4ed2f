package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/taskflow-api/internal/service/auth"
)

// MockTokenIssuer implements auth.TokenIssuer for testing.
// By default Issue returns Token and Validate returns Claims.
type MockTokenIssuer struct {
	IssueFn    func(ctx context.Context, identity auth.Identity) (string, error)
	ValidateFn func(ctx context.Context, token string) (*auth.Claims, error)

	Token  string
	Claims *auth.Claims

	LastIdentity auth.Identity
}

var _ auth.TokenIssuer = (*MockTokenIssuer)(nil)

// NewMockTokenIssuer creates a mock that accepts any token as the given user.
func NewMockTokenIssuer(userID string) *MockTokenIssuer {
	now := time.Now().UTC()
	return &MockTokenIssuer{
		Token: "mock-token",
		Claims: &auth.Claims{
			Identity:  auth.Identity{ID: userID},
			IssuedAt:  now,
			ExpiresAt: now.Add(auth.TokenLifetime),
		},
	}
}

// Issue implements auth.TokenIssuer.Issue
func (m *MockTokenIssuer) Issue(ctx context.Context, identity auth.Identity) (string, error) {
	m.LastIdentity = identity
	if m.IssueFn != nil {
		return m.IssueFn(ctx, identity)
	}
	return m.Token, nil
}

// Validate implements auth.TokenIssuer.Validate
func (m *MockTokenIssuer) Validate(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateFn != nil {
		return m.ValidateFn(ctx, token)
	}
	if m.Claims == nil {
		return nil, auth.ErrInvalidToken
	}
	return m.Claims, nil
}
