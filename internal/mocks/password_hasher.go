package mocks

import (
	"strings"

	"github.com/phrazzld/taskflow-api/internal/service/auth"
)

// MockPasswordHasher implements auth.PasswordHasher without bcrypt.
// Hashes are the password prefixed with "hashed:".
type MockPasswordHasher struct {
	HashFn func(password string) (string, error)

	VerifyCallCount int
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements auth.PasswordHasher.Hash
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

// Verify implements auth.PasswordHasher.Verify
func (m *MockPasswordHasher) Verify(password, hash string) bool {
	m.VerifyCallCount++
	return hash == "hashed:"+password
}

// IsHash implements auth.PasswordHasher.IsHash
func (m *MockPasswordHasher) IsHash(value string) bool {
	return strings.HasPrefix(value, "hashed:")
}
