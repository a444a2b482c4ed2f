package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validUser() *User {
	now := time.Now().UTC()
	return &User{
		ID:           NewID(),
		Name:         "Ada Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "$2a$12$abcdefghijklmnopqrstuuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0",
		Status:       true,
		BirthDate:    NewDate(1990, time.January, 1),
		CreatedAt:    now,
		UpdatedAt:    now,
		Tags:         []string{},
	}
}

func fieldsOf(result ValidationResult) []string {
	fields := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("  Ada  ", "  Ada@Example.COM ", "secret123", NewDate(1990, time.January, 1), nil)

	require.NoError(t, err)
	assert.True(t, IsValidID(user.ID))
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@example.com", user.Email, "email is trimmed and lower-cased")
	assert.Equal(t, "secret123", user.Password, "plaintext is kept until the store hashes it")
	assert.Empty(t, user.PasswordHash)
	assert.True(t, user.Status, "users are active by default")
	assert.NotNil(t, user.Tags)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestNewUserInvalid(t *testing.T) {
	t.Parallel()

	_, err := NewUser("", "not-an-email", "", Date{}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"name", "email", "password", "birthDate"}, fields)
}

func TestValidateUser(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(u *User)
		fields []string
	}{
		{"valid", func(u *User) {}, nil},
		{"blank name", func(u *User) { u.Name = "   " }, []string{"name"}},
		{"missing email", func(u *User) { u.Email = "" }, []string{"email"}},
		{"malformed email", func(u *User) { u.Email = "ada.example.com" }, []string{"email"}},
		{"no credentials", func(u *User) { u.PasswordHash = "" }, []string{"password"}},
		{"plaintext only", func(u *User) { u.PasswordHash = ""; u.Password = "secret123" }, nil},
		{"password too long", func(u *User) { u.PasswordHash = ""; u.Password = strings.Repeat("x", 73) }, []string{"password"}},
		{"future birth date", func(u *User) { u.BirthDate = NewDate(2025, time.June, 2) }, []string{"birthDate"}},
		{"birth date today", func(u *User) { u.BirthDate = NewDate(2025, time.June, 1) }, nil},
		{"ancient birth date", func(u *User) { u.BirthDate = NewDate(1850, time.June, 1) }, []string{"birthDate"}},
		{"malformed id", func(u *User) { u.ID = "xyz" }, []string{"id"}},
		{"updated before created", func(u *User) { u.UpdatedAt = u.CreatedAt.Add(-time.Second) }, []string{"updatedAt"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			u := validUser()
			tt.mutate(u)

			result := ValidateUser(u, now)

			if tt.fields == nil {
				assert.True(t, result.Valid(), "unexpected failures: %v", result.Errors)
				assert.NoError(t, result.Err())
				return
			}
			assert.False(t, result.Valid())
			assert.ElementsMatch(t, tt.fields, fieldsOf(result))
			assert.ErrorIs(t, result.Err(), ErrValidation)
		})
	}
}

func TestValidateUserNil(t *testing.T) {
	t.Parallel()

	result := ValidateUser(nil, time.Now())
	assert.False(t, result.Valid())
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a@b.com", NormalizeEmail("  A@B.Com\t"))
}

func TestValidationErrorUnwrap(t *testing.T) {
	t.Parallel()

	err := NewValidationError("id", "has invalid format", ErrInvalidID)

	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.Equal(t, "validation failed: id has invalid format", err.Error())

	plain := NewValidationError("title", "is required", nil)
	assert.ErrorIs(t, plain, ErrValidation)
	assert.NotErrorIs(t, plain, ErrInvalidID)
}
