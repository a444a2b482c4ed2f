package domain

import (
	"strings"
	"time"
)

// earliestBirthDate bounds birth dates from below.
var earliestBirthDate = NewDate(1900, time.January, 1)

// User represents a registered user and is persisted as a document in the
// user collection. The JSON tags define the persisted document shape.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"                  validate:"notblank,max=100"`
	Email        string    `json:"email,omitempty"       validate:"required,email,max=254"`
	Password     string    `json:"-"                     validate:"omitempty,max=72"` // plaintext, cleared once hashed
	PasswordHash string    `json:"passwordHash"`
	Status       bool      `json:"status"`
	BirthDate    Date      `json:"birthDate"             validate:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Tags         []string  `json:"tags"`
}

// NewUser creates an active User with a fresh identifier and timestamps.
// The password is kept in plaintext until the user store hashes it.
// Returns a *ValidationError if any field is invalid.
func NewUser(name, email, password string, birthDate Date, tags []string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        NewID(),
		Name:      name,
		Email:     email,
		Password:  password,
		Status:    true,
		BirthDate: birthDate,
		CreatedAt: now,
		UpdatedAt: now,
		Tags:      tags,
	}
	user.Normalize()

	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize canonicalizes fields in place: trims the name, normalizes the
// email, and replaces a nil tag list with an empty one.
func (u *User) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = NormalizeEmail(u.Email)
	if u.Tags == nil {
		u.Tags = []string{}
	}
}

// Validate checks the user against ValidateUser at the current time.
func (u *User) Validate() error {
	return ValidateUser(u, time.Now()).Err()
}

// ValidateUser checks every rule on a user and reports all failures.
// now anchors the "birth date not in the future" rule.
func ValidateUser(u *User, now time.Time) ValidationResult {
	var result ValidationResult
	if u == nil {
		result.Add("user", "is required")
		return result
	}

	checkStruct(u, &result)

	if u.ID != "" && !IsValidID(u.ID) {
		result.Add("id", "must be a 24-character hex identifier")
	}
	if u.Password == "" && u.PasswordHash == "" {
		result.Add("password", "is required")
	}
	switch {
	case u.BirthDate.IsZero():
		result.Add("birthDate", "is required")
	case u.BirthDate.After(DateOf(now.UTC()).Time):
		result.Add("birthDate", "must not be in the future")
	case u.BirthDate.Before(earliestBirthDate.Time):
		result.Add("birthDate", "must not be before "+earliestBirthDate.String())
	}
	if !u.CreatedAt.IsZero() && u.UpdatedAt.Before(u.CreatedAt) {
		result.Add("updatedAt", "must not be before createdAt")
	}

	return result
}
