package store

import (
	"context"

	"github.com/phrazzld/taskflow-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// ListAll returns every user ordered by ID.
	ListAll(ctx context.Context) ([]*domain.User, error)

	// GetByID retrieves a user by ID.
	// A malformed ID returns ErrUserNotFound without querying the store.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by normalized email.
	// Returns ErrUserNotFound if no user has that email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Create assigns an ID and timestamps, normalizes the email, hashes a
	// plaintext password and inserts the user. It returns the new ID.
	// Returns a *ConflictError matching ErrEmailExists if the email is taken.
	Create(ctx context.Context, user *domain.User) (string, error)

	// Update replaces the stored document keyed by user.ID, refreshing
	// UpdatedAt. CreatedAt is never changed, and a user sent without any
	// password keeps the stored hash. Returns the stored document.
	// Returns ErrUserNotFound if the user does not exist.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)

	// Delete removes a user and reports whether a document was removed.
	// Deleting a missing or malformed ID returns false with no error.
	Delete(ctx context.Context, id string) (bool, error)
}
