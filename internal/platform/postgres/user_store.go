package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskflow-api/internal/config"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// PasswordHasher is the part of the auth hasher the user store needs.
type PasswordHasher interface {
	Hash(password string) (string, error)
	IsHash(value string) bool
}

// PostgresUserStore implements the store.UserStore interface on the users
// collection.
type PostgresUserStore struct {
	users  *Collection[domain.User]
	hasher PasswordHasher
	logger *slog.Logger
	now    func() time.Time
}

// NewPostgresUserStore creates a user store on the resolver's users collection.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(
	resolver *CollectionResolver,
	hasher PasswordHasher,
	logger *slog.Logger,
) (*PostgresUserStore, error) {
	if hasher == nil {
		return nil, fmt.Errorf("password hasher cannot be nil")
	}
	users, err := Resolve[domain.User](resolver, config.UsersCollection)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		users:  users,
		hasher: hasher,
		logger: logger.With(slog.String("component", "user_store")),
		now:    time.Now,
	}, nil
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// ListAll implements store.UserStore.ListAll
func (s *PostgresUserStore) ListAll(ctx context.Context) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	users, err := s.users.FindAll(ctx)
	if err != nil {
		log.Error("failed to list users", slog.String("error", err.Error()))
		return nil, err
	}
	return users, nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	id = domain.NormalizeID(id)
	if !domain.IsValidID(id) {
		log.Debug("malformed user ID", slog.String("user_id", id))
		return nil, store.ErrUserNotFound
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("user not found", slog.String("user_id", id))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by ID",
			slog.String("error", err.Error()),
			slog.String("user_id", id))
		return nil, err
	}
	return user, nil
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.FindOne(ctx, "email", domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("user not found by email")
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by email", slog.String("error", err.Error()))
		return nil, err
	}
	return user, nil
}

// Create implements store.UserStore.Create
// The plaintext password is hashed unless it already is a hash, then cleared.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user.ID == "" {
		user.ID = domain.NewID()
	}
	user.ID = domain.NormalizeID(user.ID)
	now := s.now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Normalize()

	if err := domain.ValidateUser(user, now).Err(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID))
		return "", err
	}

	if err := s.prepareCredentials(ctx, user); err != nil {
		return "", err
	}

	if err := s.users.InsertOne(ctx, user.ID, user); err != nil {
		if store.IsDuplicateError(err) {
			log.Warn("user conflicts with an existing user",
				slog.String("field", store.ConflictField(err)),
				slog.String("user_id", user.ID))
			return "", err
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID))
		return "", err
	}

	log.Info("user created successfully", slog.String("user_id", user.ID))
	return user.ID, nil
}

// Update implements store.UserStore.Update
// A user sent without credentials keeps the stored password hash.
// Concurrent updates are last-writer-wins.
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user.ID = domain.NormalizeID(user.ID)
	current, err := s.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	user.Normalize()
	if user.Password == "" && user.PasswordHash == "" {
		user.PasswordHash = current.PasswordHash
	}
	user.CreatedAt = current.CreatedAt
	user.UpdatedAt = nextUpdatedAt(current.UpdatedAt, s.now())

	if err := domain.ValidateUser(user, s.now()).Err(); err != nil {
		log.Warn("user validation failed during update",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID))
		return nil, err
	}

	if err := s.prepareCredentials(ctx, user); err != nil {
		return nil, err
	}

	updated, err := s.users.Replace(ctx, user.ID, user)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			log.Debug("user deleted before update", slog.String("user_id", user.ID))
			return nil, store.ErrUserNotFound
		case store.IsDuplicateError(err):
			log.Warn("user update conflicts with an existing user",
				slog.String("field", store.ConflictField(err)),
				slog.String("user_id", user.ID))
			return nil, err
		}
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID))
		return nil, err
	}

	log.Info("user updated successfully", slog.String("user_id", user.ID))
	return updated, nil
}

// Delete implements store.UserStore.Delete
func (s *PostgresUserStore) Delete(ctx context.Context, id string) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	id = domain.NormalizeID(id)
	if !domain.IsValidID(id) {
		log.Debug("malformed user ID on delete", slog.String("user_id", id))
		return false, nil
	}

	deleted, err := s.users.DeleteOne(ctx, id)
	if err != nil {
		log.Error("failed to delete user",
			slog.String("error", err.Error()),
			slog.String("user_id", id))
		return false, err
	}

	log.Info("user delete completed",
		slog.String("user_id", id),
		slog.Bool("deleted", deleted))
	return deleted, nil
}

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// prepareCredentials moves the password into PasswordHash, hashing it unless
// the caller already supplied a hash. The plaintext is cleared either way.
func (s *PostgresUserStore) prepareCredentials(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user.Password == "" {
		return nil
	}
	if s.hasher.IsHash(user.Password) {
		user.PasswordHash = user.Password
		user.Password = ""
		return nil
	}
	if len(user.Password) > maxPasswordBytes {
		log.Warn("password too long", slog.String("user_id", user.ID))
		return domain.NewValidationError("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes), nil)
	}

	hash, err := s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID))
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	user.Password = ""
	return nil
}
