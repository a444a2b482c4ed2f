package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	ListAllFn    func(ctx context.Context) ([]*domain.User, error)
	GetByIDFn    func(ctx context.Context, id string) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	CreateFn     func(ctx context.Context, user *domain.User) (string, error)
	UpdateFn     func(ctx context.Context, user *domain.User) (*domain.User, error)
	DeleteFn     func(ctx context.Context, id string) (bool, error)

	mu    sync.Mutex
	Users map[string]*domain.User // keyed by ID
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new mock store with an empty in-memory backend
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{Users: make(map[string]*domain.User)}
}

// ListAll implements the UserStore interface
func (m *MockUserStore) ListAll(ctx context.Context) ([]*domain.User, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]*domain.User, 0, len(m.Users))
	for _, u := range m.Users {
		copied := *u
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id = domain.NormalizeID(id)
	u, ok := m.Users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	email = domain.NormalizeEmail(email)
	for _, u := range m.Users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Create implements the UserStore interface. The default stores the
// plaintext password prefixed with "hashed:".
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) (string, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	user.Normalize()
	for _, u := range m.Users {
		if u.Email == user.Email {
			return "", store.NewConflictError("user", "email", nil)
		}
	}
	if user.ID == "" {
		user.ID = domain.NewID()
	}
	user.ID = domain.NormalizeID(user.ID)
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	if user.Password != "" {
		user.PasswordHash = "hashed:" + user.Password
		user.Password = ""
	}
	if err := domain.ValidateUser(user, now).Err(); err != nil {
		return "", err
	}

	copied := *user
	m.Users[user.ID] = &copied
	return user.ID, nil
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	user.ID = domain.NormalizeID(user.ID)
	current, ok := m.Users[user.ID]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	user.Normalize()
	for id, u := range m.Users {
		if id != user.ID && u.Email == user.Email {
			return nil, store.NewConflictError("user", "email", nil)
		}
	}
	if user.Password != "" {
		user.PasswordHash = "hashed:" + user.Password
		user.Password = ""
	}
	if user.PasswordHash == "" {
		user.PasswordHash = current.PasswordHash
	}
	user.CreatedAt = current.CreatedAt
	user.UpdatedAt = current.UpdatedAt.Add(time.Microsecond)
	if now := time.Now().UTC(); now.After(user.UpdatedAt) {
		user.UpdatedAt = now
	}

	copied := *user
	m.Users[user.ID] = &copied
	result := copied
	return &result, nil
}

// Delete implements the UserStore interface
func (m *MockUserStore) Delete(ctx context.Context, id string) (bool, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id = domain.NormalizeID(id)
	if _, ok := m.Users[id]; !ok {
		return false, nil
	}
	delete(m.Users, id)
	return true, nil
}
