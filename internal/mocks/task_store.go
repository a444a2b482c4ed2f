package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	ListAllFn func(ctx context.Context) ([]*domain.Task, error)
	GetByIDFn func(ctx context.Context, id string) (*domain.Task, error)
	CreateFn  func(ctx context.Context, task *domain.Task) (string, error)
	UpdateFn  func(ctx context.Context, task *domain.Task) (*domain.Task, error)
	DeleteFn  func(ctx context.Context, id string) (bool, error)

	mu    sync.Mutex
	Tasks map[string]*domain.Task // keyed by ID
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a new mock store with an empty in-memory backend
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{Tasks: make(map[string]*domain.Task)}
}

// ListAll implements the TaskStore interface
func (m *MockTaskStore) ListAll(ctx context.Context) ([]*domain.Task, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	tasks := make([]*domain.Task, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		copied := *t
		tasks = append(tasks, &copied)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id = domain.NormalizeID(id)
	t, ok := m.Tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copied := *t
	return &copied, nil
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) (string, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if task.ID == "" {
		task.ID = domain.NewID()
	}
	task.ID = domain.NormalizeID(task.ID)
	now := time.Now().UTC()
	task.CreatedAt, task.UpdatedAt = now, now
	task.ApplyDefaults()
	if err := domain.ValidateTask(task, now).Err(); err != nil {
		return "", err
	}

	copied := *task
	m.Tasks[task.ID] = &copied
	return task.ID, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	task.ID = domain.NormalizeID(task.ID)
	current, ok := m.Tasks[task.ID]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	task.ApplyDefaults()
	task.CreatedAt = current.CreatedAt
	task.UpdatedAt = current.UpdatedAt.Add(time.Microsecond)
	if now := time.Now().UTC(); now.After(task.UpdatedAt) {
		task.UpdatedAt = now
	}
	if err := domain.ValidateTask(task, time.Now()).Err(); err != nil {
		return nil, err
	}

	copied := *task
	m.Tasks[task.ID] = &copied
	result := copied
	return &result, nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, id string) (bool, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id = domain.NormalizeID(id)
	if _, ok := m.Tasks[id]; !ok {
		return false, nil
	}
	delete(m.Tasks, id)
	return true, nil
}
