package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/taskflow-api/internal/config"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface on the tasks
// collection. Task.UserID is stored as given and never checked against users.
type PostgresTaskStore struct {
	tasks  *Collection[domain.Task]
	logger *slog.Logger
	now    func() time.Time
}

// NewPostgresTaskStore creates a task store on the resolver's tasks collection.
func NewPostgresTaskStore(resolver *CollectionResolver, logger *slog.Logger) (*PostgresTaskStore, error) {
	tasks, err := Resolve[domain.Task](resolver, config.TasksCollection)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_store")),
		now:    time.Now,
	}, nil
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// ListAll implements store.TaskStore.ListAll
func (s *PostgresTaskStore) ListAll(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := s.tasks.FindAll(ctx)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, err
	}
	return tasks, nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	id = domain.NormalizeID(id)
	if !domain.IsValidID(id) {
		log.Debug("malformed task ID", slog.String("task_id", id))
		return nil, store.ErrTaskNotFound
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("task not found", slog.String("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id))
		return nil, err
	}
	return task, nil
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if task.ID == "" {
		task.ID = domain.NewID()
	}
	task.ID = domain.NormalizeID(task.ID)
	now := s.now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	task.ApplyDefaults()

	if err := domain.ValidateTask(task, now).Err(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID))
		return "", err
	}

	if err := s.tasks.InsertOne(ctx, task.ID, task); err != nil {
		if store.IsDuplicateError(err) {
			log.Warn("task conflicts with an existing task",
				slog.String("field", store.ConflictField(err)),
				slog.String("task_id", task.ID))
			return "", err
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID))
		return "", err
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID),
		slog.String("user_id", task.UserID))
	return task.ID, nil
}

// Update implements store.TaskStore.Update
// Concurrent updates are last-writer-wins.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task.ID = domain.NormalizeID(task.ID)
	current, err := s.GetByID(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	task.ApplyDefaults()
	task.CreatedAt = current.CreatedAt
	task.UpdatedAt = nextUpdatedAt(current.UpdatedAt, s.now())

	if err := domain.ValidateTask(task, s.now()).Err(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID))
		return nil, err
	}

	updated, err := s.tasks.Replace(ctx, task.ID, task)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("task deleted before update", slog.String("task_id", task.ID))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID))
		return nil, err
	}

	log.Info("task updated successfully", slog.String("task_id", task.ID))
	return updated, nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id string) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	id = domain.NormalizeID(id)
	if !domain.IsValidID(id) {
		log.Debug("malformed task ID on delete", slog.String("task_id", id))
		return false, nil
	}

	deleted, err := s.tasks.DeleteOne(ctx, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id))
		return false, err
	}

	log.Info("task delete completed",
		slog.String("task_id", id),
		slog.Bool("deleted", deleted))
	return deleted, nil
}
