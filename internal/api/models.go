package api

import (
	"time"

	"github.com/phrazzld/taskflow-api/internal/domain"
)

// LoginRequest defines the payload for POST /login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// CreateUserRequest defines the payload for POST /users.
type CreateUserRequest struct {
	Name      string   `json:"name"      validate:"required,max=100"`
	Email     string   `json:"email"     validate:"required,email,max=254"`
	Password  string   `json:"password"  validate:"required,max=72"`
	BirthDate string   `json:"birthDate" validate:"required"`
	Tags      []string `json:"tags"`
}

// UpdateUserRequest defines the payload for PUT /users/{id}.
// An empty password keeps the stored credentials and a nil status keeps the
// stored status.
type UpdateUserRequest struct {
	Name      string   `json:"name"      validate:"required,max=100"`
	Email     string   `json:"email"     validate:"required,email,max=254"`
	Password  string   `json:"password"  validate:"omitempty,max=72"`
	BirthDate string   `json:"birthDate" validate:"required"`
	Status    *bool    `json:"status"`
	Tags      []string `json:"tags"`
}

// UserResponse is the public view of a user. It never includes credentials.
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Status    bool        `json:"status"`
	BirthDate domain.Date `json:"birthDate"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Tags      []string    `json:"tags"`
}

// TaskRequest defines the payload for POST /tasks and PUT /tasks/{id}.
// Zero values fall back to the task defaults; an empty userId assigns the
// task to the caller.
type TaskRequest struct {
	Title           string                    `json:"title"           validate:"required"`
	Description     string                    `json:"description"`
	Category        string                    `json:"category"`
	DueDate         *time.Time                `json:"dueDate"`
	Priority        int                       `json:"priority"`
	IsCompleted     bool                      `json:"isCompleted"`
	DurationMinutes int                       `json:"durationMinutes"`
	Tags            []string                  `json:"tags"`
	Recurrence      *domain.RecurrencePattern `json:"recurrence"`
	UserID          string                    `json:"userId"`
}

// TaskResponse is the public view of a task.
type TaskResponse struct {
	ID              string                    `json:"id"`
	Title           string                    `json:"title"`
	Description     string                    `json:"description"`
	Category        string                    `json:"category"`
	DueDate         *time.Time                `json:"dueDate,omitempty"`
	Priority        int                       `json:"priority"`
	IsCompleted     bool                      `json:"isCompleted"`
	DurationMinutes int                       `json:"durationMinutes"`
	Tags            []string                  `json:"tags"`
	Recurrence      *domain.RecurrencePattern `json:"recurrence,omitempty"`
	UserID          string                    `json:"userId"`
	CreatedAt       time.Time                 `json:"createdAt"`
	UpdatedAt       time.Time                 `json:"updatedAt"`
}

// CreatedResponse reports the ID assigned to a new entity.
type CreatedResponse struct {
	ID string `json:"id"`
}

func userToResponse(u *domain.User) UserResponse {
	tags := u.Tags
	if tags == nil {
		tags = []string{}
	}
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Status:    u.Status,
		BirthDate: u.BirthDate,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		Tags:      tags,
	}
}

func taskToResponse(t *domain.Task) TaskResponse {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return TaskResponse{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		Category:        t.Category,
		DueDate:         t.DueDate,
		Priority:        t.Priority,
		IsCompleted:     t.IsCompleted,
		DurationMinutes: t.DurationMinutes,
		Tags:            tags,
		Recurrence:      t.Recurrence,
		UserID:          t.UserID,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// toTask builds the domain task for id owned by ownerID unless the request
// names another owner.
func (req TaskRequest) toTask(id, ownerID string) *domain.Task {
	userID := req.UserID
	if userID == "" {
		userID = ownerID
	}
	return &domain.Task{
		ID:              id,
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		DueDate:         req.DueDate,
		Priority:        req.Priority,
		IsCompleted:     req.IsCompleted,
		DurationMinutes: req.DurationMinutes,
		Tags:            req.Tags,
		Recurrence:      req.Recurrence,
		UserID:          userID,
	}
}
