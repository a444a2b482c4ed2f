package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	users  store.UserStore
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users store.UserStore, logger *slog.Logger) *UserHandler {
	if users == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("user store cannot be nil for UserHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		users:  users,
		logger: logger.With(slog.String("component", "user_handler")),
	}
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list users")
		return
	}

	response := make([]UserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, userToResponse(u))
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("listed users", slog.Int("count", len(response)))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// CreateUser handles POST /users. Registration does not require a token.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user := &domain.User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Status:    true,
		BirthDate: birthDate,
		Tags:      req.Tags,
	}

	id, err := h.users.Create(r.Context(), user)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CreatedResponse{ID: id})
}

// GetUser handles GET /users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), pathID(r))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// UpdateUser handles PUT /users/{id}. Users may only replace their own record.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	callerID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}
	id := domain.NormalizeID(pathID(r))
	if id != callerID {
		log.Warn("rejected update of another user", slog.String("user_id", callerID))
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var status bool
	if req.Status != nil {
		status = *req.Status
	} else {
		current, err := h.users.GetByID(r.Context(), id)
		if err != nil {
			HandleAPIError(w, r, err, "Failed to update user")
			return
		}
		status = current.Status
	}

	updated, err := h.users.Update(r.Context(), &domain.User{
		ID:        id,
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Status:    status,
		BirthDate: birthDate,
		Tags:      req.Tags,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(updated))
}

// DeleteUser handles DELETE /users/{id}. Users may only delete their own record.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	callerID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}
	id := domain.NormalizeID(pathID(r))
	if id != callerID {
		log.Warn("rejected deletion of another user", slog.String("user_id", callerID))
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	deleted, err := h.users.Delete(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete user")
		return
	}
	if !deleted {
		HandleAPIError(w, r, store.ErrUserNotFound, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
