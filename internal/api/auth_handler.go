package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
)

// LoginService exchanges credentials for a token. It is implemented by
// *auth.Authenticator.
type LoginService interface {
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
}

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	authenticator LoginService
	logger        *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authenticator LoginService, logger *slog.Logger) *AuthHandler {
	if authenticator == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("authenticator cannot be nil for AuthHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		authenticator: authenticator,
		logger:        logger.With(slog.String("component", "auth_handler")),
	}
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authenticator.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	log.Debug("issued token", slog.String("user_id", result.User.ID))
	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{Token: result.Token})
}
