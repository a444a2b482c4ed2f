package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
)

// idParam is the chi route parameter carrying an entity ID.
const idParam = "id"

// requireUserID extracts the authenticated user ID placed in the context by
// the auth middleware. It writes a 401 response when none is present.
func requireUserID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (string, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		log.Warn("user ID not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return "", false
	}
	return userID, true
}

// pathID returns the raw {id} route parameter. Malformed IDs are passed on
// to the store, which reports them as not found without querying.
func pathID(r *http.Request) string {
	return chi.URLParam(r, idParam)
}

// decodeAndValidate reads the JSON body into req and checks its struct tags.
// It writes the error response itself and reports whether handling may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	return true
}

// parseBirthDate converts the request's date string, reporting failures
// against the birthDate field.
func parseBirthDate(value string) (domain.Date, error) {
	date, err := domain.ParseDate(value)
	if err != nil {
		return domain.Date{}, domain.NewValidationError("birthDate", "must be a date in YYYY-MM-DD form", domain.ErrInvalidDate)
	}
	return date, nil
}
