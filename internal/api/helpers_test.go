package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskflow-api/internal/api/middleware"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/mocks"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

const (
	testUserID   = "65f1a2b3c4d5e6f7a8b9c0d1"
	otherUserID  = "65f1a2b3c4d5e6f7a8b9c0d2"
	testEmail    = "ada@example.com"
	testPassword = "secret123"
	bearer       = "Bearer mock-token"
)

// testAPI wires the handlers onto a chi router backed by in-memory mocks.
type testAPI struct {
	router http.Handler
	users  *mocks.MockUserStore
	tasks  *mocks.MockTaskStore
	issuer *mocks.MockTokenIssuer
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	users := mocks.NewMockUserStore()
	tasks := mocks.NewMockTaskStore()
	issuer := mocks.NewMockTokenIssuer(testUserID)

	authenticator, err := auth.NewAuthenticator(users, &mocks.MockPasswordHasher{}, issuer, nil)
	require.NoError(t, err)

	authHandler := NewAuthHandler(authenticator, nil)
	userHandler := NewUserHandler(users, nil)
	taskHandler := NewTaskHandler(tasks, nil)
	authMiddleware := middleware.NewAuthMiddleware(issuer)

	r := chi.NewRouter()
	r.Post("/login", authHandler.Login)
	r.Post("/users", userHandler.CreateUser)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Get("/users", userHandler.ListUsers)
		r.Get("/users/{id}", userHandler.GetUser)
		r.Put("/users/{id}", userHandler.UpdateUser)
		r.Delete("/users/{id}", userHandler.DeleteUser)
		r.Get("/tasks", taskHandler.ListTasks)
		r.Post("/tasks", taskHandler.CreateTask)
		r.Get("/tasks/{id}", taskHandler.GetTask)
		r.Put("/tasks/{id}", taskHandler.UpdateTask)
		r.Delete("/tasks/{id}", taskHandler.DeleteTask)
	})

	return &testAPI{router: r, users: users, tasks: tasks, issuer: issuer}
}

// seedUser stores the caller's account with password testPassword.
func (a *testAPI) seedUser(t *testing.T, id, email string) {
	t.Helper()
	_, err := a.users.Create(context.Background(), &domain.User{
		ID:        id,
		Name:      "Ada Lovelace",
		Email:     email,
		Password:  testPassword,
		Status:    true,
		BirthDate: domain.NewDate(1990, time.January, 1),
	})
	require.NoError(t, err)
}

// do sends a request with an optional JSON body and Authorization header.
func (a *testAPI) do(t *testing.T, method, path string, body interface{}, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}
