package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskflow-api/internal/config"
	"github.com/phrazzld/taskflow-api/internal/platform/postgres"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// healthChecker reports whether the store is reachable.
type healthChecker interface {
	Ping(ctx context.Context, timeout time.Duration) error
}

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// resolver owns the connection pool; nil when the stores are not
	// database-backed.
	resolver *postgres.CollectionResolver
	health   healthChecker

	userStore store.UserStore
	taskStore store.TaskStore

	tokenIssuer   auth.TokenIssuer
	authenticator *auth.Authenticator
}

// newApplication connects to the store and wires every dependency.
// The resolver is opened exactly once; a failure here is fatal.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	resolver, err := postgres.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open document store: %w", err)
	}

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	userStore, err := postgres.NewPostgresUserStore(resolver, hasher, logger)
	if err != nil {
		_ = resolver.Close()
		return nil, fmt.Errorf("failed to create user store: %w", err)
	}
	taskStore, err := postgres.NewPostgresTaskStore(resolver, logger)
	if err != nil {
		_ = resolver.Close()
		return nil, fmt.Errorf("failed to create task store: %w", err)
	}

	app, err := wireApplication(cfg, logger, userStore, taskStore, hasher)
	if err != nil {
		_ = resolver.Close()
		return nil, err
	}
	app.resolver = resolver
	app.health = resolver

	logger.Info("Application initialized successfully",
		slog.Int("bcrypt_cost", hasher.Cost()),
		slog.Duration("token_lifetime", auth.TokenLifetime))
	return app, nil
}

// wireApplication builds the auth services on top of already constructed stores.
func wireApplication(
	cfg *config.Config,
	logger *slog.Logger,
	userStore store.UserStore,
	taskStore store.TaskStore,
	hasher auth.PasswordHasher,
) (*application, error) {
	issuer, err := auth.NewTokenIssuer(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}

	authenticator, err := auth.NewAuthenticator(userStore, hasher, issuer, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize authenticator: %w", err)
	}

	return &application{
		config:        cfg,
		logger:        logger,
		userStore:     userStore,
		taskStore:     taskStore,
		tokenIssuer:   issuer,
		authenticator: authenticator,
	}, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.resolver != nil {
		if err := app.resolver.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
