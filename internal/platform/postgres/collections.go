package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/taskflow-api/internal/config"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// tablePattern limits physical collection names to plain identifiers that fit
// PostgreSQL's 63-byte limit with room for index suffixes.
var tablePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,49}$`)

// CollectionResolver maps logical collection names to tables in one shared
// connection pool. It is built once at startup and is safe for concurrent use.
type CollectionResolver struct {
	db     *sql.DB
	names  map[string]string // logical -> physical
	logger *slog.Logger
}

// Open connects to the database described by cfg, verifies the connection
// and provisions every configured collection. Any failure is fatal for the
// caller: there is no degraded mode.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*CollectionResolver, error) {
	connConfig, err := pgx.ParseConfig(cfg.URL)
	if err != nil {
		// The parse error can echo the connection string, password included.
		return nil, fmt.Errorf("%w: database.url is not a valid connection string", config.ErrInvalidConfig)
	}
	if cfg.Name != "" {
		connConfig.Database = cfg.Name
	}
	timeout := time.Duration(cfg.ConnectTimeoutSeconds) * time.Second
	if timeout > 0 {
		connConfig.ConnectTimeout = timeout
	}

	db := stdlib.OpenDB(*connConfig)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(max(cfg.MaxOpenConns/2, 1))
	db.SetConnMaxLifetime(5 * time.Minute)

	resolver, err := NewCollectionResolver(db, collectionNames(cfg), logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := resolver.Ping(ctx, timeout); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := resolver.Provision(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	resolver.logger.Info("database connection established",
		slog.String("database", connConfig.Database),
		slog.Int("collections", len(resolver.names)))
	return resolver, nil
}

// NewCollectionResolver wraps an open pool. names maps logical collection
// names to physical table names. It performs no I/O.
func NewCollectionResolver(db *sql.DB, names map[string]string, logger *slog.Logger) (*CollectionResolver, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	resolved := make(map[string]string, len(names))
	for logical, physical := range names {
		if !tablePattern.MatchString(physical) {
			return nil, fmt.Errorf("%w: collection %q has invalid name %q",
				config.ErrInvalidConfig, logical, physical)
		}
		resolved[logical] = physical
	}

	return &CollectionResolver{
		db:     db,
		names:  resolved,
		logger: logger.With(slog.String("component", "collection_resolver")),
	}, nil
}

// collectionNames returns the users and tasks collections plus any other
// configured collection, with overrides applied.
func collectionNames(cfg config.DatabaseConfig) map[string]string {
	names := map[string]string{
		config.UsersCollection: cfg.CollectionName(config.UsersCollection),
		config.TasksCollection: cfg.CollectionName(config.TasksCollection),
	}
	for logical := range cfg.Collections {
		names[logical] = cfg.CollectionName(logical)
	}
	return names
}

// Ping checks that the database is reachable.
func (r *CollectionResolver) Ping(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := r.db.PingContext(ctx); err != nil {
		r.logger.Error("database ping failed", slog.String("error", err.Error()))
		return fmt.Errorf("%w: failed to ping database: %w", store.ErrTransient, err)
	}
	return nil
}

// Provision creates every collection table that does not exist yet, and the
// partial unique index on the user email. Documents without an email are
// exempt from the index. Everything runs in one transaction.
func (r *CollectionResolver) Provision(ctx context.Context) error {
	logicals := make([]string, 0, len(r.names))
	for logical := range r.names {
		logicals = append(logicals, logical)
	}
	sort.Strings(logicals)

	err := store.RunInTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		for _, logical := range logicals {
			for _, stmt := range provisionStatements(logical, r.names[logical]) {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("provisioning collection %s: %w", logical, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("failed to provision collections", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", store.ErrTransient, err)
	}
	return nil
}

func provisionStatements(logical, table string) []string {
	quoted := pgx.Identifier{table}.Sanitize()
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (id CHAR(24) PRIMARY KEY, data JSONB NOT NULL)`, quoted),
	}
	if logical == config.UsersCollection {
		stmts = append(stmts, fmt.Sprintf(
			`CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s ((data->>'email')) WHERE data ? 'email'`,
			pgx.Identifier{emailIndexName(table)}.Sanitize(), quoted))
	}
	return stmts
}

func emailIndexName(table string) string {
	return table + "_email_key"
}

// constraintFields maps the constraints on a collection to the document field
// each one guards.
func constraintFields(logical, table string) map[string]string {
	fields := map[string]string{table + "_pkey": "id"}
	if logical == config.UsersCollection {
		fields[emailIndexName(table)] = "email"
	}
	return fields
}

// Resolve returns the typed handle for a logical collection. It performs no I/O.
func Resolve[T any](r *CollectionResolver, logical string) (*Collection[T], error) {
	table, ok := r.names[logical]
	if !ok {
		return nil, fmt.Errorf("%w: unknown collection %q", config.ErrInvalidConfig, logical)
	}
	return &Collection[T]{
		db:          r.db,
		name:        table,
		table:       pgx.Identifier{table}.Sanitize(),
		entity:      strings.TrimSuffix(logical, "s"),
		constraints: constraintFields(logical, table),
	}, nil
}

// DB returns the shared pool.
func (r *CollectionResolver) DB() *sql.DB {
	return r.db
}

// Close closes the pool.
func (r *CollectionResolver) Close() error {
	return r.db.Close()
}
