package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// PostgreSQL error codes
const (
	// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
	uniqueViolationCode = "23505"
)

// MapError maps a database error to the store error taxonomy:
//   - sql.ErrNoRows becomes store.ErrNotFound
//   - a unique violation becomes a *store.ConflictError naming the field the
//     violated constraint guards, looked up in constraints
//   - anything else is wrapped with store.ErrTransient
func MapError(err error, entity string, constraints map[string]string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return store.NewConflictError(entity, constraints[pgErr.ConstraintName], err)
	}

	return fmt.Errorf("%w: %w", store.ErrTransient, err)
}
