package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/phrazzld/taskflow-api/internal/store"
)

// fieldPattern restricts the document fields FindOne may filter on. Field
// names are interpolated into SQL so that lookups match expression indexes.
var fieldPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Collection is a typed handle on one document table. Documents are stored
// as the JSON encoding of T. A Collection holds no state beyond its table
// name and is safe for concurrent use.
type Collection[T any] struct {
	db          store.DBTX
	name        string
	table       string // quoted identifier
	entity      string
	constraints map[string]string // constraint name -> document field
}

// Name returns the physical table name.
func (c *Collection[T]) Name() string {
	return c.name
}

// InsertOne stores doc under id.
// Returns a *store.ConflictError if a unique constraint fires.
func (c *Collection[T]) InsertOne(ctx context.Context, id string, doc *T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: failed to encode %s: %w", store.ErrTransient, c.entity, err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, data) VALUES ($1, $2::jsonb)`, c.table)
	if _, err := c.db.ExecContext(ctx, query, id, string(data)); err != nil {
		return MapError(err, c.entity, c.constraints)
	}
	return nil
}

// FindByID returns the document stored under id.
// Returns store.ErrNotFound if there is none.
func (c *Collection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	query := fmt.Sprintf(`SELECT data FROM %s WHERE id = $1`, c.table)
	return c.scanOne(c.db.QueryRowContext(ctx, query, id))
}

// FindOne returns the document whose top-level string field equals value.
// The key-existence predicate lets the lookup use partial indexes on field.
// Returns store.ErrNotFound if there is none.
func (c *Collection[T]) FindOne(ctx context.Context, field, value string) (*T, error) {
	if !fieldPattern.MatchString(field) {
		return nil, fmt.Errorf("invalid document field %q", field)
	}
	query := fmt.Sprintf(`SELECT data FROM %s WHERE data ? '%s' AND data->>'%s' = $1 LIMIT 1`,
		c.table, field, field)
	return c.scanOne(c.db.QueryRowContext(ctx, query, value))
}

// FindAll returns every document ordered by ID.
func (c *Collection[T]) FindAll(ctx context.Context) ([]*T, error) {
	query := fmt.Sprintf(`SELECT data FROM %s ORDER BY id`, c.table)
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err, c.entity, c.constraints)
	}
	defer func() { _ = rows.Close() }()

	docs := make([]*T, 0)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, MapError(err, c.entity, c.constraints)
		}
		doc, err := c.decode(data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err, c.entity, c.constraints)
	}
	return docs, nil
}

// Replace overwrites the document stored under id and returns what was
// stored. The stored createdAt always survives the replace.
// Returns store.ErrNotFound if there is no document under id.
func (c *Collection[T]) Replace(ctx context.Context, id string, doc *T) (*T, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode %s: %w", store.ErrTransient, c.entity, err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET data = $2::jsonb || jsonb_build_object('createdAt', COALESCE(data->'createdAt', $2::jsonb->'createdAt'))
		WHERE id = $1
		RETURNING data`, c.table)
	return c.scanOne(c.db.QueryRowContext(ctx, query, id, string(data)))
}

// DeleteOne removes the document stored under id and reports whether one existed.
func (c *Collection[T]) DeleteOne(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, c.table)
	result, err := c.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, MapError(err, c.entity, c.constraints)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, MapError(err, c.entity, c.constraints)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (c *Collection[T]) scanOne(row rowScanner) (*T, error) {
	var data []byte
	if err := row.Scan(&data); err != nil {
		return nil, MapError(err, c.entity, c.constraints)
	}
	return c.decode(data)
}

func (c *Collection[T]) decode(data []byte) (*T, error) {
	doc := new(T)
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %w", store.ErrTransient, c.entity, err)
	}
	return doc, nil
}

// nextUpdatedAt returns the timestamp for a mutation at now of a document
// last updated at prev. The result is strictly after prev even when the
// clock is coarse or has stepped backwards.
func nextUpdatedAt(prev, now time.Time) time.Time {
	now = now.UTC()
	if floor := prev.Add(time.Microsecond); now.Before(floor) {
		return floor.UTC()
	}
	return now
}
