// Package postgres implements the repositories defined in internal/store on
// top of PostgreSQL used as a document store.
//
// Each logical collection (users, tasks) is a table holding one JSONB document
// per row, keyed by the entity's 24-character hex ID:
//
//	CREATE TABLE users (id CHAR(24) PRIMARY KEY, data JSONB NOT NULL)
//
// CollectionResolver opens the pool, checks connectivity and provisions the
// tables plus a partial unique index on the user email, then hands out typed
// Collection handles. Uniqueness violations are classified from the driver's
// error code and constraint name, never from the message text.
package postgres
