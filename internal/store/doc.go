// Package store defines the repository interfaces for users and tasks and the
// error taxonomy every store implementation reports through.
//
// Callers depend on these interfaces rather than on a concrete database.
// Implementations must surface failures using the sentinel errors and the
// ConflictError type declared here so the service and HTTP layers can
// classify them with errors.Is and errors.As.
package store
