//go:build integration

// Package testdb provides helpers for tests that run against a real
// PostgreSQL server. Tests are skipped unless TASKFLOW_TEST_DATABASE_URL or
// DATABASE_URL is set.
//
// Each call to OpenResolver provisions collections under unique table names
// and drops them when the test ends, so tests may run in parallel against
// one database without seeing each other's documents.
package testdb
