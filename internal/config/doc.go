// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional YAML file. It provides type-safe
// access to the settings needed by the store, the token issuer, and the HTTP
// server while keeping configuration details out of business logic.
package config
