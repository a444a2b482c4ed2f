// Package api handles incoming HTTP requests, request validation, and
// response formatting for logins, users, and tasks. It translates HTTP
// concerns into calls on the stores and the authenticator, and maps their
// typed failures onto status codes without leaking internals.
package api
