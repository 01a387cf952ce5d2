// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package, together with the
// embedded goose schema migrations and connection setup.
package postgres
