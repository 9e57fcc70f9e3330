// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package. It also owns the
// connection pool setup and the embedded goose migrations that define the
// schema those stores rely on.
package postgres
