//go:build integration

// Package testdb starts disposable PostgreSQL and Redis containers for
// integration tests and applies the embedded schema.
//
// Tests that touch the database either get a fresh migrated database from
// GetTestDBWithT or run inside WithTx, which rolls the transaction back when
// the test finishes so tests do not see each other's rows.
//
// Set MAINT_TEST_DATABASE_URL or MAINT_TEST_REDIS_ADDR to reuse an existing
// server instead of starting a container.
package testdb
