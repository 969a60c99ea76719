// Package helper provides wrappers for testing the PostgreSQL settlement
// journal against a real database.
//
// The wrapper abstracts over the supported adapter types (pgx.Pool, sql.DB,
// sqlx.DB), selected with the ADAPTER_TYPE environment variable. Tests built
// on it are skipped when no test database is reachable, so the DB-bound
// suite can live alongside the pure unit tests.
package helper
