// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package.
//
// Adapter owns the connection pool and can be disconnected and reconnected
// at runtime; the stores only see it through store.DBTX. Driver errors are
// translated by MapError so that callers can distinguish connectivity
// problems (store.ErrConnection) from query faults.
//
// The schema lives in migrations/ and is embedded into the binary.
package postgres
