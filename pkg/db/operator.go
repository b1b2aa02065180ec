// Package db defines the contract for PostgreSQL connections used by
// export.
package db

import (
	"context"

	"github.com/gnames/anu/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator manages a connection pool. Components that need bulk inserts
// or transactions take the pool with Pool().
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pool, nil before Connect.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)
}
