// Package iotesting provides shared test utilities for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gnames/anu/internal/iodb"
	"github.com/gnames/anu/pkg/config"
	"github.com/gnames/anu/pkg/db"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "anu_test"
)

// GetTestConfig returns a configuration for tests. Data goes to a
// temporary directory. Database settings can be changed with
// ANU_DATABASE_* environment variables, but the database name is always
// TestDatabaseName.
func GetTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	opts := []config.Option{
		config.OptDataDir(t.TempDir()),
		config.OptDatabaseDatabase(TestDatabaseName),
	}
	if s := os.Getenv("ANU_DATABASE_HOST"); s != "" {
		opts = append(opts, config.OptDatabaseHost(s))
	}
	if s := os.Getenv("ANU_DATABASE_PORT"); s != "" {
		if port, err := strconv.Atoi(s); err == nil {
			opts = append(opts, config.OptDatabasePort(port))
		}
	}
	if s := os.Getenv("ANU_DATABASE_USER"); s != "" {
		opts = append(opts, config.OptDatabaseUser(s))
	}
	if s := os.Getenv("ANU_DATABASE_PASSWORD"); s != "" {
		opts = append(opts, config.OptDatabasePassword(s))
	}
	cfg.Update(opts)
	return cfg
}

// ConnectOrSkip connects to the test database. The test is skipped in
// short mode or when PostgreSQL is not reachable.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    cfg := iotesting.GetTestConfig(t)
//	    op := iotesting.ConnectOrSkip(t, cfg)
//	    // ... use op for database operations
//	}
func ConnectOrSkip(t *testing.T, cfg *config.Config) db.Operator {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		t.Skipf("PostgreSQL is not available: %v", err)
	}
	t.Cleanup(func() { op.Close() })
	return op
}
