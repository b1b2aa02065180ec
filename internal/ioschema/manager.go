// Package ioschema implements SchemaManager interface for
// database schema management. This is an impure I/O package
// that wraps GORM AutoMigrate functionality.
package ioschema

import (
	"context"
	"log/slog"

	"github.com/gnames/anu/pkg/anu"
	"github.com/gnames/anu/pkg/db"
	"github.com/gnames/anu/pkg/schema"
)

// manager implements the anu.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) anu.SchemaManager {
	return &manager{operator: op}
}

// Migrate creates tables for exported datasets or updates them to the
// latest version of models.
func (m *manager) Migrate(ctx context.Context) error {
	gormDB, err := openGORM(ctx, m.operator)
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB); err != nil {
		return MigrateSchemaError(err)
	}

	for _, v := range []string{"datasets", "pair_records"} {
		ok, err := m.operator.TableExists(ctx, v)
		if err != nil {
			return err
		}
		if !ok {
			return MigrateSchemaError(missingTableError(v))
		}
	}
	slog.Info("Database schema is up to date")
	return nil
}
