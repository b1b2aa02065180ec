package ioschema

import (
	"context"
	"fmt"

	"github.com/gnames/anu/pkg/db"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openGORM wraps the pool of the operator into a GORM connection.
func openGORM(ctx context.Context, op db.Operator) (*gorm.DB, error) {
	pool := op.Pool()
	if pool == nil {
		return nil, NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return nil, GORMConnectionError(err)
	}
	return gormDB.WithContext(ctx), nil
}

func missingTableError(table string) error {
	return fmt.Errorf("table %s was not created", table)
}
