package iodb

import (
	"errors"
	"fmt"

	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/gn"
)

// ConnectionError is returned when database connection fails.
func ConnectionError(host string, port int, database, user string, cause error) error {
	msg := `<warning>Could not connect to PostgreSQL database.</warning>

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Database configuration is incorrect
  - Network connectivity issues

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>
  2. Verify database exists:
     <em>psql -h %s -U %s -l</em>
  3. Check the database section of <em>~/.config/anu/config.yaml</em>
     or ANU_DATABASE_* environment variables`

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: []any{host, port, host, user},
		Err: fmt.Errorf("failed to connect to %s:%d/%s: %w",
			host, port, database, cause),
	}
}

// NotConnectedError is returned when an operation needs a connection
// before Connect was called.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database is not connected",
		Err:  errors.New("database pool is nil, call Connect first"),
	}
}

// TableExistsCheckError is returned when a table check query fails.
func TableExistsCheckError(table string, cause error) error {
	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  "Cannot check if table <em>%s</em> exists",
		Vars: []any{table},
		Err:  fmt.Errorf("failed to check table %s: %w", table, cause),
	}
}
