// Package iotable stores records of protein pairs in SQLite files.
//
// A table file is written once, as a whole, and is never modified in place.
// Files are created under a temporary name and renamed when complete, so
// a table either exists with all its rows or does not exist at all.
// Large tables are produced by concatenation of small ones.
package iotable

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/gnames/anu/pkg/pair"
	_ "modernc.org/sqlite"
)

const (
	kindRecords = "records"
	kindPairs   = "pairs"
)

// open connects to an SQLite file. SQLite allows one writer, and ATTACH
// works per connection, so only one connection is used.
func open(path string, write bool) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
	}
	if write {
		// the file is synced and renamed after it is complete
		pragmas = append(pragmas,
			"PRAGMA journal_mode = OFF",
			"PRAGMA synchronous = OFF",
		)
	}
	for _, v := range pragmas {
		if _, err = db.Exec(v); err != nil {
			db.Close()
			return nil, fmt.Errorf("cannot execute %q: %w", v, err)
		}
	}
	return db, nil
}

// openExisting opens a table file for reading and checks its kind.
func openExisting(path, kind string) (*sql.DB, map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, TableOpenError(path, err)
	}
	db, err := open(path, false)
	if err != nil {
		return nil, nil, TableOpenError(path, err)
	}
	meta, err := readMeta(db, "main")
	if err != nil {
		db.Close()
		return nil, nil, TableOpenError(path, err)
	}
	if meta["kind"] != kind {
		db.Close()
		err = fmt.Errorf("table kind is %q, expected %q", meta["kind"], kind)
		return nil, nil, TableOpenError(path, err)
	}
	return db, meta, nil
}

func createMeta(ctx context.Context, db *sql.DB, meta map[string]string) error {
	_, err := db.ExecContext(ctx,
		`CREATE TABLE meta (key TEXT PRIMARY KEY, value TEXT NOT NULL)`)
	if err != nil {
		return err
	}
	for k, v := range meta {
		_, err = db.ExecContext(ctx,
			`INSERT INTO meta (key, value) VALUES (?, ?)`, k, v)
		if err != nil {
			return err
		}
	}
	return nil
}

func readMeta(db *sql.DB, schema string) (map[string]string, error) {
	rows, err := db.Query(fmt.Sprintf("SELECT key, value FROM %s.meta", schema))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err = rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		res[k] = v
	}
	return res, rows.Err()
}

func recordsDDL() string {
	cols := []string{
		"idx INTEGER PRIMARY KEY",
		"id TEXT NOT NULL",
		"protein_a TEXT NOT NULL",
		"protein_b TEXT NOT NULL",
	}
	for _, v := range featureColumns() {
		cols = append(cols, quote(v)+" BLOB NOT NULL")
	}
	cols = append(cols, "interaction INTEGER NOT NULL")
	return "CREATE TABLE records (\n  " + strings.Join(cols, ",\n  ") + "\n)"
}

// featureColumns returns column names without "interaction".
func featureColumns() []string {
	names := pair.ColumnNames()
	return names[:pair.NumColumns]
}

func recordColumns() string {
	cols := []string{"idx", "id", "protein_a", "protein_b"}
	for _, v := range featureColumns() {
		cols = append(cols, quote(v))
	}
	cols = append(cols, "interaction")
	return strings.Join(cols, ", ")
}

func quote(s string) string {
	return `"` + s + `"`
}
