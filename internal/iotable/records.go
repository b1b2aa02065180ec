package iotable

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gnames/anu/internal/iofs"
	"github.com/gnames/anu/pkg/pair"
	"github.com/gnames/gnfmt"
)

// Row is a record together with its position in a table.
type Row struct {
	Index  int
	Record *pair.Record
}

// WriteRecords creates a table file with the given rows. All rows must
// have the same schema. The file appears only after all rows are written.
func WriteRecords(ctx context.Context, path string, rows []Row) error {
	if len(rows) == 0 {
		return TableWriteError(path, errors.New("no rows to write"))
	}
	schema := rows[0].Record.Schema()
	for _, v := range rows[1:] {
		if sig := v.Record.Schema().Signature(); sig != schema.Signature() {
			return SchemaMismatchError(path, schema.Signature(), sig)
		}
	}

	err := iofs.WriteAtomic(path, func(tmp string) error {
		db, err := open(tmp, true)
		if err != nil {
			return err
		}
		defer db.Close()

		if err = createRecords(ctx, db, schema); err != nil {
			return err
		}
		if err = insertRecords(ctx, db, rows); err != nil {
			return err
		}
		return db.Close()
	})
	if err != nil {
		return TableWriteError(path, err)
	}
	return nil
}

func createRecords(ctx context.Context, db *sql.DB, schema pair.Schema) error {
	meta := map[string]string{
		"kind":      kindRecords,
		"signature": schema.Signature(),
		"max_len":   strconv.Itoa(schema.MaxLen),
	}
	if err := createMeta(ctx, db, meta); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx, recordsDDL())
	return err
}

func insertRecords(ctx context.Context, db *sql.DB, rows []Row) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", pair.NumColumns+5), ", ")
	q := fmt.Sprintf("INSERT INTO records (%s) VALUES (%s)",
		recordColumns(), placeholders)
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return err
	}
	defer stmt.Close()

	enc := gnfmt.GNgob{}
	for _, v := range rows {
		r := v.Record
		args := []any{v.Index, r.ID, r.ProteinA, r.ProteinB}
		for _, col := range r.Columns {
			blob, err := enc.Encode(col)
			if err != nil {
				return err
			}
			args = append(args, blob)
		}
		args = append(args, int(r.Label))
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Table is a read-only table of records.
type Table struct {
	db     *sql.DB
	path   string
	maxLen int
	sig    string
}

// Open opens an existing table of records.
func Open(path string) (*Table, error) {
	db, meta, err := openExisting(path, kindRecords)
	if err != nil {
		return nil, err
	}
	maxLen, err := strconv.Atoi(meta["max_len"])
	if err != nil {
		db.Close()
		return nil, TableOpenError(path, err)
	}
	res := Table{db: db, path: path, maxLen: maxLen, sig: meta["signature"]}
	if exp := pair.NewSchema(maxLen).Signature(); exp != res.sig {
		db.Close()
		return nil, SchemaMismatchError(path, exp, res.sig)
	}
	return &res, nil
}

// Close releases the table file.
func (t *Table) Close() error {
	return t.db.Close()
}

// Path returns the table file path.
func (t *Table) Path() string {
	return t.path
}

// MaxLen returns the length of every channel in the table.
func (t *Table) MaxLen() int {
	return t.maxLen
}

// Len returns the number of records.
func (t *Table) Len(ctx context.Context) (int, error) {
	var res int
	err := t.db.QueryRowContext(ctx, "SELECT count(*) FROM records").Scan(&res)
	if err != nil {
		return 0, TableReadError(t.path, err)
	}
	return res, nil
}

// Indices returns row indices in ascending order.
func (t *Table) Indices(ctx context.Context) ([]int, error) {
	rows, err := t.db.QueryContext(ctx, "SELECT idx FROM records ORDER BY idx")
	if err != nil {
		return nil, TableReadError(t.path, err)
	}
	defer rows.Close()

	var res []int
	for rows.Next() {
		var idx int
		if err = rows.Scan(&idx); err != nil {
			return nil, TableReadError(t.path, err)
		}
		res = append(res, idx)
	}
	if err = rows.Err(); err != nil {
		return nil, TableReadError(t.path, err)
	}
	return res, nil
}

// Row returns the record with the given index.
func (t *Table) Row(ctx context.Context, idx int) (*pair.Record, error) {
	q := fmt.Sprintf("SELECT %s FROM records WHERE idx = ?", recordColumns())
	row := t.db.QueryRowContext(ctx, q, idx)
	res, err := t.scan(row)
	if err != nil {
		return nil, TableReadError(t.path, err)
	}
	return res.Record, nil
}

// Iterate calls fn for every row in the order of indices. Iteration stops
// at the first error.
func (t *Table) Iterate(ctx context.Context, fn func(Row) error) error {
	q := fmt.Sprintf("SELECT %s FROM records ORDER BY idx", recordColumns())
	rows, err := t.db.QueryContext(ctx, q)
	if err != nil {
		return TableReadError(t.path, err)
	}
	defer rows.Close()

	for rows.Next() {
		row, err := t.scan(rows)
		if err != nil {
			return TableReadError(t.path, err)
		}
		if err = fn(row); err != nil {
			return err
		}
	}
	if err = rows.Err(); err != nil {
		return TableReadError(t.path, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (t *Table) scan(s scanner) (Row, error) {
	var res Row
	var label int
	rec := pair.Record{MaxLen: t.maxLen}
	blobs := make([][]byte, pair.NumColumns)

	dest := []any{&res.Index, &rec.ID, &rec.ProteinA, &rec.ProteinB}
	for i := range blobs {
		dest = append(dest, &blobs[i])
	}
	dest = append(dest, &label)
	if err := s.Scan(dest...); err != nil {
		return res, err
	}

	enc := gnfmt.GNgob{}
	for i, blob := range blobs {
		var col []float64
		if err := enc.Decode(blob, &col); err != nil {
			return res, fmt.Errorf("cannot decode column %d of row %d: %w",
				i, res.Index, err)
		}
		// gob does not distinguish empty and nil slices
		if col == nil {
			col = make([]float64, 0)
		}
		rec.Columns[i] = col
	}
	rec.Label = pair.Label(label)
	res.Record = &rec
	return res, nil
}
