package iotable

import (
	"context"
	"fmt"

	"github.com/gnames/anu/internal/iofs"
)

// Pairs is a two-column table of protein identifiers.
type Pairs struct {
	ColumnA string
	ColumnB string
	A       []string
	B       []string
}

// Len returns the number of pairs.
func (p *Pairs) Len() int {
	return len(p.A)
}

// WritePairs creates a table file of pairs.
func WritePairs(ctx context.Context, path string, p *Pairs) error {
	if len(p.A) != len(p.B) {
		err := fmt.Errorf("columns have different lengths: %d and %d",
			len(p.A), len(p.B))
		return TableWriteError(path, err)
	}

	err := iofs.WriteAtomic(path, func(tmp string) error {
		db, err := open(tmp, true)
		if err != nil {
			return err
		}
		defer db.Close()

		meta := map[string]string{
			"kind":     kindPairs,
			"column_a": p.ColumnA,
			"column_b": p.ColumnB,
		}
		if err = createMeta(ctx, db, meta); err != nil {
			return err
		}
		_, err = db.ExecContext(ctx, `CREATE TABLE pairs (
  idx INTEGER PRIMARY KEY,
  protein_a TEXT NOT NULL,
  protein_b TEXT NOT NULL
)`)
		if err != nil {
			return err
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()
		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO pairs (idx, protein_a, protein_b) VALUES (?, ?, ?)")
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i := range p.A {
			if _, err = stmt.ExecContext(ctx, i, p.A[i], p.B[i]); err != nil {
				return err
			}
		}
		if err = tx.Commit(); err != nil {
			return err
		}
		return db.Close()
	})
	if err != nil {
		return TableWriteError(path, err)
	}
	return nil
}

// ReadPairs loads a table of pairs in the order of rows.
func ReadPairs(ctx context.Context, path string) (*Pairs, error) {
	db, meta, err := openExisting(path, kindPairs)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	res := Pairs{ColumnA: meta["column_a"], ColumnB: meta["column_b"]}
	rows, err := db.QueryContext(ctx,
		"SELECT protein_a, protein_b FROM pairs ORDER BY idx")
	if err != nil {
		return nil, TableReadError(path, err)
	}
	defer rows.Close()

	for rows.Next() {
		var a, b string
		if err = rows.Scan(&a, &b); err != nil {
			return nil, TableReadError(path, err)
		}
		res.A = append(res.A, a)
		res.B = append(res.B, b)
	}
	if err = rows.Err(); err != nil {
		return nil, TableReadError(path, err)
	}
	return &res, nil
}
