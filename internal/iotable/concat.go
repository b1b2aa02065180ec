package iotable

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gnames/anu/internal/iofs"
	"github.com/gnames/anu/pkg/pair"
)

// Concat joins tables of records into a new table at out. Rows are copied
// table by table in the order of paths. All tables must have the same
// schema, and row indices must not repeat. It returns the number of rows
// in the new table.
func Concat(ctx context.Context, paths []string, out string) (int, error) {
	if len(paths) == 0 {
		return 0, TableWriteError(out, errors.New("no tables to concatenate"))
	}

	first, err := Open(paths[0])
	if err != nil {
		return 0, err
	}
	schema := pair.NewSchema(first.MaxLen())
	first.Close()

	var count int
	var mismatch error
	err = iofs.WriteAtomic(out, func(tmp string) error {
		db, err := open(tmp, true)
		if err != nil {
			return err
		}
		defer db.Close()

		if err = createRecords(ctx, db, schema); err != nil {
			return err
		}

		for _, path := range paths {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if _, err = db.ExecContext(ctx, "ATTACH DATABASE ? AS src", path); err != nil {
				return fmt.Errorf("cannot attach %s: %w", path, err)
			}
			meta, err := readMeta(db, "src")
			if err == nil && meta["signature"] != schema.Signature() {
				mismatch = SchemaMismatchError(path, schema.Signature(), meta["signature"])
				err = mismatch
			}
			if err == nil {
				q := fmt.Sprintf(
					"INSERT INTO main.records (%[1]s) SELECT %[1]s FROM src.records ORDER BY idx",
					recordColumns(),
				)
				_, err = db.ExecContext(ctx, q)
			}
			if _, derr := db.ExecContext(ctx, "DETACH DATABASE src"); derr != nil && err == nil {
				err = derr
			}
			if err != nil {
				return fmt.Errorf("cannot copy rows of %s: %w", path, err)
			}
		}

		if err = db.QueryRowContext(ctx, "SELECT count(*) FROM records").Scan(&count); err != nil {
			return err
		}
		_, err = db.ExecContext(ctx,
			"INSERT INTO meta (key, value) VALUES ('sources', ?)", strconv.Itoa(len(paths)))
		if err != nil {
			return err
		}
		return db.Close()
	})
	if mismatch != nil {
		return 0, mismatch
	}
	if err != nil {
		return 0, TableWriteError(out, err)
	}
	return count, nil
}
