// Package ioexport implements the Exporter interface. It copies records of
// final input tables to PostgreSQL, so they can be queried and shared.
package ioexport

import (
	"context"
	"log/slog"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/anu/internal/iofs"
	"github.com/gnames/anu/internal/iotable"
	"github.com/gnames/anu/pkg/anu"
	"github.com/gnames/anu/pkg/config"
	"github.com/gnames/anu/pkg/datasets"
	"github.com/gnames/anu/pkg/db"
	"github.com/gnames/anu/pkg/matrix"
	"github.com/gnames/anu/pkg/pair"
	"github.com/gnames/anu/pkg/schema"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type exporter struct {
	cfg      *config.Config
	operator db.Operator
}

// New creates an Exporter that writes to the database of the operator.
// The schema has to be migrated before export.
func New(cfg *config.Config, op db.Operator) anu.Exporter {
	return &exporter{cfg: cfg, operator: op}
}

// Export replaces records of a dataset in the database with records of
// its final input table. It returns the number of exported records.
// Everything happens in one transaction.
func (e *exporter) Export(
	ctx context.Context,
	ds datasets.Dataset,
) (int, error) {
	start := time.Now()
	pool := e.operator.Pool()
	if pool == nil {
		return 0, NotConnectedError()
	}

	path := e.cfg.InputTablePath(ds.Name)
	if !iofs.Exists(path) {
		return 0, NoInputError(ds.Name, path)
	}
	tbl, err := iotable.Open(path)
	if err != nil {
		return 0, err
	}
	defer tbl.Close()
	total, err := tbl.Len(ctx)
	if err != nil {
		return 0, err
	}

	exportID := uuid.NewString()
	slog.Info("Starting export",
		"dataset", ds.Name,
		"export_id", exportID,
		"records", total,
	)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, ExportError(ds.Name, err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		"DELETE FROM pair_records WHERE dataset_name = $1", ds.Name)
	if err != nil {
		return 0, ExportError(ds.Name, err)
	}

	count, err := e.copyRecords(ctx, tx, tbl, ds.Name, total)
	if err != nil {
		return 0, err
	}

	q := `INSERT INTO datasets
  (name, title, zenodo_id, interacting, max_len, record_num, export_id, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (name) DO UPDATE SET
  title = EXCLUDED.title,
  zenodo_id = EXCLUDED.zenodo_id,
  interacting = EXCLUDED.interacting,
  max_len = EXCLUDED.max_len,
  record_num = EXCLUDED.record_num,
  export_id = EXCLUDED.export_id,
  updated_at = EXCLUDED.updated_at`
	_, err = tx.Exec(ctx, q,
		ds.Name, ds.Title, ds.ZenodoID, ds.Interacting,
		tbl.MaxLen(), count, exportID, time.Now(),
	)
	if err != nil {
		return 0, ExportError(ds.Name, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, ExportError(ds.Name, err)
	}

	// statistics only, a failure does not undo the export
	if err = analyze(ctx, pool); err != nil {
		slog.Warn("Cannot analyze pair_records", "error", err)
	}

	dur := time.Since(start)
	slog.Info("Export complete",
		"dataset", ds.Name,
		"export_id", exportID,
		"records", count,
		"duration", gnfmt.TimeString(dur.Seconds()),
	)
	gn.Info("Exported %s records of <em>%s</em> in %s",
		humanize.Comma(int64(count)), ds.Name, gnfmt.TimeString(dur.Seconds()))
	return count, nil
}

// copyRecords streams table rows into pair_records in batches.
func (e *exporter) copyRecords(
	ctx context.Context,
	tx pgx.Tx,
	tbl *iotable.Table,
	dataset string,
	total int,
) (int, error) {
	batchSize := e.cfg.Database.BatchSize
	if batchSize <= 0 {
		batchSize = 5_000
	}

	bar := pb.Full.Start(total)
	bar.Set("prefix", "Exporting records: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	var count int
	rows := make([][]any, 0, batchSize)
	flush := func() error {
		if len(rows) == 0 {
			return nil
		}
		n, err := tx.CopyFrom(
			ctx,
			pgx.Identifier{"pair_records"},
			schema.PairColumns,
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return ExportError(dataset, err)
		}
		count += int(n)
		bar.Add(len(rows))
		rows = rows[:0]
		return nil
	}

	err := tbl.Iterate(ctx, func(r iotable.Row) error {
		rows = append(rows, pairRow(dataset, r))
		if len(rows) >= batchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if err = flush(); err != nil {
		return 0, err
	}
	return count, nil
}

// pairRow converts a record to values of schema.PairColumns.
func pairRow(dataset string, r iotable.Row) []any {
	rec := r.Record
	return []any{
		dataset,
		r.Index,
		rec.ID,
		rec.ProteinA,
		rec.ProteinB,
		int16(rec.Label),
		flatFeatures(rec, false),
		flatFeatures(rec, true),
	}
}

// flatFeatures joins all channels of one protein.
func flatFeatures(rec *pair.Record, proteinB bool) []float64 {
	res := make([]float64, 0, matrix.NumChannels*rec.MaxLen)
	for _, ch := range matrix.Channels() {
		res = append(res, rec.Channel(ch, proteinB)...)
	}
	return res
}

// analyze updates planner statistics after a bulk load. VACUUM cannot
// run inside a transaction, so it goes through the pool.
func analyze(ctx context.Context, pool *pgxpool.Pool) error {
	start := time.Now()
	_, err := pool.Exec(ctx, "VACUUM ANALYZE pair_records")
	if err != nil {
		return err
	}
	slog.Info("VACUUM ANALYZE completed",
		"table", "pair_records",
		"duration", time.Since(start).String(),
	)
	return nil
}
