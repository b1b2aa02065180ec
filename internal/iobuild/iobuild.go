// Package iobuild implements the Builder interface. It converts selected
// pairs of a dataset into records of the model input table. Every row is
// written as a separate chunk table followed by the index of the last
// completed row, so an interrupted run continues after the last chunk.
// Chunks are concatenated into the final table at the end of every run.
package iobuild

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/anu/internal/iocheckpoint"
	"github.com/gnames/anu/internal/iofs"
	"github.com/gnames/anu/internal/iotable"
	"github.com/gnames/anu/pkg/anu"
	"github.com/gnames/anu/pkg/checkpoint"
	"github.com/gnames/anu/pkg/config"
	"github.com/gnames/anu/pkg/datasets"
	"github.com/gnames/anu/pkg/matrix"
	"github.com/gnames/anu/pkg/pair"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
)

type builder struct {
	cfg   *config.Config
	store *iocheckpoint.Store

	// afterRow is called when a row and its index are saved.
	afterRow func(row int)
}

// New creates a Builder that reads selected pairs from the store.
func New(cfg *config.Config, store *iocheckpoint.Store) anu.Builder {
	return &builder{cfg: cfg, store: store}
}

// Run implements anu.Builder. With Build.FinalizeOnly it only
// concatenates existing chunks.
func (b *builder) Run(
	ctx context.Context,
	ds datasets.Dataset,
) (*anu.BuildSummary, error) {
	start := time.Now()

	lock, err := iofs.AcquireLock(b.cfg.InputDir(ds.Name))
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	res := &anu.BuildSummary{
		Dataset: ds.Name,
		Output:  b.cfg.InputTablePath(ds.Name),
	}

	if !b.cfg.Build.FinalizeOnly {
		sel, err := b.store.LoadSelected(ds.Name, ds.ColumnA, ds.ColumnB)
		if err != nil {
			return nil, err
		}
		res.Pairs = sel.Len()
		slog.Info("Starting input build",
			"dataset", ds.Name,
			"run_id", lock.RunID(),
			"pairs", res.Pairs,
			"max_len", b.cfg.Build.MaxLen,
		)
		if err = b.loop(ctx, ds, sel, res); err != nil {
			return res, err
		}
	}

	// finalization runs after interruption too
	if err = b.finalize(context.WithoutCancel(ctx), ds, res); err != nil {
		return res, err
	}

	report(res, time.Since(start))
	return res, nil
}

func (b *builder) loop(
	ctx context.Context,
	ds datasets.Dataset,
	sel *checkpoint.Selected,
	res *anu.BuildSummary,
) error {
	idxPath := b.cfg.RowIndexPath(ds.Name)
	last, ok, err := iocheckpoint.ReadRowIndex(idxPath)
	if err != nil {
		return err
	}
	next := 0
	if ok {
		if last >= sel.Len() {
			return iocheckpoint.RowIndexError(idxPath, fmt.Errorf(
				"row %d is completed, but only %d pairs are selected",
				last, sel.Len(),
			))
		}
		next = last + 1
		if next < sel.Len() {
			gn.Info("Continuing <em>%s</em> from row %s",
				ds.Name, humanize.Comma(int64(next)))
		}
	}

	label := pair.LabelFromBool(ds.Interacting)
	// a row is written completely even if cancellation comes in the middle
	wctx := context.WithoutCancel(ctx)

	bar := pb.Full.Start(sel.Len() - next)
	bar.Set("prefix", fmt.Sprintf("%s: ", ds.Name))
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	for row := next; row < sel.Len(); row++ {
		select {
		case <-ctx.Done():
			res.Interrupted = true
			slog.Warn("Input build interrupted",
				"dataset", ds.Name, "next_row", row)
			return nil
		default:
		}

		rec, truncated, err := b.buildRow(sel, row, label)
		if err != nil {
			return err
		}
		res.Truncated += truncated

		chunk := iotable.Row{Index: row, Record: rec}
		path := b.cfg.ChunkPath(ds.Name, row)
		if err = iotable.WriteRecords(wctx, path, []iotable.Row{chunk}); err != nil {
			return err
		}
		if err = iocheckpoint.WriteRowIndex(idxPath, row); err != nil {
			return err
		}
		res.Built++
		bar.Increment()
		if b.afterRow != nil {
			b.afterRow(row)
		}
	}
	return nil
}

// buildRow creates a record of a selected pair. It also returns the number
// of truncated structures.
func (b *builder) buildRow(
	sel *checkpoint.Selected,
	row int,
	label pair.Label,
) (*pair.Record, int, error) {
	idA, idB := sel.Pair(row)
	maxLen := b.cfg.Build.MaxLen

	var truncated int
	ma, tr, err := BuildMatrix(b.cfg.StructurePath(idA), idA, maxLen)
	if err != nil {
		return nil, 0, err
	}
	if tr != nil {
		truncated++
		warnTruncation(tr)
	}
	mb, tr, err := BuildMatrix(b.cfg.StructurePath(idB), idB, maxLen)
	if err != nil {
		return nil, 0, err
	}
	if tr != nil {
		truncated++
		warnTruncation(tr)
	}

	rec, err := pair.Assemble(ma, mb, label)
	if err != nil {
		return nil, 0, err
	}
	return rec, truncated, nil
}

func warnTruncation(tr *matrix.Truncation) {
	slog.Warn("Structure is longer than maximum length",
		"id", tr.ID,
		"max_len", tr.MaxLen,
		"dropped_residues", tr.Dropped,
	)
}

// finalize concatenates chunks of completed rows into the final table.
func (b *builder) finalize(
	ctx context.Context,
	ds datasets.Dataset,
	res *anu.BuildSummary,
) error {
	idxPath := b.cfg.RowIndexPath(ds.Name)
	last, ok, err := iocheckpoint.ReadRowIndex(idxPath)
	if err != nil {
		return err
	}
	if !ok {
		if b.cfg.Build.FinalizeOnly {
			return NoChunksError(ds.Name, idxPath)
		}
		slog.Warn("No rows to finalize", "dataset", ds.Name)
		return nil
	}

	paths := make([]string, 0, last+1)
	for i := 0; i <= last; i++ {
		path := b.cfg.ChunkPath(ds.Name, i)
		if !iofs.Exists(path) {
			return MissingChunkError(ds.Name, i, path)
		}
		paths = append(paths, path)
	}

	n, err := iotable.Concat(ctx, paths, res.Output)
	if err != nil {
		return err
	}
	res.Records = n
	slog.Info("Final input table is ready",
		"dataset", ds.Name,
		"records", n,
		"path", res.Output,
	)
	return nil
}

func report(res *anu.BuildSummary, dur time.Duration) {
	slog.Info("Input build finished",
		"dataset", res.Dataset,
		"pairs", res.Pairs,
		"built", res.Built,
		"truncated", res.Truncated,
		"records", res.Records,
		"interrupted", res.Interrupted,
		"duration", gnfmt.TimeString(dur.Seconds()),
	)

	status := "complete"
	if res.Interrupted {
		status = "<warn>interrupted</warn>"
	}
	gn.Info(`Dataset <em>%s</em>: input build %s
Rows built: %s, truncated structures: %s
Records in <em>%s</em>: %s
Elapsed time: <em>%s</em>`,
		res.Dataset, status,
		humanize.Comma(int64(res.Built)), humanize.Comma(int64(res.Truncated)),
		res.Output, humanize.Comma(int64(res.Records)),
		gnfmt.TimeString(dur.Seconds()),
	)
}
