// Package iofilter implements the Filter interface. It downloads structure
// files for proteins of a pair table and keeps pairs where both structures
// exist. Progress is saved to checkpoint files, so the loop can be stopped
// at any moment and continued later without repeating downloads.
package iofilter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
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
	"github.com/gnames/anu/pkg/fetch"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
)

// RowStatus is the outcome of processing one row of a pair table.
type RowStatus int

const (
	// RowSkipped means one of identifiers is known to be missing, nothing
	// was downloaded.
	RowSkipped RowStatus = iota
	// RowSelected means both structures exist and the pair is selected.
	RowSelected
	// RowRejected means at least one download failed.
	RowRejected
	// RowFatal means a downloaded structure could not be saved.
	RowFatal
)

func (s RowStatus) String() string {
	switch s {
	case RowSkipped:
		return "skipped"
	case RowSelected:
		return "selected"
	case RowRejected:
		return "rejected"
	case RowFatal:
		return "fatal"
	}
	return fmt.Sprintf("RowStatus(%d)", int(s))
}

// RowResult is the outcome of a row with an error for RowFatal.
type RowResult struct {
	Status RowStatus
	Err    error
}

type filter struct {
	cfg     *config.Config
	fetcher fetch.Fetcher
	store   *iocheckpoint.Store
}

// New creates a Filter that downloads structures with the given fetcher
// and keeps its progress in the store.
func New(
	cfg *config.Config,
	fetcher fetch.Fetcher,
	store *iocheckpoint.Store,
) anu.Filter {
	return &filter{cfg: cfg, fetcher: fetcher, store: store}
}

// Run implements anu.Filter. Cancellation of the context is not an error,
// the progress is saved and the summary is marked as interrupted.
func (f *filter) Run(
	ctx context.Context,
	ds datasets.Dataset,
) (*anu.FilterSummary, error) {
	start := time.Now()

	lock, err := iofs.AcquireLock(f.store.Dir())
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	pairsPath := f.cfg.PairTablePath(ds.Name)
	if !iofs.Exists(pairsPath) {
		return nil, NoPairTableError(ds.Name, pairsPath)
	}
	pairs, err := iotable.ReadPairs(ctx, pairsPath)
	if err != nil {
		return nil, err
	}

	cp, err := f.store.Load(ds.Name, pairs.ColumnA, pairs.ColumnB)
	if err != nil {
		return nil, err
	}
	if cp.Cursor.NextRow > pairs.Len() {
		return nil, checkpoint.InvariantError(
			"cursor of %s points to row %d, the table has %d rows",
			ds.Name, cp.Cursor.NextRow, pairs.Len(),
		)
	}

	res := &anu.FilterSummary{
		Dataset:  ds.Name,
		Rows:     pairs.Len(),
		StartRow: cp.Cursor.NextRow,
	}
	slog.Info("Starting structure download",
		"dataset", ds.Name,
		"run_id", lock.RunID(),
		"rows", res.Rows,
		"start_row", res.StartRow,
		"fetched", len(cp.FetchedOK),
		"missing", len(cp.Missing),
	)
	if res.StartRow > 0 && res.StartRow < res.Rows {
		gn.Info("Continuing <em>%s</em> from row %s",
			ds.Name, humanize.Comma(int64(res.StartRow)))
	}

	if err = f.loop(ctx, pairs, cp, res); err != nil {
		return res, err
	}

	res.Selected = cp.Selected.Len()
	res.NextRow = cp.Cursor.NextRow
	if !res.Interrupted {
		final := iotable.Pairs{
			ColumnA: pairs.ColumnA,
			ColumnB: pairs.ColumnB,
			A:       cp.Selected.A,
			B:       cp.Selected.B,
		}
		if err = iotable.WritePairs(ctx, f.cfg.SelectedTablePath(ds.Name), &final); err != nil {
			return res, err
		}
	}

	report(res, time.Since(start))
	return res, nil
}

func (f *filter) loop(
	ctx context.Context,
	pairs *iotable.Pairs,
	cp *checkpoint.Checkpoint,
	res *anu.FilterSummary,
) error {
	saveEvery := max(f.cfg.Fetch.SaveEvery, 1)
	bar := pb.Full.Start(pairs.Len() - res.StartRow)
	bar.Set("prefix", fmt.Sprintf("%s: ", res.Dataset))
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	var sinceSave int
	for row := res.StartRow; row < pairs.Len(); row++ {
		select {
		case <-ctx.Done():
			res.Interrupted = true
		default:
		}
		if res.Interrupted {
			break
		}

		rr := f.processRow(ctx, cp, pairs.A[row], pairs.B[row], res)
		if rr.Status == RowFatal {
			if err := f.save(res.Dataset, cp); err != nil {
				slog.Error("Cannot save checkpoint", "error", err)
			}
			return rr.Err
		}
		// a download was cut by cancellation, the row has to be repeated
		if ctx.Err() != nil {
			res.Interrupted = true
			break
		}

		switch rr.Status {
		case RowSkipped:
			res.Skipped++
		case RowRejected:
			res.Rejected++
		}
		cp.Advance(row)
		bar.Increment()

		sinceSave++
		if sinceSave >= saveEvery {
			if err := f.save(res.Dataset, cp); err != nil {
				return err
			}
			sinceSave = 0
		}
	}

	if res.Interrupted {
		slog.Warn("Structure download interrupted",
			"dataset", res.Dataset,
			"next_row", cp.Cursor.NextRow,
		)
	}
	return f.save(res.Dataset, cp)
}

// processRow downloads structures of a pair that are not known yet and
// selects the pair if both structures exist.
func (f *filter) processRow(
	ctx context.Context,
	cp *checkpoint.Checkpoint,
	a, b string,
	res *anu.FilterSummary,
) RowResult {
	if cp.Missing.Has(a) || cp.Missing.Has(b) {
		return RowResult{Status: RowSkipped}
	}

	for _, id := range []string{a, b} {
		if cp.Processed.Has(id) {
			continue
		}
		if err := f.fetchID(ctx, cp, id, res); err != nil {
			return RowResult{Status: RowFatal, Err: err}
		}
	}

	if cp.FetchedOK.Has(a) && cp.FetchedOK.Has(b) {
		cp.Select(a, b)
		return RowResult{Status: RowSelected}
	}
	return RowResult{Status: RowRejected}
}

// fetchID downloads one structure and records the outcome in the
// checkpoint. Only failure to save the file is returned as an error.
func (f *filter) fetchID(
	ctx context.Context,
	cp *checkpoint.Checkpoint,
	id string,
	res *anu.FilterSummary,
) error {
	data, status, err := f.fetcher.Fetch(ctx, id)
	if ctx.Err() != nil {
		// the outcome is unknown, the id stays unprocessed
		return nil
	}
	if err != nil || status != http.StatusOK {
		slog.Debug("Structure is not available",
			"id", id, "status", status, "error", err)
		cp.MarkMissing(id)
		res.Missing++
		return nil
	}

	path := f.cfg.StructurePath(id)
	if err = iofs.WriteFileAtomic(path, data); err != nil {
		return StructureWriteError(id, path, err)
	}
	cp.MarkFetched(id)
	res.Fetched++
	return nil
}

// save writes the checkpoint and verifies its invariants.
func (f *filter) save(dataset string, cp *checkpoint.Checkpoint) error {
	if err := f.store.Save(dataset, cp); err != nil {
		return err
	}
	return cp.Verify()
}

func report(res *anu.FilterSummary, dur time.Duration) {
	slog.Info("Structure download finished",
		"dataset", res.Dataset,
		"rows", res.Rows,
		"next_row", res.NextRow,
		"selected", res.Selected,
		"skipped", res.Skipped,
		"rejected", res.Rejected,
		"fetched", res.Fetched,
		"missing", res.Missing,
		"interrupted", res.Interrupted,
		"duration", gnfmt.TimeString(dur.Seconds()),
	)

	status := "complete"
	if res.Interrupted {
		status = "<warn>interrupted</warn>"
	}
	gn.Info(`Dataset <em>%s</em>: download %s
Rows processed: %s of %s, selected pairs: %s
Downloaded: %s, missing: %s
Elapsed time: <em>%s</em>`,
		res.Dataset, status,
		humanize.Comma(int64(res.NextRow)), humanize.Comma(int64(res.Rows)),
		humanize.Comma(int64(res.Selected)),
		humanize.Comma(int64(res.Fetched)), humanize.Comma(int64(res.Missing)),
		gnfmt.TimeString(dur.Seconds()),
	)
}
