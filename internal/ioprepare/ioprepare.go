// Package ioprepare converts downloaded databases of protein pairs into
// pair tables.
package ioprepare

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/anu/internal/iofetch"
	"github.com/gnames/anu/internal/iotable"
	"github.com/gnames/anu/pkg/config"
	"github.com/gnames/anu/pkg/datasets"
	"github.com/gnames/gn"
)

// Summary describes a prepared pair table.
type Summary struct {
	Dataset string
	// Pairs is the number of pairs in the table.
	Pairs int
	// Dropped is the number of rows without one of identifiers.
	Dropped int
}

// Prepare reads the raw database of a dataset and writes its pair table.
func Prepare(
	ctx context.Context,
	cfg *config.Config,
	ds datasets.Dataset,
) (*Summary, error) {
	raw := iofetch.RawPath(cfg, ds)
	f, err := os.Open(raw)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NoRawFileError(ds.Name, raw)
		}
		return nil, ReadRawError(raw, err)
	}
	defer f.Close()

	pairs, dropped, err := readPairs(f, ds)
	if err != nil {
		return nil, ReadRawError(raw, err)
	}

	out := cfg.PairTablePath(ds.Name)
	if err = iotable.WritePairs(ctx, out, pairs); err != nil {
		return nil, err
	}

	res := Summary{Dataset: ds.Name, Pairs: pairs.Len(), Dropped: dropped}
	slog.Info("Prepared pair table",
		"dataset", ds.Name,
		"pairs", res.Pairs,
		"dropped", res.Dropped,
		"path", out,
	)
	gn.Info(
		"Dataset <em>%s</em>: %s pairs, %s rows without identifiers",
		ds.Name, humanize.Comma(int64(res.Pairs)), humanize.Comma(int64(res.Dropped)),
	)
	return &res, nil
}

func readPairs(r io.Reader, ds datasets.Dataset) (*iotable.Pairs, int, error) {
	rd := csv.NewReader(r)
	rd.Comma = ds.Sep()
	rd.LazyQuotes = true
	rd.FieldsPerRecord = -1
	rd.ReuseRecord = true

	header, err := rd.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("cannot read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	idxA := slices.Index(header, ds.ColumnA)
	idxB := slices.Index(header, ds.ColumnB)
	if idxA < 0 || idxB < 0 {
		return nil, 0, fmt.Errorf("header has no columns %s and %s",
			ds.ColumnA, ds.ColumnB)
	}

	res := iotable.Pairs{ColumnA: ds.ColumnA, ColumnB: ds.ColumnB}
	var dropped int
	for {
		row, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		var a, b string
		if idxA < len(row) {
			a = strings.TrimSpace(row[idxA])
		}
		if idxB < len(row) {
			b = strings.TrimSpace(row[idxB])
		}
		if a == "" || b == "" {
			dropped++
			continue
		}
		res.A = append(res.A, a)
		res.B = append(res.B, b)
	}
	return &res, dropped, nil
}
