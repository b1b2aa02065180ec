package iofetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/anu/internal/iofs"
	"github.com/gnames/anu/pkg/config"
	"github.com/gnames/anu/pkg/datasets"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"golang.org/x/sync/errgroup"
)

// DownloadDatasets saves raw pair databases of the given datasets to
// config.RawDir. Files that already exist are kept unless force is true.
// Downloads run concurrently, limited by the number of jobs.
func DownloadDatasets(
	ctx context.Context,
	cfg *config.Config,
	dss []datasets.Dataset,
	force bool,
) error {
	start := time.Now()

	var todo []datasets.Dataset
	for _, ds := range dss {
		path := RawPath(cfg, ds)
		if !force && iofs.Exists(path) {
			slog.Info("Database is already downloaded", "dataset", ds.Name, "path", path)
			gn.Info("Database <em>%s</em> exists, skipping", ds.Name)
			continue
		}
		todo = append(todo, ds)
	}
	if len(todo) == 0 {
		return nil
	}

	bars := make([]*pb.ProgressBar, len(todo))
	for i, ds := range todo {
		bars[i] = pb.New64(0).
			Set(pb.Bytes, true).
			Set("prefix", fmt.Sprintf("%-10s ", ds.Name))
	}
	pool, err := pb.StartPool(bars...)
	if err != nil {
		// progress output is optional
		slog.Warn("Cannot start progress bars", "error", err)
		pool = nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.JobsNumber, 1))
	for i, ds := range todo {
		g.Go(func() error {
			dir := filepath.Join(cfg.RawDir(), ds.Name)
			if err := iofs.TouchDir(dir); err != nil {
				return err
			}
			dl := NewZenodo(cfg.Fetch.ZenodoURL, cfg.Fetch.Timeout, bars[i])
			path, err := dl.Download(ctx, ds.ZenodoID, ds.File, dir)
			if err != nil {
				return err
			}
			slog.Info("Downloaded database", "dataset", ds.Name, "path", path)
			return nil
		})
	}
	err = g.Wait()
	if pool != nil {
		pool.Stop()
	}
	if err != nil {
		return err
	}

	var total int64
	for _, ds := range todo {
		if fi, err := os.Stat(RawPath(cfg, ds)); err == nil {
			total += fi.Size()
		}
	}
	gn.Info(
		"Downloaded %s databases (%s) in %s",
		humanize.Comma(int64(len(todo))),
		humanize.Bytes(uint64(total)),
		gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return nil
}

// RawPath returns the location of the downloaded database of a dataset.
func RawPath(cfg *config.Config, ds datasets.Dataset) string {
	return filepath.Join(cfg.RawDir(), ds.Name, ds.File)
}
