package iofilter

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gnames/anu/internal/iocheckpoint"
	"github.com/gnames/anu/internal/iofs"
	"github.com/gnames/anu/internal/iotable"
	"github.com/gnames/anu/pkg/config"
	"github.com/gnames/anu/pkg/datasets"
	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves structures of known ids and 404 for the rest.
type fakeFetcher struct {
	mu    sync.Mutex
	found map[string]bool
	calls map[string]int
	// cancel is called on the call number cancelAt.
	cancel   context.CancelFunc
	cancelAt int
	total    int
}

func newFakeFetcher(found ...string) *fakeFetcher {
	res := fakeFetcher{found: make(map[string]bool), calls: make(map[string]int)}
	for _, v := range found {
		res.found[v] = true
	}
	return &res
}

func (f *fakeFetcher) Fetch(ctx context.Context, id string) ([]byte, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.total++
	if f.cancel != nil && f.total == f.cancelAt {
		f.cancel()
		return nil, 0, ctx.Err()
	}
	f.calls[id]++
	if f.found[id] {
		return []byte("ATOM " + id + "\n"), http.StatusOK, nil
	}
	return nil, http.StatusNotFound, nil
}

var testDataset = datasets.Dataset{
	Name:        "pickle",
	ColumnA:     "InteractorA",
	ColumnB:     "InteractorB",
	Interacting: true,
}

func testConfig(t *testing.T, pairs [][2]string) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDataDir(t.TempDir()),
		config.OptFetchSaveEvery(2),
	})
	p := iotable.Pairs{ColumnA: testDataset.ColumnA, ColumnB: testDataset.ColumnB}
	for _, v := range pairs {
		p.A = append(p.A, v[0])
		p.B = append(p.B, v[1])
	}
	err := iotable.WritePairs(context.Background(), cfg.PairTablePath(testDataset.Name), &p)
	require.NoError(t, err)
	return cfg
}

func TestRowStatus(t *testing.T) {
	assert.Equal(t, "skipped", RowSkipped.String())
	assert.Equal(t, "selected", RowSelected.String())
	assert.Equal(t, "rejected", RowRejected.String())
	assert.Equal(t, "fatal", RowFatal.String())
	assert.Equal(t, "RowStatus(9)", RowStatus(9).String())
}

func TestRunFoundAndMissing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	ctx := context.Background()
	cfg := testConfig(t, [][2]string{
		{"P1", "P2"},
		{"P1", "P3"},
		{"P2", "P4"},
		{"P3", "P1"},
	})
	fetcher := newFakeFetcher("P1", "P3", "P4")
	store := iocheckpoint.New(cfg)

	res, err := New(cfg, fetcher, store).Run(ctx, testDataset)
	require.NoError(t, err)
	assert.False(t, res.Interrupted)
	assert.Equal(t, 4, res.Rows)
	assert.Equal(t, 4, res.NextRow)
	assert.Equal(t, 2, res.Selected)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Rejected)
	assert.Equal(t, 2, res.Fetched)
	assert.Equal(t, 1, res.Missing)

	assert.Equal(t, map[string]int{"P1": 1, "P2": 1, "P3": 1}, fetcher.calls)
	assert.FileExists(t, cfg.StructurePath("P1"))
	assert.NoFileExists(t, cfg.StructurePath("P2"))
	assert.NoFileExists(t, cfg.StructurePath("P4"))

	cp, err := store.Load(testDataset.Name, testDataset.ColumnA, testDataset.ColumnB)
	require.NoError(t, err)
	assert.True(t, cp.FetchedOK.Has("P1"))
	assert.True(t, cp.Missing.Has("P2"))
	assert.False(t, cp.Processed.Has("P4"))
	assert.Equal(t, []string{"P1", "P3"}, cp.Selected.A)
	assert.Equal(t, []string{"P3", "P1"}, cp.Selected.B)
	require.NoError(t, cp.Verify())

	final, err := iotable.ReadPairs(ctx, cfg.SelectedTablePath(testDataset.Name))
	require.NoError(t, err)
	assert.Equal(t, cp.Selected.A, final.A)
	assert.Equal(t, cp.Selected.B, final.B)

	// repeated run changes nothing and downloads nothing
	res, err = New(cfg, fetcher, store).Run(ctx, testDataset)
	require.NoError(t, err)
	assert.Equal(t, 4, res.StartRow)
	assert.Equal(t, 2, res.Selected)
	assert.Equal(t, 0, res.Fetched+res.Missing)
	assert.Equal(t, map[string]int{"P1": 1, "P2": 1, "P3": 1}, fetcher.calls)
}

func TestRunMissingIsShared(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	ctx := context.Background()
	cfg := testConfig(t, [][2]string{{"P1", "P2"}})
	fetcher := newFakeFetcher("P1")
	store := iocheckpoint.New(cfg)
	_, err := New(cfg, fetcher, store).Run(ctx, testDataset)
	require.NoError(t, err)

	other := datasets.Dataset{Name: "negatome", ColumnA: "UniprotID_A", ColumnB: "UniprotID_B"}
	p := iotable.Pairs{
		ColumnA: other.ColumnA, ColumnB: other.ColumnB,
		A: []string{"P2", "P1"}, B: []string{"P5", "P1"},
	}
	require.NoError(t, iotable.WritePairs(ctx, cfg.PairTablePath(other.Name), &p))

	res, err := New(cfg, fetcher, store).Run(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Selected)
	assert.Equal(t, 1, fetcher.calls["P2"])
	assert.Equal(t, 0, fetcher.calls["P5"])
	assert.Equal(t, 1, fetcher.calls["P1"])
}

func TestRunResume(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	pairs := [][2]string{
		{"P1", "P2"}, {"P3", "P4"}, {"P5", "P6"}, {"P7", "P8"},
		{"P1", "P9"}, {"P3", "P5"}, {"P6", "P10"}, {"P11", "P1"},
	}
	found := []string{"P1", "P3", "P4", "P5", "P7", "P8", "P9", "P11"}

	// reference run without interruption
	refCfg := testConfig(t, pairs)
	refStore := iocheckpoint.New(refCfg)
	_, err := New(refCfg, newFakeFetcher(found...), refStore).
		Run(context.Background(), testDataset)
	require.NoError(t, err)
	ref, err := refStore.Load(testDataset.Name, testDataset.ColumnA, testDataset.ColumnB)
	require.NoError(t, err)

	cfg := testConfig(t, pairs)
	store := iocheckpoint.New(cfg)
	fetcher := newFakeFetcher(found...)
	ctx, cancel := context.WithCancel(context.Background())
	fetcher.cancel = cancel
	fetcher.cancelAt = 6

	res, err := New(cfg, fetcher, store).Run(ctx, testDataset)
	require.NoError(t, err)
	assert.True(t, res.Interrupted)
	assert.Less(t, res.NextRow, len(pairs))
	assert.NoFileExists(t, cfg.SelectedTablePath(testDataset.Name))
	assert.NoFileExists(t, filepath.Join(store.Dir(), ".lock"))

	cp, err := store.Load(testDataset.Name, testDataset.ColumnA, testDataset.ColumnB)
	require.NoError(t, err)
	require.NoError(t, cp.Verify())
	assert.Equal(t, res.NextRow, cp.Cursor.NextRow)

	fetcher.cancel = nil
	res, err = New(cfg, fetcher, store).Run(context.Background(), testDataset)
	require.NoError(t, err)
	assert.False(t, res.Interrupted)

	cp, err = store.Load(testDataset.Name, testDataset.ColumnA, testDataset.ColumnB)
	require.NoError(t, err)
	assert.Equal(t, ref.Selected.A, cp.Selected.A)
	assert.Equal(t, ref.Selected.B, cp.Selected.B)
	assert.Equal(t, ref.FetchedOK, cp.FetchedOK)
	assert.Equal(t, ref.Missing, cp.Missing)
	for id, n := range fetcher.calls {
		assert.Equal(t, 1, n, id)
	}
}

func TestRunErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	ctx := context.Background()

	t.Run("no pair table", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptDataDir(t.TempDir())})
		_, err := New(cfg, newFakeFetcher(), iocheckpoint.New(cfg)).
			Run(ctx, testDataset)
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok)
		assert.Equal(t, errcode.PrerequisiteError, gnErr.Code)
	})

	t.Run("locked", func(t *testing.T) {
		cfg := testConfig(t, [][2]string{{"P1", "P2"}})
		store := iocheckpoint.New(cfg)
		lock, err := iofs.AcquireLock(store.Dir())
		require.NoError(t, err)
		defer lock.Release()

		_, err = New(cfg, newFakeFetcher(), store).Run(ctx, testDataset)
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok)
		assert.Equal(t, errcode.LockError, gnErr.Code)
	})

	t.Run("cannot save structure", func(t *testing.T) {
		cfg := testConfig(t, [][2]string{{"P1", "P2"}})
		dir := cfg.StructuresDir()
		require.NoError(t, os.MkdirAll(filepath.Dir(dir), 0755))
		require.NoError(t, os.WriteFile(dir, []byte("not a dir"), 0644))

		store := iocheckpoint.New(cfg)
		_, err := New(cfg, newFakeFetcher("P1"), store).Run(ctx, testDataset)
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok)
		assert.Equal(t, errcode.StructureWriteError, gnErr.Code)

		cp, err := store.Load(testDataset.Name, testDataset.ColumnA, testDataset.ColumnB)
		require.NoError(t, err)
		assert.Equal(t, 0, cp.Cursor.NextRow)
		assert.False(t, cp.Processed.Has("P1"))
	})
}
