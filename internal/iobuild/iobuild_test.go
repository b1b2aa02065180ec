package iobuild

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/anu/internal/iocheckpoint"
	"github.com/gnames/anu/internal/iotable"
	"github.com/gnames/anu/pkg/checkpoint"
	"github.com/gnames/anu/pkg/config"
	"github.com/gnames/anu/pkg/datasets"
	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/anu/pkg/matrix"
	"github.com/gnames/anu/pkg/pair"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDataset = datasets.Dataset{
	Name:        "negatome",
	ColumnA:     "UniprotID_A",
	ColumnB:     "UniprotID_B",
	Interacting: false,
}

var residueNames = []string{"ALA", "GLY", "LYS", "HOH", "TRP", "SER", "ASP", "MSE", "CYS", "PHE"}

// pdbText creates a structure with n residues, one CA atom each.
func pdbText(n int) string {
	var sb strings.Builder
	for i := range n {
		name := residueNames[i%len(residueNames)]
		fmt.Fprintf(&sb,
			"ATOM  %5d  CA  %3s A%4d    %8.3f%8.3f%8.3f  1.00  0.00           C\n",
			i+1, name, i+1, float64(i)+0.5, float64(i)*1.5, -float64(i),
		)
	}
	sb.WriteString("END\n")
	return sb.String()
}

// setup writes structures and selected pairs, it returns the number of
// pairs.
func setup(t *testing.T, cfg *config.Config, rows int) int {
	t.Helper()
	ids := []string{"S0", "S1", "S2", "S3", "S4", "S5"}
	for i, id := range ids {
		path := cfg.StructurePath(id)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		// S5 is longer than max_len
		require.NoError(t, os.WriteFile(path, []byte(pdbText(3+i*2)), 0644))
	}

	cp := checkpoint.New(testDataset.ColumnA, testDataset.ColumnB)
	for _, id := range ids {
		cp.MarkFetched(id)
	}
	for i := range rows {
		cp.Select(ids[i%len(ids)], ids[(i*5+1)%len(ids)])
		cp.Advance(i)
	}
	require.NoError(t, iocheckpoint.New(cfg).Save(testDataset.Name, cp))
	return rows
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDataDir(t.TempDir()),
		config.OptBuildMaxLen(10),
	})
	return cfg
}

func readAll(t *testing.T, path string) []iotable.Row {
	t.Helper()
	tbl, err := iotable.Open(path)
	require.NoError(t, err)
	defer tbl.Close()
	var res []iotable.Row
	err = tbl.Iterate(context.Background(), func(r iotable.Row) error {
		res = append(res, r)
		return nil
	})
	require.NoError(t, err)
	return res
}

func TestBuildMatrix(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "P1.pdb")
	require.NoError(t, os.WriteFile(path, []byte(pdbText(5)), 0644))

	m, tr, err := BuildMatrix(path, "P1", 10)
	require.NoError(t, err)
	assert.Nil(t, tr)
	assert.Equal(t, 5, m.Residues)
	assert.Len(t, m.Channels[matrix.Seq], 10)
	// HOH at column 3 leaves zeros
	assert.Equal(t, 0.0, m.Channels[matrix.Seq][3])
	assert.NotEqual(t, 0.0, m.Channels[matrix.Seq][4])

	_, tr, err = BuildMatrix(path, "P1", 3)
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, 1, tr.Dropped)

	_, _, err = BuildMatrix(filepath.Join(dir, "none.pdb"), "none", 10)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.PrerequisiteError, gnErr.Code)
}

func TestRun(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	ctx := context.Background()
	cfg := testConfig(t)
	n := setup(t, cfg, 20)

	res, err := New(cfg, iocheckpoint.New(cfg)).Run(ctx, testDataset)
	require.NoError(t, err)
	assert.False(t, res.Interrupted)
	assert.Equal(t, n, res.Pairs)
	assert.Equal(t, n, res.Built)
	assert.Equal(t, n, res.Records)
	assert.Positive(t, res.Truncated)

	rows := readAll(t, res.Output)
	require.Len(t, rows, n)
	for i, r := range rows {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, pair.NonInteracting, r.Record.Label)
		assert.Equal(t, 10, r.Record.MaxLen)
	}
	assert.Equal(t, "S0", rows[0].Record.ProteinA)
	assert.Equal(t, "S1", rows[0].Record.ProteinB)

	last, ok, err := iocheckpoint.ReadRowIndex(cfg.RowIndexPath(testDataset.Name))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, n-1, last)

	// nothing left to build
	res, err = New(cfg, iocheckpoint.New(cfg)).Run(ctx, testDataset)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Built)
	assert.Equal(t, n, res.Records)
}

func TestRunResume(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	ctx := context.Background()

	refCfg := testConfig(t)
	n := setup(t, refCfg, 20)
	ref, err := New(refCfg, iocheckpoint.New(refCfg)).Run(ctx, testDataset)
	require.NoError(t, err)
	want := readAll(t, ref.Output)

	// state of a run that stopped after chunk 7
	cfg := testConfig(t)
	setup(t, cfg, n)
	_, err = New(cfg, iocheckpoint.New(cfg)).Run(ctx, testDataset)
	require.NoError(t, err)
	for i := 8; i < n; i++ {
		require.NoError(t, os.Remove(cfg.ChunkPath(testDataset.Name, i)))
	}
	require.NoError(t, os.Remove(cfg.InputTablePath(testDataset.Name)))
	require.NoError(t, iocheckpoint.WriteRowIndex(cfg.RowIndexPath(testDataset.Name), 7))

	res, err := New(cfg, iocheckpoint.New(cfg)).Run(ctx, testDataset)
	require.NoError(t, err)
	assert.Equal(t, 12, res.Built)
	assert.Equal(t, n, res.Records)
	assert.FileExists(t, cfg.ChunkPath(testDataset.Name, 8))

	got := readAll(t, res.Output)
	assert.Equal(t, want, got)
}

func TestRunInterrupted(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	cfg := testConfig(t)
	n := setup(t, cfg, 5)
	require.NoError(t, iocheckpoint.WriteRowIndex(cfg.RowIndexPath(testDataset.Name), 1))
	for i := range 2 {
		rec := testRecord(t, cfg, i)
		err := iotable.WriteRecords(context.Background(), cfg.ChunkPath(testDataset.Name, i),
			[]iotable.Row{{Index: i, Record: rec}})
		require.NoError(t, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := New(cfg, iocheckpoint.New(cfg)).Run(ctx, testDataset)
	require.NoError(t, err)
	assert.True(t, res.Interrupted)
	assert.Equal(t, n, res.Pairs)
	assert.Equal(t, 0, res.Built)
	// chunks before interruption are finalized
	assert.Equal(t, 2, res.Records)
}

func TestRunCancelledMidway(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	refCfg := testConfig(t)
	n := setup(t, refCfg, 20)
	ref, err := New(refCfg, iocheckpoint.New(refCfg)).Run(context.Background(), testDataset)
	require.NoError(t, err)
	want := readAll(t, ref.Output)

	cfg := testConfig(t)
	setup(t, cfg, n)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b := &builder{
		cfg:   cfg,
		store: iocheckpoint.New(cfg),
		afterRow: func(row int) {
			if row == 7 {
				cancel()
			}
		},
	}
	res, err := b.Run(ctx, testDataset)
	require.NoError(t, err)
	assert.True(t, res.Interrupted)
	assert.Equal(t, 8, res.Built)
	assert.Equal(t, 8, res.Records)
	assert.NoFileExists(t, cfg.ChunkPath(testDataset.Name, 8))

	last, ok, err := iocheckpoint.ReadRowIndex(cfg.RowIndexPath(testDataset.Name))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, last)

	res, err = New(cfg, iocheckpoint.New(cfg)).Run(context.Background(), testDataset)
	require.NoError(t, err)
	assert.False(t, res.Interrupted)
	assert.Equal(t, n-8, res.Built)
	assert.Equal(t, n, res.Records)
	assert.Equal(t, want, readAll(t, res.Output))
}

func testRecord(t *testing.T, cfg *config.Config, row int) *pair.Record {
	t.Helper()
	sel, err := iocheckpoint.New(cfg).LoadSelected(
		testDataset.Name, testDataset.ColumnA, testDataset.ColumnB)
	require.NoError(t, err)
	b := &builder{cfg: cfg}
	rec, _, err := b.buildRow(sel, row, pair.NonInteracting)
	require.NoError(t, err)
	return rec
}

func TestFinalizeOnly(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Update([]config.Option{config.OptBuildFinalizeOnly(true)})

	_, err := New(cfg, iocheckpoint.New(cfg)).Run(ctx, testDataset)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.PrerequisiteError, gnErr.Code)

	setup(t, cfg, 3)
	for i := range 3 {
		rec := testRecord(t, cfg, i)
		err := iotable.WriteRecords(ctx, cfg.ChunkPath(testDataset.Name, i),
			[]iotable.Row{{Index: i, Record: rec}})
		require.NoError(t, err)
	}
	require.NoError(t, iocheckpoint.WriteRowIndex(cfg.RowIndexPath(testDataset.Name), 2))

	res, err := New(cfg, iocheckpoint.New(cfg)).Run(ctx, testDataset)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Built)
	assert.Equal(t, 3, res.Records)

	require.NoError(t, os.Remove(cfg.ChunkPath(testDataset.Name, 1)))
	_, err = New(cfg, iocheckpoint.New(cfg)).Run(ctx, testDataset)
	require.Error(t, err)
	gnErr, ok = err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.TableReadError, gnErr.Code)
}

func TestRunErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	ctx := context.Background()

	t.Run("nothing selected", func(t *testing.T) {
		cfg := testConfig(t)
		_, err := New(cfg, iocheckpoint.New(cfg)).Run(ctx, testDataset)
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok)
		assert.Equal(t, errcode.PrerequisiteError, gnErr.Code)
	})

	t.Run("structure removed", func(t *testing.T) {
		cfg := testConfig(t)
		setup(t, cfg, 4)
		require.NoError(t, os.Remove(cfg.StructurePath("S2")))
		_, err := New(cfg, iocheckpoint.New(cfg)).Run(ctx, testDataset)
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok)
		assert.Equal(t, errcode.PrerequisiteError, gnErr.Code)

		// rows before the failure are kept
		last, ok, err := iocheckpoint.ReadRowIndex(cfg.RowIndexPath(testDataset.Name))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, last)
	})

	t.Run("index past selected pairs", func(t *testing.T) {
		cfg := testConfig(t)
		setup(t, cfg, 2)
		require.NoError(t, iocheckpoint.WriteRowIndex(cfg.RowIndexPath(testDataset.Name), 5))
		_, err := New(cfg, iocheckpoint.New(cfg)).Run(ctx, testDataset)
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok)
		assert.Equal(t, errcode.RowIndexError, gnErr.Code)
	})
}
