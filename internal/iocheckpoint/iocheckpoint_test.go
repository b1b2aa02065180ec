package iocheckpoint_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/anu/internal/iocheckpoint"
	"github.com/gnames/anu/pkg/checkpoint"
	"github.com/gnames/anu/pkg/config"
	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*iocheckpoint.Store, *config.Config) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptDataDir(t.TempDir())})
	return iocheckpoint.New(cfg), cfg
}

func TestLoadEmpty(t *testing.T) {
	st, _ := newStore(t)
	cp, err := st.Load("pickle", "InteractorA", "InteractorB")
	require.NoError(t, err)
	assert.Empty(t, cp.Processed)
	assert.Zero(t, cp.Selected.Len())
	assert.Equal(t, checkpoint.Cursor{}, cp.Cursor)
}

func TestSaveLoad(t *testing.T) {
	st, cfg := newStore(t)
	cp := checkpoint.New("InteractorA", "InteractorB")
	cp.MarkFetched("P1")
	cp.MarkFetched("P2")
	cp.MarkMissing("P3")
	cp.Select("P1", "P2")
	cp.Advance(2)
	require.NoError(t, st.Save("pickle", cp))

	for _, f := range []string{"processed.json", "fetched_ok.json", "missing.json"} {
		assert.FileExists(t, filepath.Join(cfg.MemoDir(), f))
	}
	assert.FileExists(t, filepath.Join(cfg.DatasetMemoDir("pickle"), "pair_selected.json"))

	res, err := st.Load("pickle", "InteractorA", "InteractorB")
	require.NoError(t, err)
	assert.Equal(t, cp, res)

	// shared sets are visible from other datasets
	other, err := st.Load("negatome", "UniprotID_A", "UniprotID_B")
	require.NoError(t, err)
	assert.True(t, other.Missing.Has("P3"))
	assert.Zero(t, other.Selected.Len())
	assert.Zero(t, other.Cursor.NextRow)
}

func TestLoadDropsPairsAfterCursor(t *testing.T) {
	st, cfg := newStore(t)
	cp := checkpoint.New("a", "b")
	cp.MarkFetched("P1")
	cp.MarkFetched("P2")
	cp.Select("P1", "P2")
	cp.Advance(0)
	require.NoError(t, st.Save("ds", cp))

	// simulate a crash after pair_selected.json was saved,
	// but before cursor.json
	data := `{"a": ["P1", "P2"], "b": ["P2", "P1"]}`
	path := filepath.Join(cfg.DatasetMemoDir("ds"), "pair_selected.json")
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	res, err := st.Load("ds", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Selected.Len())
	assert.Equal(t, 1, res.Cursor.NextRow)
}

func TestLoadCorrupted(t *testing.T) {
	st, cfg := newStore(t)
	require.NoError(t, os.MkdirAll(cfg.MemoDir(), 0755))
	path := filepath.Join(cfg.MemoDir(), "missing.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := st.Load("ds", "a", "b")
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.CheckpointReadError, gnErr.Code)
}

func TestLoadSelected(t *testing.T) {
	st, _ := newStore(t)
	_, err := st.LoadSelected("ds", "a", "b")
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.PrerequisiteError, gnErr.Code)

	cp := checkpoint.New("a", "b")
	cp.MarkFetched("P1")
	cp.Select("P1", "P1")
	cp.Advance(0)
	require.NoError(t, st.Save("ds", cp))
	sel, err := st.LoadSelected("ds", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"P1"}, sel.A)

	// other column names are an error
	_, err = st.LoadSelected("ds", "x", "y")
	assert.Error(t, err)
}

func TestRowIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ds_processed_row.txt")
	_, ok, err := iocheckpoint.ReadRowIndex(path)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, iocheckpoint.WriteRowIndex(path, 7))
	idx, ok, err := iocheckpoint.ReadRowIndex(path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, idx)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "7", string(data))

	require.NoError(t, os.WriteFile(path, []byte("seven"), 0644))
	_, _, err = iocheckpoint.ReadRowIndex(path)
	assert.Error(t, err)
}
