package iodatasets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/anu/internal/iofs"
	"github.com/gnames/anu/pkg/config"
	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	home := t.TempDir()
	require.NoError(t, iofs.EnsureDirs(home))
	cfg := config.New()
	cfg.Update([]config.Option{config.OptHomeDir(home)})
	return cfg
}

func TestLoadDefault(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	cfg := testConfig(t)
	require.NoError(t, iofs.EnsureDatasetsFile(cfg.HomeDir))

	dc, err := New(cfg).Load()
	require.NoError(t, err)
	require.Len(t, dc.Datasets, 2)

	pickle, ok := dc.Find("pickle")
	require.True(t, ok)
	assert.Equal(t, "3889702", pickle.ZenodoID)
	assert.Equal(t, "InteractorA", pickle.ColumnA)
	assert.Equal(t, '\t', pickle.Sep())
	assert.True(t, pickle.Interacting)

	negatome, ok := dc.Find("negatome")
	require.True(t, ok)
	assert.Equal(t, "UniprotID_B", negatome.ColumnB)
	assert.False(t, negatome.Interacting)
}

func TestLoadErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	tests := []struct {
		name    string
		content string
		msg     string
	}{
		{"missing file", "", "failed to read"},
		{"bad yaml", "datasets: [", "failed to parse"},
		{"empty", "datasets: []", "no datasets"},
		{"same columns", `
datasets:
  - name: a
    zenodo_id: "1"
    file: a.tsv
    column_a: X
    column_b: X
`, "invalid datasets config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			if tt.content != "" {
				path := config.DatasetsFilePath(cfg.HomeDir)
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			}
			_, err := New(cfg).Load()
			require.Error(t, err)
			gnErr, ok := err.(*gn.Error)
			require.True(t, ok)
			assert.Equal(t, errcode.DatasetsConfigError, gnErr.Code)
			assert.Contains(t, gnErr.Err.Error(), tt.msg)
		})
	}
}

func TestSelect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	cfg := testConfig(t)
	require.NoError(t, iofs.EnsureDatasetsFile(cfg.HomeDir))

	dss, err := Select(cfg)
	require.NoError(t, err)
	assert.Len(t, dss, 2)

	cfg.Update([]config.Option{config.OptDatasets([]string{"negatome"})})
	dss, err = Select(cfg)
	require.NoError(t, err)
	require.Len(t, dss, 1)
	assert.Equal(t, "negatome", dss[0].Name)

	cfg.Update([]config.Option{config.OptDatasets([]string{"negatome", "biogrid"})})
	_, err = Select(cfg)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.UnknownDatasetError, gnErr.Code)
	assert.Equal(t, "biogrid", gnErr.Vars[0])
}

func TestDatasetsConfigError(t *testing.T) {
	path := filepath.Join("test", "datasets.yaml")
	orig := errors.New("file not found")

	err := DatasetsConfigError(path, orig)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.DatasetsConfigError, gnErr.Code)
	assert.Len(t, gnErr.Vars, 2)
	assert.ErrorIs(t, gnErr.Err, orig)
}
