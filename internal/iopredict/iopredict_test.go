package iopredict

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/gnames/anu/internal/iotrain"
	"github.com/gnames/anu/pkg/config"
	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/anu/pkg/model"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pdbData = `ATOM      1  CA  ALA A   1       1.000   2.000   3.000  1.00  0.00           C
ATOM      2  CA  GLY A   2       2.000   3.000   4.000  1.00  0.00           C
END
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Update([]config.Option{config.OptDataDir(t.TempDir())})
	m := model.NewLinear(4, 0.1)
	m.Bias[0] = 1
	require.NoError(t, iotrain.SaveModel(cfg.ModelPath(), m))
	return cfg
}

func TestNewMode(t *testing.T) {
	tests := []struct {
		in      string
		mode    Mode
		wantErr bool
	}{
		{"", ModePath, false},
		{"path", ModePath, false},
		{"PDB", ModePDB, false},
		{"uniprot", ModeUniProt, false},
		{"genbank", ModePath, true},
	}
	for _, tt := range tests {
		m, err := NewMode(tt.in)
		assert.Equal(t, tt.wantErr, err != nil, tt.in)
		assert.Equal(t, tt.mode, m, tt.in)
	}
	assert.Equal(t, "uniprot", ModeUniProt.String())
}

func TestPredictPath(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	cfg := testConfig(t)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdb")
	b := filepath.Join(dir, "b.pdb")
	require.NoError(t, os.WriteFile(a, []byte(pdbData), 0644))
	require.NoError(t, os.WriteFile(b, []byte(pdbData), 0644))

	p, err := New(cfg, ModePath).Predict(context.Background(), a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p.Interacting+p.NonInteracting, 1e-9)
	assert.Greater(t, p.Interacting, p.NonInteracting)

	_, err = New(cfg, ModePath).Predict(context.Background(), a, filepath.Join(dir, "none.pdb"))
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.PrerequisiteError, gnErr.Code)
}

func TestPredictUniProt(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			if r.URL.Path == "/P00000.pdb" {
				http.NotFound(w, r)
				return
			}
			fmt.Fprint(w, pdbData)
		}))
	defer srv.Close()

	cfg := testConfig(t)
	cfg.Update([]config.Option{config.OptFetchSwissModelURL(srv.URL)})
	ctx := context.Background()

	_, err := New(cfg, ModeUniProt).Predict(ctx, "P12345", "Q67890")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.FileExists(t, filepath.Join(cfg.UserDir(), "P12345.pdb"))
	assert.FileExists(t, filepath.Join(cfg.UserDir(), memoFile))

	// downloaded structures are reused
	_, err = New(cfg, ModeUniProt).Predict(ctx, "Q67890", "P12345")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())

	_, err = New(cfg, ModeUniProt).Predict(ctx, "P12345", "P00000")
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.FetchDownloadError, gnErr.Code)
}

func TestPredictNoModel(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptDataDir(t.TempDir())})
	_, err := New(cfg, ModePath).Predict(context.Background(), "a.pdb", "b.pdb")
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.PrerequisiteError, gnErr.Code)
}
