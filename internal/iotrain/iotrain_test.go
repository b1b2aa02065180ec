package iotrain

import (
	"context"
	"fmt"
	"testing"

	"github.com/gnames/anu/internal/iotable"
	"github.com/gnames/anu/pkg/config"
	"github.com/gnames/anu/pkg/datasets"
	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/anu/pkg/matrix"
	"github.com/gnames/anu/pkg/model"
	"github.com/gnames/anu/pkg/pair"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDatasets = []datasets.Dataset{
	{Name: "pickle", Interacting: true},
	{Name: "negatome", Interacting: false},
}

// writeTable creates a final input table with n records. Interacting
// records have large masses, non-interacting ones small.
func writeTable(t *testing.T, cfg *config.Config, ds datasets.Dataset, n, maxLen int) {
	t.Helper()
	label := pair.LabelFromBool(ds.Interacting)
	rows := make([]iotable.Row, n)
	for i := range n {
		a := matrix.New(fmt.Sprintf("%sA%d", ds.Name, i), maxLen)
		b := matrix.New(fmt.Sprintf("%sB%d", ds.Name, i), maxLen)
		mass := 60.0
		if ds.Interacting {
			mass = 180.0
		}
		for col := range maxLen {
			a.Channels[matrix.Mass][col] = mass
			b.Channels[matrix.Mass][col] = mass
		}
		rec, err := pair.Assemble(a, b, label)
		require.NoError(t, err)
		rows[i] = iotable.Row{Index: i, Record: rec}
	}
	err := iotable.WriteRecords(context.Background(), cfg.InputTablePath(ds.Name), rows)
	require.NoError(t, err)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDataDir(t.TempDir()),
		config.OptTrainEpochs(20),
		config.OptTrainBatchSize(4),
		config.OptTrainLearningRate(0.5),
	})
	return cfg
}

func TestTrain(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	ctx := context.Background()
	cfg := testConfig(t)
	for _, ds := range testDatasets {
		writeTable(t, cfg, ds, 10, 4)
	}

	res, err := New(cfg).Train(ctx, testDatasets)
	require.NoError(t, err)
	assert.Equal(t, 14, res.Train)
	assert.Equal(t, 4, res.Test)
	assert.Equal(t, 2, res.Validation)
	assert.InDelta(t, 1.0, res.TestAccuracy, 1e-9)
	assert.InDelta(t, 1.0, res.ValidationAccuracy, 1e-9)
	assert.FileExists(t, res.ModelPath)

	m, err := LoadModel(res.ModelPath)
	require.NoError(t, err)
	assert.Equal(t, 4, m.MaxLen)

	tbl, err := iotable.Open(cfg.InputTablePath("pickle"))
	require.NoError(t, err)
	defer tbl.Close()
	rec, err := tbl.Row(ctx, 0)
	require.NoError(t, err)
	p, err := m.Predict(model.NewSample(rec))
	require.NoError(t, err)
	assert.Equal(t, pair.Interacting, p.Label())
}

func TestTrainSameSeed(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	ctx := context.Background()
	var models []*model.Linear
	for range 2 {
		cfg := testConfig(t)
		for _, ds := range testDatasets {
			writeTable(t, cfg, ds, 6, 3)
		}
		res, err := New(cfg).Train(ctx, testDatasets)
		require.NoError(t, err)
		m, err := LoadModel(res.ModelPath)
		require.NoError(t, err)
		models = append(models, m)
	}
	assert.Equal(t, models[0], models[1])
}

func TestTrainErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(*testing.T, *config.Config)
		code  gn.ErrorCode
	}{
		{
			name:  "no input",
			setup: func(*testing.T, *config.Config) {},
			code:  errcode.PrerequisiteError,
		},
		{
			name: "different max_len",
			setup: func(t *testing.T, cfg *config.Config) {
				writeTable(t, cfg, testDatasets[0], 3, 4)
				writeTable(t, cfg, testDatasets[1], 3, 5)
			},
			code: errcode.TableSchemaMismatchError,
		},
		{
			name: "too few records",
			setup: func(t *testing.T, cfg *config.Config) {
				writeTable(t, cfg, testDatasets[0], 1, 4)
			},
			code: errcode.ModelTrainError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.setup(t, cfg)
			dss := testDatasets
			if tt.name == "too few records" {
				dss = testDatasets[:1]
			}
			_, err := New(cfg).Train(ctx, dss)
			require.Error(t, err)
			gnErr, ok := err.(*gn.Error)
			require.True(t, ok)
			assert.Equal(t, tt.code, gnErr.Code)
		})
	}
}

func TestLoadModelMissing(t *testing.T) {
	_, err := LoadModel(t.TempDir() + "/none.gob")
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.PrerequisiteError, gnErr.Code)
}
