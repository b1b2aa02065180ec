package config

import (
	"fmt"
	"path/filepath"
)

// DataDir returns the root of raw and processed data.
func (c *Config) DataDir() string {
	if c.Data.Dir != "" {
		return c.Data.Dir
	}
	return DefaultDataDir(c.HomeDir)
}

// RawDir returns the directory with downloaded databases of pairs.
func (c *Config) RawDir() string {
	return filepath.Join(c.DataDir(), "raw")
}

// StructuresDir returns the directory with downloaded PDB files.
// The directory is shared by all datasets.
func (c *Config) StructuresDir() string {
	return filepath.Join(c.RawDir(), "pdb")
}

// StructurePath returns the path of a downloaded structure file.
func (c *Config) StructurePath(id string) string {
	return filepath.Join(c.StructuresDir(), id+".pdb")
}

// ProcessedDir returns the directory with tables generated from raw data.
func (c *Config) ProcessedDir() string {
	return filepath.Join(c.DataDir(), "processed")
}

// PairTablePath returns the table of all pairs of a dataset, as they are
// found in the raw database.
func (c *Config) PairTablePath(dataset string) string {
	return filepath.Join(c.ProcessedDir(), dataset, "pairs.sqlite")
}

// SelectedTablePath returns the table of pairs that have structures for
// both proteins.
func (c *Config) SelectedTablePath(dataset string) string {
	return filepath.Join(c.ProcessedDir(), dataset, "final.sqlite")
}

// MemoDir returns the directory of checkpoint files shared by all datasets.
func (c *Config) MemoDir() string {
	return filepath.Join(c.ProcessedDir(), "protein_id")
}

// DatasetMemoDir returns the directory of per-dataset checkpoint files.
func (c *Config) DatasetMemoDir(dataset string) string {
	return filepath.Join(c.MemoDir(), dataset)
}

// InputDir returns the working directory of input preparation.
func (c *Config) InputDir(dataset string) string {
	return filepath.Join(c.ProcessedDir(), "input", dataset)
}

// ChunksDir returns the directory of per-row chunk tables.
func (c *Config) ChunksDir(dataset string) string {
	return filepath.Join(c.InputDir(dataset), "chunks")
}

// ChunkPath returns the path of a chunk table for a row.
func (c *Config) ChunkPath(dataset string, row int) string {
	return filepath.Join(c.ChunksDir(dataset), fmt.Sprintf("%09d.sqlite", row))
}

// RowIndexPath returns the file keeping the last completed row index of
// input preparation.
func (c *Config) RowIndexPath(dataset string) string {
	return filepath.Join(c.InputDir(dataset), dataset+"_processed_row.txt")
}

// InputTablePath returns the final table of model inputs of a dataset.
func (c *Config) InputTablePath(dataset string) string {
	return filepath.Join(c.ProcessedDir(), "input", dataset+".sqlite")
}

// ModelsDir returns the directory of trained models.
func (c *Config) ModelsDir() string {
	return filepath.Join(c.DataDir(), "models")
}

// ModelPath returns the path of the saved model.
func (c *Config) ModelPath() string {
	return filepath.Join(c.ModelsDir(), "linear.gob")
}

// UserDir returns the directory of structures downloaded for predictions.
func (c *Config) UserDir() string {
	return filepath.Join(c.DataDir(), "user")
}
