package iobuild

import (
	"errors"
	"os"

	"github.com/gnames/anu/pkg/matrix"
	"github.com/gnames/anu/pkg/pdb"
)

// LoadStructure reads a PDB file of a protein.
func LoadStructure(path, id string) (*pdb.Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NoStructureError(id, path)
		}
		return nil, StructureReadError(id, path, err)
	}
	defer f.Close()

	res, err := pdb.Parse(f, id)
	if err != nil {
		return nil, StructureReadError(id, path, err)
	}
	return res, nil
}

// BuildMatrix reads a PDB file and converts it into a matrix with maxLen
// columns.
func BuildMatrix(
	path, id string,
	maxLen int,
) (*matrix.Matrix, *matrix.Truncation, error) {
	st, err := LoadStructure(path, id)
	if err != nil {
		return nil, nil, err
	}
	m, tr := matrix.Build(st, maxLen)
	return m, tr, nil
}
