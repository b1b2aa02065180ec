// Package iocheckpoint saves and restores progress of the pipeline loops.
//
// Every file is replaced atomically. The fetch cursor is saved after all
// other files, so an interruption between saves never makes the cursor
// point past saved data.
package iocheckpoint

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/gnames/anu/internal/iofs"
	"github.com/gnames/anu/pkg/checkpoint"
	"github.com/gnames/anu/pkg/config"
	"github.com/gnames/gnfmt"
)

const (
	processedFile = "processed.json"
	fetchedFile   = "fetched_ok.json"
	missingFile   = "missing.json"
	selectedFile  = "pair_selected.json"
	cursorFile    = "cursor.json"
)

// Store reads and writes checkpoint files of a data directory.
type Store struct {
	dir string
	enc gnfmt.GNjson
}

// New creates a Store for checkpoint files in the memo directory of
// the configuration.
func New(cfg *config.Config) *Store {
	return &Store{dir: cfg.MemoDir(), enc: gnfmt.GNjson{Pretty: true}}
}

// Dir returns the directory of shared checkpoint files.
func (s *Store) Dir() string {
	return s.dir
}

// DatasetDir returns the directory of per-dataset checkpoint files.
func (s *Store) DatasetDir(dataset string) string {
	return filepath.Join(s.dir, dataset)
}

// Load restores the checkpoint of a dataset. Absent files mean no progress.
// Selected pairs saved after the cursor are dropped.
func (s *Store) Load(dataset, columnA, columnB string) (*checkpoint.Checkpoint, error) {
	res := checkpoint.New(columnA, columnB)

	sets := []struct {
		file string
		ids  checkpoint.IDs
	}{
		{processedFile, res.Processed},
		{fetchedFile, res.FetchedOK},
		{missingFile, res.Missing},
	}
	for _, v := range sets {
		var ids checkpoint.IDs
		path := filepath.Join(s.dir, v.file)
		if _, err := s.read(path, &ids); err != nil {
			return nil, err
		}
		maps.Copy(v.ids, ids)
	}

	dir := s.DatasetDir(dataset)
	sel, err := s.readSelected(filepath.Join(dir, selectedFile), columnA, columnB)
	if err != nil {
		return nil, err
	}
	if sel != nil {
		res.Selected = sel
	}

	cursorPath := filepath.Join(dir, cursorFile)
	if _, err = s.read(cursorPath, &res.Cursor); err != nil {
		return nil, err
	}
	if err = res.ApplyCursor(); err != nil {
		return nil, err
	}
	return res, nil
}

// Save writes all checkpoint files of a dataset.
func (s *Store) Save(dataset string, cp *checkpoint.Checkpoint) error {
	dir := s.DatasetDir(dataset)
	sel := map[string][]string{
		cp.Selected.ColumnA: nonNil(cp.Selected.A),
		cp.Selected.ColumnB: nonNil(cp.Selected.B),
	}
	files := []struct {
		path string
		data any
	}{
		{filepath.Join(s.dir, processedFile), cp.Processed},
		{filepath.Join(s.dir, fetchedFile), cp.FetchedOK},
		{filepath.Join(s.dir, missingFile), cp.Missing},
		{filepath.Join(dir, selectedFile), sel},
		{filepath.Join(dir, cursorFile), cp.Cursor},
	}
	for _, v := range files {
		if err := s.write(v.path, v.data); err != nil {
			return err
		}
	}
	return nil
}

// LoadSelected returns selected pairs of a dataset. Unlike Load it fails
// when the dataset was never processed.
func (s *Store) LoadSelected(dataset, columnA, columnB string) (*checkpoint.Selected, error) {
	path := filepath.Join(s.DatasetDir(dataset), selectedFile)
	if !iofs.Exists(path) {
		return nil, NoSelectedError(dataset, path)
	}
	cp, err := s.Load(dataset, columnA, columnB)
	if err != nil {
		return nil, err
	}
	return cp.Selected, nil
}

func (s *Store) readSelected(path, columnA, columnB string) (*checkpoint.Selected, error) {
	var data map[string][]string
	ok, err := s.read(path, &data)
	if err != nil || !ok {
		return nil, err
	}
	a, okA := data[columnA]
	b, okB := data[columnB]
	if !okA || !okB {
		err = fmt.Errorf("columns %s and %s are expected", columnA, columnB)
		return nil, ReadError(path, err)
	}
	res := checkpoint.Selected{ColumnA: columnA, ColumnB: columnB, A: a, B: b}
	return &res, nil
}

// read decodes a JSON file into v. It returns false if the file does not
// exist.
func (s *Store) read(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, ReadError(path, err)
	}
	if err = s.enc.Decode(data, v); err != nil {
		return false, ReadError(path, err)
	}
	return true, nil
}

func (s *Store) write(path string, v any) error {
	data, err := s.enc.Encode(v)
	if err != nil {
		return WriteError(path, err)
	}
	if err = iofs.WriteFileAtomic(path, data); err != nil {
		return WriteError(path, err)
	}
	return nil
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
