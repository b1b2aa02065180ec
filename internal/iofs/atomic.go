package iofs

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to a temporary file in the same directory and
// renames it to path. Readers see either the old or the new content.
func WriteFileAtomic(path string, data []byte) error {
	err := WriteAtomic(path, func(tmp string) error {
		return os.WriteFile(tmp, data, 0644)
	})
	if err != nil {
		return WriteFileError(path, err)
	}
	return nil
}

// WriteAtomic calls write with a temporary path next to path. If write
// succeeds the temporary file is synced and renamed to path, otherwise it
// is removed.
func WriteAtomic(path string, write func(tmp string) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	f.Close()

	if err = write(tmp); err != nil {
		os.Remove(tmp)
		return err
	}

	if err = syncFile(tmp); err != nil {
		os.Remove(tmp)
		return err
	}

	if err = os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot rename %s: %w", tmp, err)
	}
	return nil
}

func syncFile(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
