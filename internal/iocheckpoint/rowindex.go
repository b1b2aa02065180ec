package iocheckpoint

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gnames/anu/internal/iofs"
)

// ReadRowIndex returns the last completed row index. The second value is
// false if no row was completed yet.
func ReadRowIndex(path string) (int, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, RowIndexError(path, err)
	}
	res, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false, RowIndexError(path, err)
	}
	if res < 0 {
		return 0, false, RowIndexError(path, fmt.Errorf("negative index %d", res))
	}
	return res, true, nil
}

// WriteRowIndex saves the last completed row index.
func WriteRowIndex(path string, idx int) error {
	if err := iofs.WriteFileAtomic(path, []byte(strconv.Itoa(idx))); err != nil {
		return RowIndexError(path, err)
	}
	return nil
}
