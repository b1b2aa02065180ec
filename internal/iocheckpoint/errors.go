package iocheckpoint

import (
	"fmt"
	"runtime"

	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/gn"
)

func ReadError(path string, err error) error {
	msg := "Cannot read checkpoint file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CheckpointReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read %s: %w", fn.Name(), path, err),
	}
}

func WriteError(path string, err error) error {
	msg := "Cannot save checkpoint file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CheckpointWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot write %s: %w", fn.Name(), path, err),
	}
}

func NoSelectedError(dataset, path string) error {
	msg := `Dataset <em>%s</em> has no selected pairs

<em>How to fix:</em>
  run 'anu fetch structures -d %s' first`
	vars := []any{dataset, dataset}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PrerequisiteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s does not exist", fn.Name(), path),
	}
}

func RowIndexError(path string, err error) error {
	msg := "Cannot use row index file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RowIndexError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: row index %s: %w", fn.Name(), path, err),
	}
}
