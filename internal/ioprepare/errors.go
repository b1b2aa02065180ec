package ioprepare

import (
	"fmt"
	"runtime"

	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/gn"
)

func NoRawFileError(dataset, path string) error {
	msg := `Database of <em>%s</em> is not downloaded

<em>How to fix:</em>
  run 'anu fetch databases -d %s' first`
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

func ReadRawError(path string, err error) error {
	msg := "Cannot read database file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read %s: %w", fn.Name(), path, err),
	}
}
