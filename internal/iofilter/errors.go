package iofilter

import (
	"fmt"
	"runtime"

	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/gn"
)

func NoPairTableError(dataset, path string) error {
	msg := `Dataset <em>%s</em> has no pair table

<em>How to fix:</em>
  run 'anu prepare tables -d %s' first`
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

func StructureWriteError(id, path string, err error) error {
	msg := "Cannot save structure of <em>%s</em> to %s"
	vars := []any{id, path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StructureWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot write %s: %w", fn.Name(), path, err),
	}
}
