package ioexport

import (
	"fmt"
	"runtime"

	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/gn"
)

func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Export attempted without database connection",
		Err:  fmt.Errorf("not connected to database"),
	}
}

func NoInputError(dataset, path string) error {
	msg := `Dataset <em>%s</em> has no input table

<em>How to fix:</em>
  run 'anu prepare inputs -d %s' first`
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

func ExportError(dataset string, err error) error {
	msg := "Cannot export <em>%s</em>, the database is not changed"
	vars := []any{dataset}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ExportError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}
