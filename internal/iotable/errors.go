package iotable

import (
	"fmt"
	"runtime"

	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/gn"
)

func TableOpenError(path string, err error) error {
	msg := "Cannot open table <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TableOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot open %s: %w", fn.Name(), path, err),
	}
}

func TableWriteError(path string, err error) error {
	msg := "Cannot write table <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TableWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot write %s: %w", fn.Name(), path, err),
	}
}

func TableReadError(path string, err error) error {
	msg := "Cannot read table <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TableReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read %s: %w", fn.Name(), path, err),
	}
}

func SchemaMismatchError(path, expected, got string) error {
	msg := `Table <em>%s</em> has an incompatible schema

Tables built with different settings (for example different max length)
cannot be combined. Rebuild inputs with the same configuration.`
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TableSchemaMismatchError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: schema of %s is %q, expected %q",
			fn.Name(), path, got, expected),
	}
}
