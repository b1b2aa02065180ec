package iobuild

import (
	"fmt"
	"runtime"

	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/gn"
)

func NoStructureError(id, path string) error {
	msg := `Structure of <em>%s</em> is not downloaded

<em>How to fix:</em>
  run 'anu fetch structures' for the dataset first`
	vars := []any{id}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PrerequisiteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s does not exist", fn.Name(), path),
	}
}

func StructureReadError(id, path string, err error) error {
	msg := "Cannot read structure of <em>%s</em>"
	vars := []any{id}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StructureReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read %s: %w", fn.Name(), path, err),
	}
}

func NoChunksError(dataset, path string) error {
	msg := `Dataset <em>%s</em> has no built rows

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

func MissingChunkError(dataset string, row int, path string) error {
	msg := "Chunk of row %d of <em>%s</em> is missing"
	vars := []any{row, dataset}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TableReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s does not exist", fn.Name(), path),
	}
}
