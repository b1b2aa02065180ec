package iotrain

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/gn"
)

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

func NotEnoughRecordsError(n int) error {
	msg := "Not enough records for training: %d"
	vars := []any{n}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ModelTrainError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %w",
			fn.Name(), errors.New("training split is empty")),
	}
}

func ModelTrainError(err error) error {
	msg := "Cannot train the model"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ModelTrainError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}

func NoModelError(path string) error {
	msg := `Model file <em>%s</em> does not exist

<em>How to fix:</em>
  run 'anu train' first`
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PrerequisiteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s does not exist", fn.Name(), path),
	}
}

func ModelReadError(path string, err error) error {
	msg := "Cannot read model <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ModelReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read %s: %w", fn.Name(), path, err),
	}
}

func ModelWriteError(path string, err error) error {
	msg := "Cannot save model to <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ModelWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot write %s: %w", fn.Name(), path, err),
	}
}

func CancelledError(err error) error {
	msg := "Training was cancelled, the model is not saved"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CancelledError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}
