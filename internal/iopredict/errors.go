package iopredict

import (
	"fmt"
	"runtime"

	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/gn"
)

func DownloadError(id string, mode Mode, err error) error {
	msg := "Cannot download structure <em>%s</em> (%s)"
	vars := []any{id, mode}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FetchDownloadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot download %s: %w", fn.Name(), id, err),
	}
}
