package iofetch

import (
	"fmt"
	"runtime"

	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/gn"
)

func RequestError(url string, err error) error {
	msg := "Cannot get record metadata from <em>%s</em>"
	vars := []any{url}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FetchRequestError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: request to %s failed: %w",
			fn.Name(), url, err),
	}
}

func DownloadError(url string, err error) error {
	msg := "Cannot download <em>%s</em>"
	vars := []any{url}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FetchDownloadError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: download of %s failed: %w",
			fn.Name(), url, err),
	}
}
