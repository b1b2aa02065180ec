package iologger

import (
	"fmt"
	"runtime"

	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/gn"
)

// CreateLogFileError is returned when the log file cannot be opened. Logs
// can still go to the terminal with log.destination set to stderr.
func CreateLogFileError(path string, err error) error {
	msg := `Cannot open anu log <em>%s</em>
   Set <em>ANU_LOG_DESTINATION=stderr</em> to log to the terminal`
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: open %s: %w", fn.Name(), path, err),
	}
}
