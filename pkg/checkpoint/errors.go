package checkpoint

import (
	"fmt"
	"runtime"

	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/gn"
)

func InvariantError(format string, args ...any) error {
	detail := fmt.Sprintf(format, args...)
	msg := `Checkpoint files are inconsistent: <em>%s</em>

Remove the checkpoint directory to start from scratch.`
	vars := []any{detail}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CheckpointInvariantError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s", fn.Name(), detail),
	}
}
