package residue

import (
	"fmt"
	"runtime"

	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/gn"
)

func UnknownResidueError(letter byte) error {
	msg := "Residue code <em>%q</em> is not a standard amino acid"
	vars := []any{letter}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.UnknownResidueError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: unknown residue code %q", fn.Name(), letter),
	}
}
