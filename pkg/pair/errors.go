package pair

import (
	"fmt"
	"runtime"

	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/gn"
)

func ShapeMismatchError(idA string, lenA int, idB string, lenB int) error {
	msg := `Cannot pair <em>%s</em> (length %d) with <em>%s</em> (length %d)

Both matrices must be built with the same max length.`
	vars := []any{idA, lenA, idB, lenB}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PairShapeMismatchError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: matrix lengths differ: %d != %d",
			fn.Name(), lenA, lenB),
	}
}
