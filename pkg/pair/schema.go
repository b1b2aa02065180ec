package pair

import (
	"fmt"
	"strings"

	"github.com/gnames/anu/pkg/matrix"
)

// Schema describes columns of a table of records. All records of one table
// share the same schema.
type Schema struct {
	MaxLen  int
	Columns []string
	Kinds   []string
}

// NewSchema creates a schema for records with the given matrix length.
func NewSchema(maxLen int) Schema {
	res := Schema{MaxLen: maxLen, Columns: ColumnNames()}
	for i := range NumColumns {
		kind := "real"
		if ColumnChannel(i).IsInteger() {
			kind = "integer"
		}
		res.Kinds = append(res.Kinds, kind)
	}
	res.Kinds = append(res.Kinds, "onehot")
	return res
}

// Signature is a compact string that is equal for equal schemas.
func (s Schema) Signature() string {
	cols := make([]string, len(s.Columns))
	for i := range s.Columns {
		cols[i] = s.Columns[i] + ":" + s.Kinds[i]
	}
	return fmt.Sprintf("v1;max_len=%d;%s", s.MaxLen, strings.Join(cols, ","))
}

// Schema returns the schema of a record.
func (r *Record) Schema() Schema {
	return NewSchema(r.MaxLen)
}

// Channel returns values of a channel of protein A or B.
func (r *Record) Channel(ch matrix.Channel, proteinB bool) []float64 {
	idx := 2 * int(ch)
	if proteinB {
		idx++
	}
	return r.Columns[idx]
}
