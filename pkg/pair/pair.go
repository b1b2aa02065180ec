// Package pair combines matrices of two proteins into one labeled record.
package pair

import (
	"fmt"

	"github.com/gnames/anu/pkg/matrix"
	"github.com/gnames/gnuuid"
)

// Label tells if proteins of a pair interact.
type Label int

const (
	// Unlabeled records are used for predictions.
	Unlabeled Label = iota
	Interacting
	NonInteracting
)

// String returns a short name of the label.
func (l Label) String() string {
	switch l {
	case Interacting:
		return "interacting"
	case NonInteracting:
		return "non-interacting"
	}
	return "unlabeled"
}

// OneHot returns the label encoded as [interacting, non-interacting].
// Unlabeled records return nil.
func (l Label) OneHot() []float64 {
	switch l {
	case Interacting:
		return []float64{1, 0}
	case NonInteracting:
		return []float64{0, 1}
	}
	return nil
}

// LabelFromOneHot converts one-hot encoding back to a Label.
func LabelFromOneHot(v []float64) Label {
	if len(v) != 2 {
		return Unlabeled
	}
	switch {
	case v[0] == 1 && v[1] == 0:
		return Interacting
	case v[0] == 0 && v[1] == 1:
		return NonInteracting
	}
	return Unlabeled
}

// LabelFromBool converts interaction flag of a dataset to a Label.
func LabelFromBool(interacting bool) Label {
	if interacting {
		return Interacting
	}
	return NonInteracting
}

// NumColumns is the number of feature columns of a record.
const NumColumns = 2 * matrix.NumChannels

// Record is a pair of proteins with their features.
type Record struct {
	// ID is a UUID v5 generated from both protein IDs.
	ID       string
	ProteinA string
	ProteinB string
	MaxLen   int
	// Columns are ordered proteinA_seq, proteinB_seq, proteinA_x_pos...
	Columns [NumColumns][]float64
	Label   Label
}

// Assemble interleaves channels of two matrices into one record.
// Matrices must have the same length.
func Assemble(a, b *matrix.Matrix, label Label) (*Record, error) {
	if a.MaxLen != b.MaxLen {
		return nil, ShapeMismatchError(a.ID, a.MaxLen, b.ID, b.MaxLen)
	}
	res := Record{
		ID:       RecordID(a.ID, b.ID),
		ProteinA: a.ID,
		ProteinB: b.ID,
		MaxLen:   a.MaxLen,
		Label:    label,
	}
	for i := range matrix.NumChannels {
		res.Columns[2*i] = a.Channels[i]
		res.Columns[2*i+1] = b.Channels[i]
	}
	return &res, nil
}

// RecordID generates a stable identifier of a pair.
func RecordID(idA, idB string) string {
	return gnuuid.New(idA + "|" + idB).String()
}

// ColumnNames returns names of feature columns followed by "interaction".
func ColumnNames() []string {
	res := make([]string, 0, NumColumns+1)
	for _, ch := range matrix.Channels() {
		res = append(res,
			fmt.Sprintf("proteinA_%s", ch),
			fmt.Sprintf("proteinB_%s", ch),
		)
	}
	return append(res, "interaction")
}

// ColumnChannel returns the matrix channel of a feature column.
func ColumnChannel(col int) matrix.Channel {
	return matrix.Channel(col / 2)
}

// Features returns a matrix of NumChannels rows, each row is a channel of
// protein A followed by the same channel of protein B.
func (r *Record) Features() [][]float64 {
	res := make([][]float64, matrix.NumChannels)
	for i := range res {
		row := make([]float64, 0, 2*r.MaxLen)
		row = append(row, r.Columns[2*i]...)
		row = append(row, r.Columns[2*i+1]...)
		res[i] = row
	}
	return res
}
