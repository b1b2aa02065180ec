// Package matrix converts a protein structure into a fixed-size numeric
// matrix. Every channel of the matrix has the same length, so matrices of
// proteins of different sizes can be stacked into one table.
package matrix

import (
	"math"

	"github.com/gnames/anu/pkg/pdb"
	"github.com/gnames/anu/pkg/residue"
)

// Channel is one row of a structure matrix.
type Channel int

const (
	Seq Channel = iota
	XPos
	YPos
	ZPos
	Hydropathy
	HydropathyIndex
	AcidityBasicity
	Mass
	IsoelectricPoint
	Charge
)

// NumChannels is the number of rows in a structure matrix.
const NumChannels = 10

var channelNames = [NumChannels]string{
	"seq",
	"x_pos",
	"y_pos",
	"z_pos",
	"hydropathy",
	"hydropathy_index",
	"acidity_basicity",
	"mass",
	"isoelectric_point",
	"charge",
}

// String returns the name of the channel used in table columns.
func (c Channel) String() string {
	if c < 0 || int(c) >= NumChannels {
		return "unknown"
	}
	return channelNames[c]
}

// IsInteger is true for channels that hold only integer values.
func (c Channel) IsInteger() bool {
	switch c {
	case HydropathyIndex, Mass, IsoelectricPoint:
		return false
	}
	return true
}

// Channels returns all channels in matrix order.
func Channels() []Channel {
	res := make([]Channel, NumChannels)
	for i := range res {
		res[i] = Channel(i)
	}
	return res
}

// Matrix holds per-residue features of a protein.
type Matrix struct {
	// ID of the protein.
	ID string
	// MaxLen is the length of every channel.
	MaxLen int
	// Residues is the number of residues of the first model, including
	// non-standard ones.
	Residues int
	// Channels keeps values by residue position. Positions after the
	// last residue and positions of non-standard residues are zero.
	Channels [NumChannels][]float64
}

// Truncation reports a protein that did not fit into a matrix.
type Truncation struct {
	ID     string
	MaxLen int
	// Dropped is the number of standard residues that were not written.
	Dropped int
}

// New creates a zero matrix.
func New(id string, maxLen int) *Matrix {
	if maxLen < 0 {
		maxLen = 0
	}
	res := Matrix{ID: id, MaxLen: maxLen}
	for i := range res.Channels {
		res.Channels[i] = make([]float64, maxLen)
	}
	return &res
}

// Build converts the first model of a structure into a matrix.
//
// Residues of all chains are placed one per column in file order. Standard
// amino acids get their rounded mean atom position and their properties,
// other residues keep a column of zeros. If a standard residue falls
// outside of maxLen columns, building stops and a Truncation is returned
// together with the matrix.
func Build(st *pdb.Structure, maxLen int) (*Matrix, *Truncation) {
	res := New(st.ID, maxLen)
	model := st.FirstModel()
	if model == nil {
		return res, nil
	}

	residues := model.Residues()
	res.Residues = len(residues)

	for col, r := range residues {
		letter, ok := residue.ThreeToOne(r.Name)
		if !ok {
			continue
		}
		prop, err := residue.Lookup(letter)
		if err != nil {
			continue
		}
		if col >= res.MaxLen {
			return res, &Truncation{
				ID:      st.ID,
				MaxLen:  res.MaxLen,
				Dropped: countStandard(residues[col:]),
			}
		}
		x, y, z, _ := r.Center()
		res.set(col, prop, x, y, z)
	}
	return res, nil
}

func (m *Matrix) set(col int, p residue.Property, x, y, z float64) {
	m.Channels[Seq][col] = float64(p.Code)
	m.Channels[XPos][col] = math.RoundToEven(x)
	m.Channels[YPos][col] = math.RoundToEven(y)
	m.Channels[ZPos][col] = math.RoundToEven(z)
	m.Channels[Hydropathy][col] = float64(p.Hydropathy)
	m.Channels[HydropathyIndex][col] = p.HydropathyIndex
	m.Channels[AcidityBasicity][col] = float64(p.AcidityBasicity)
	m.Channels[Mass][col] = p.Mass
	m.Channels[IsoelectricPoint][col] = p.IsoelectricPoint
	m.Channels[Charge][col] = float64(p.Charge)
}

func countStandard(rr []*pdb.Residue) int {
	var res int
	for _, r := range rr {
		if residue.IsStandard(r.Name) {
			res++
		}
	}
	return res
}
