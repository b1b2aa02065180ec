// Package pdb reads atomic coordinates from files in PDB format.
//
// Only coordinate records (ATOM, HETATM) and model boundaries (MODEL,
// ENDMDL, END) are interpreted. All other records are ignored. Coordinate
// lines that cannot be parsed are skipped and counted in
// Structure.Skipped.
package pdb

// Structure is a parsed PDB file.
type Structure struct {
	// ID is the identifier of the structure, usually the file name
	// without extension.
	ID string
	// Models in the order of the file. Files without MODEL records
	// have one model.
	Models []*Model
	// Skipped is the number of malformed coordinate lines.
	Skipped int
}

// Model is one set of coordinates of a structure.
type Model struct {
	Serial int
	// Chains in the order of their first appearance.
	Chains []*Chain
}

// Chain is a sequence of residues with the same chain identifier.
type Chain struct {
	ID       string
	Residues []*Residue
}

// Residue is an amino acid, a ligand or a water molecule.
type Residue struct {
	// Name is the three-letter residue name.
	Name string
	// Het is empty for ATOM records, "W" for water and "H_<name>" for
	// other HETATM records.
	Het string
	// Seq is the residue sequence number.
	Seq int
	// ICode is the insertion code.
	ICode byte
	Atoms []*Atom
}

// Atom is a single atom with its coordinates. When an atom has alternate
// locations, only the location with the highest occupancy is kept.
type Atom struct {
	Name      string
	AltLoc    byte
	X, Y, Z   float64
	Occupancy float64
	Element   string
}

// FirstModel returns the first model of the structure or nil if the
// structure has no atoms.
func (s *Structure) FirstModel() *Model {
	if len(s.Models) == 0 {
		return nil
	}
	return s.Models[0]
}

// Residues returns residues of all chains of the model in order.
func (m *Model) Residues() []*Residue {
	var res []*Residue
	for _, c := range m.Chains {
		res = append(res, c.Residues...)
	}
	return res
}

// Center returns the mean position of residue atoms. The second value
// is false for a residue without atoms.
func (r *Residue) Center() (x, y, z float64, ok bool) {
	if len(r.Atoms) == 0 {
		return 0, 0, 0, false
	}
	for _, a := range r.Atoms {
		x += a.X
		y += a.Y
		z += a.Z
	}
	n := float64(len(r.Atoms))
	return x / n, y / n, z / n, true
}
