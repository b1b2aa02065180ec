// Package residue provides physico-chemical properties of the twenty
// standard amino acids.
package residue

import (
	"strings"
)

// Hydropathy classifies a residue by its affinity to water.
type Hydropathy int

const (
	Hydrophilic Hydropathy = iota + 1
	Hydrophobic
	Moderate
)

// AcidityBasicity classifies a residue side chain as acidic, basic or
// neutral.
type AcidityBasicity int

const (
	Acidic AcidityBasicity = iota + 1
	Basic
	NeutralAB
)

// Charge classifies a residue side chain by its charge at physiological pH.
type Charge int

const (
	Positive Charge = iota + 1
	Negative
	NeutralCharge
)

// Property describes one standard amino acid.
type Property struct {
	// Letter is the one-letter code.
	Letter byte
	// Code is an integer code from 1 to 20.
	Code int
	Hydropathy
	// HydropathyIndex is the Kyte-Doolittle hydropathy index.
	HydropathyIndex float64
	AcidityBasicity
	// Mass in daltons.
	Mass float64
	// IsoelectricPoint is the pH at which the residue has no net charge.
	IsoelectricPoint float64
	Charge
}

// table keeps the values used for all trained models. Some entries differ
// from textbook values (for example S mass and I mass), they must not be
// corrected or existing inputs become incompatible.
var table = [...]Property{
	{'A', 1, Hydrophobic, 1.8, NeutralAB, 89.09, 6.00, NeutralCharge},
	{'C', 2, Moderate, 2.5, NeutralAB, 121.16, 5.02, NeutralCharge},
	{'D', 3, Hydrophilic, -3.5, Acidic, 133.10, 2.77, Negative},
	{'E', 4, Hydrophilic, -3.5, Acidic, 147.13, 3.22, Negative},
	{'F', 5, Hydrophobic, 2.8, NeutralAB, 165.19, 5.44, NeutralCharge},
	{'G', 6, Hydrophobic, -0.4, NeutralAB, 75.07, 5.97, NeutralCharge},
	{'H', 7, Moderate, -3.2, Basic, 155.16, 7.47, Positive},
	{'I', 8, Hydrophobic, 4.5, NeutralAB, 131.8, 5.94, NeutralCharge},
	{'K', 9, Hydrophilic, -3.9, Basic, 146.19, 9.59, Positive},
	{'L', 10, Hydrophobic, 3.8, NeutralAB, 131.18, 5.98, NeutralCharge},
	{'M', 11, Moderate, 1.9, NeutralAB, 149.21, 5.74, NeutralCharge},
	{'N', 12, Hydrophilic, -3.5, NeutralAB, 132.12, 5.41, NeutralCharge},
	{'P', 13, Hydrophobic, -1.6, NeutralAB, 115.13, 6.30, NeutralCharge},
	{'Q', 14, Hydrophilic, -3.5, NeutralAB, 146.15, 5.65, Negative},
	{'R', 15, Hydrophilic, -4.5, Basic, 174.20, 11.15, Positive},
	{'S', 16, Hydrophilic, -0.8, NeutralAB, 165.09, 5.68, NeutralCharge},
	{'T', 17, Hydrophilic, -0.7, NeutralAB, 119.12, 5.64, NeutralCharge},
	{'V', 18, Hydrophobic, 4.2, NeutralAB, 117.15, 5.96, NeutralCharge},
	{'W', 19, Hydrophobic, -0.9, NeutralAB, 204.23, 5.89, NeutralCharge},
	{'Y', 20, Hydrophobic, -1.3, NeutralAB, 181.19, 5.66, NeutralCharge},
}

var byLetter = func() map[byte]Property {
	res := make(map[byte]Property, len(table))
	for _, v := range table {
		res[v.Letter] = v
	}
	return res
}()

var threeToOne = map[string]byte{
	"ALA": 'A', "CYS": 'C', "ASP": 'D', "GLU": 'E', "PHE": 'F',
	"GLY": 'G', "HIS": 'H', "ILE": 'I', "LYS": 'K', "LEU": 'L',
	"MET": 'M', "ASN": 'N', "PRO": 'P', "GLN": 'Q', "ARG": 'R',
	"SER": 'S', "THR": 'T', "VAL": 'V', "TRP": 'W', "TYR": 'Y',
}

// Lookup returns properties of a residue by its one-letter code.
// Codes outside of the twenty standard amino acids are an error.
func Lookup(letter byte) (Property, error) {
	if res, ok := byLetter[letter]; ok {
		return res, nil
	}
	return Property{}, UnknownResidueError(letter)
}

// ThreeToOne converts a three-letter residue name (as used in PDB files)
// to a one-letter code. The second value is false for non-standard
// residues, ligands and water.
func ThreeToOne(resName string) (byte, bool) {
	resName = strings.ToUpper(strings.TrimSpace(resName))
	res, ok := threeToOne[resName]
	return res, ok
}

// IsStandard checks if a three-letter residue name belongs to one of the
// twenty standard amino acids.
func IsStandard(resName string) bool {
	_, ok := ThreeToOne(resName)
	return ok
}

// Letters returns one-letter codes in the order of their integer codes.
func Letters() []byte {
	res := make([]byte, len(table))
	for i, v := range table {
		res[i] = v.Letter
	}
	return res
}
