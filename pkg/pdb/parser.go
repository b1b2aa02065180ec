package pdb

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type residueKey struct {
	het   string
	seq   int
	iCode byte
}

// parser collects atoms into models, chains and residues.
type parser struct {
	st       *Structure
	model    *Model
	chains   map[string]*Chain
	residues map[*Chain]map[residueKey]*Residue
	// model was closed by ENDMDL
	closed bool
}

// Parse reads a structure in PDB format. Malformed coordinate lines are
// skipped, only read errors are returned.
func Parse(r io.Reader, id string) (*Structure, error) {
	p := &parser{st: &Structure{ID: id}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		switch recordName(line) {
		case "MODEL":
			p.newModel(parseSerial(line))
		case "ENDMDL":
			p.closed = true
		case "END":
			return p.st, nil
		case "ATOM", "HETATM":
			atom, res, chainID, err := parseAtomLine(line)
			if err != nil {
				p.st.Skipped++
				continue
			}
			p.add(chainID, res, atom)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read structure %s: %w", id, err)
	}
	return p.st, nil
}

func recordName(line string) string {
	if len(line) > 6 {
		line = line[:6]
	}
	return strings.TrimSpace(line)
}

func parseSerial(line string) int {
	if len(line) <= 6 {
		return 0
	}
	res, err := strconv.Atoi(strings.TrimSpace(line[6:]))
	if err != nil {
		return 0
	}
	return res
}

func (p *parser) newModel(serial int) {
	if serial == 0 {
		serial = len(p.st.Models) + 1
	}
	p.model = &Model{Serial: serial}
	p.st.Models = append(p.st.Models, p.model)
	p.chains = make(map[string]*Chain)
	p.residues = make(map[*Chain]map[residueKey]*Residue)
	p.closed = false
}

func (p *parser) add(chainID string, res *Residue, atom *Atom) {
	if p.model == nil || p.closed {
		p.newModel(0)
	}

	chain, ok := p.chains[chainID]
	if !ok {
		chain = &Chain{ID: chainID}
		p.chains[chainID] = chain
		p.model.Chains = append(p.model.Chains, chain)
		p.residues[chain] = make(map[residueKey]*Residue)
	}

	key := residueKey{het: res.Het, seq: res.Seq, iCode: res.ICode}
	existing, ok := p.residues[chain][key]
	if !ok {
		existing = res
		p.residues[chain][key] = res
		chain.Residues = append(chain.Residues, res)
	}
	existing.addAtom(atom)
}

// addAtom keeps one atom per name, preferring higher occupancy among
// alternate locations.
func (r *Residue) addAtom(atom *Atom) {
	for i, a := range r.Atoms {
		if a.Name != atom.Name {
			continue
		}
		if atom.Occupancy > a.Occupancy {
			r.Atoms[i] = atom
		}
		return
	}
	r.Atoms = append(r.Atoms, atom)
}

// parseAtomLine reads fixed columns of ATOM and HETATM records.
func parseAtomLine(line string) (*Atom, *Residue, string, error) {
	if len(line) < 54 {
		return nil, nil, "", fmt.Errorf("coordinate line is too short: %d", len(line))
	}

	name := strings.TrimSpace(line[12:16])
	resName := strings.TrimSpace(line[17:20])
	chainID := strings.TrimSpace(line[21:22])

	seq, err := strconv.Atoi(strings.TrimSpace(line[22:26]))
	if err != nil {
		return nil, nil, "", fmt.Errorf("bad residue number: %w", err)
	}

	var coords [3]float64
	for i := range coords {
		start := 30 + i*8
		coords[i], err = strconv.ParseFloat(strings.TrimSpace(line[start:start+8]), 64)
		if err != nil {
			return nil, nil, "", fmt.Errorf("bad coordinate: %w", err)
		}
	}

	occupancy := 1.0
	if len(line) >= 60 {
		if f, err := strconv.ParseFloat(strings.TrimSpace(line[54:60]), 64); err == nil {
			occupancy = f
		}
	}

	var element string
	if len(line) >= 78 {
		element = strings.TrimSpace(line[76:78])
	}

	atom := &Atom{
		Name:      name,
		AltLoc:    line[16],
		X:         coords[0],
		Y:         coords[1],
		Z:         coords[2],
		Occupancy: occupancy,
		Element:   element,
	}

	res := &Residue{
		Name:  resName,
		Het:   hetFlag(recordName(line), resName),
		Seq:   seq,
		ICode: line[26],
	}
	if res.ICode == ' ' {
		res.ICode = 0
	}
	if atom.AltLoc == ' ' {
		atom.AltLoc = 0
	}

	return atom, res, chainID, nil
}

func hetFlag(record, resName string) string {
	if record != "HETATM" {
		return ""
	}
	if resName == "HOH" || resName == "WAT" {
		return "W"
	}
	return "H_" + resName
}
