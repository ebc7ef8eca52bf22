package chem

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/turtacn/DiverseMol/pkg/errors"
)

// ReadSDF parses all molecules from a V2000 structure-data stream.  The mol
// block title line becomes the molecule name; charge information is taken
// from M  CHG lines.  Records are separated by $$$$.
func ReadSDF(r io.Reader) ([]*Molecule, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var mols []*Molecule
	var block []string
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, "$$$$") {
			if len(block) > 0 {
				mol, err := parseMolBlock(block)
				if err != nil {
					return nil, err
				}
				mols = append(mols, mol)
				block = block[:0]
			}
			continue
		}
		block = append(block, line)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeMoleculeInvalidSDF, "failed to read sdf stream")
	}
	// Trailing record without $$$$ terminator.
	if hasMolContent(block) {
		mol, err := parseMolBlock(block)
		if err != nil {
			return nil, err
		}
		mols = append(mols, mol)
	}
	if len(mols) == 0 {
		return nil, errors.New(errors.CodeMoleculeEmptySet, "sdf stream contains no molecules")
	}
	return mols, nil
}

func hasMolContent(block []string) bool {
	for _, l := range block {
		if strings.TrimSpace(l) != "" {
			return true
		}
	}
	return false
}

// parseMolBlock parses one V2000 mol block (header + counts + atoms + bonds
// + properties).  Data items after M  END are ignored except for the name.
func parseMolBlock(lines []string) (*Molecule, error) {
	if len(lines) < 4 {
		return nil, errors.New(errors.CodeMoleculeInvalidSDF, "mol block too short")
	}
	name := strings.TrimSpace(lines[0])
	counts := lines[3]
	if len(counts) < 6 {
		return nil, errors.New(errors.CodeMoleculeInvalidSDF, "invalid counts line").
			WithDetail("line=" + counts)
	}
	numAtoms, err1 := strconv.Atoi(strings.TrimSpace(counts[0:3]))
	numBonds, err2 := strconv.Atoi(strings.TrimSpace(counts[3:6]))
	if err1 != nil || err2 != nil || numAtoms <= 0 {
		return nil, errors.New(errors.CodeMoleculeInvalidSDF, "invalid counts line").
			WithDetail("line=" + counts)
	}
	if len(lines) < 4+numAtoms+numBonds {
		return nil, errors.New(errors.CodeMoleculeInvalidSDF,
			"mol block shorter than declared atom and bond counts")
	}

	atoms := make([]Atom, numAtoms)
	has3D := false
	for i := 0; i < numAtoms; i++ {
		l := lines[4+i]
		if len(l) < 34 {
			return nil, errors.Newf(errors.CodeMoleculeInvalidSDF, "atom line %d too short", i+1)
		}
		x, _ := strconv.ParseFloat(strings.TrimSpace(l[0:10]), 64)
		y, _ := strconv.ParseFloat(strings.TrimSpace(l[10:20]), 64)
		z, _ := strconv.ParseFloat(strings.TrimSpace(l[20:30]), 64)
		elem := strings.TrimSpace(l[31:34])
		if elem == "" {
			return nil, errors.Newf(errors.CodeMoleculeInvalidSDF, "atom line %d has no element", i+1)
		}
		atoms[i] = Atom{Element: elem, X: x, Y: y, Z: z}
		if x != 0 || y != 0 || z != 0 {
			has3D = true
		}
	}

	bonds := make([]Bond, numBonds)
	for i := 0; i < numBonds; i++ {
		l := lines[4+numAtoms+i]
		if len(l) < 9 {
			return nil, errors.Newf(errors.CodeMoleculeInvalidSDF, "bond line %d too short", i+1)
		}
		from, _ := strconv.Atoi(strings.TrimSpace(l[0:3]))
		to, _ := strconv.Atoi(strings.TrimSpace(l[3:6]))
		order, _ := strconv.Atoi(strings.TrimSpace(l[6:9]))
		aromatic := order == 4
		if aromatic {
			order = 1
		}
		if order < 1 || order > 3 {
			return nil, errors.Newf(errors.CodeMoleculeInvalidSDF, "bond line %d has invalid order", i+1)
		}
		bonds[i] = Bond{From: from - 1, To: to - 1, Order: order, Aromatic: aromatic}
	}

	// Property block: charges and aromatic flags.
	for _, l := range lines[4+numAtoms+numBonds:] {
		if strings.HasPrefix(l, "M  CHG") {
			fields := strings.Fields(l[6:])
			if len(fields) < 1 {
				continue
			}
			n, _ := strconv.Atoi(fields[0])
			for k := 0; k < n && 2+2*k < len(fields); k++ {
				idx, _ := strconv.Atoi(fields[1+2*k])
				chg, _ := strconv.Atoi(fields[2+2*k])
				if idx >= 1 && idx <= numAtoms {
					atoms[idx-1].Charge = chg
				}
			}
		}
		if strings.HasPrefix(l, "M  END") {
			break
		}
	}

	// Mark atoms on aromatic bonds.
	for _, b := range bonds {
		if b.Aromatic {
			atoms[b.From].Aromatic = true
			atoms[b.To].Aromatic = true
		}
	}

	mol, err := NewMolecule(atoms, bonds)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeMoleculeInvalidSDF, "invalid mol block")
	}
	mol.Name = name
	mol.Has3D = has3D
	mol.fillImplicitHydrogens(nil)
	return mol, nil
}

// WriteSDF writes molecules as a V2000 structure-data stream, one record per
// molecule terminated by $$$$.  This is the wire format handed to the
// external PaDEL descriptor tool.
func WriteSDF(w io.Writer, mols []*Molecule) error {
	bw := bufio.NewWriter(w)
	for _, m := range mols {
		if err := writeMolBlock(bw, m); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to flush sdf output")
	}
	return nil
}

func writeMolBlock(w *bufio.Writer, m *Molecule) error {
	name := m.Name
	if name == "" {
		name = m.CanonicalSMILES()
	}
	fmt.Fprintf(w, "%s\n  DiverseMol\n\n", name)
	fmt.Fprintf(w, "%3d%3d  0  0  0  0  0  0  0  0999 V2000\n", len(m.Atoms), len(m.Bonds))

	for i := range m.Atoms {
		a := &m.Atoms[i]
		fmt.Fprintf(w, "%10.4f%10.4f%10.4f %-3s 0  0  0  0  0  0  0  0  0  0  0  0\n",
			a.X, a.Y, a.Z, a.Element)
	}
	for _, b := range m.Bonds {
		order := b.Order
		if b.Aromatic {
			order = 4
		}
		fmt.Fprintf(w, "%3d%3d%3d  0  0  0  0\n", b.From+1, b.To+1, order)
	}

	// Charge lines, eight entries per M  CHG record.
	charged := [][2]int{}
	for i := range m.Atoms {
		if m.Atoms[i].Charge != 0 {
			charged = append(charged, [2]int{i + 1, m.Atoms[i].Charge})
		}
	}
	for start := 0; start < len(charged); start += 8 {
		end := start + 8
		if end > len(charged) {
			end = len(charged)
		}
		fmt.Fprintf(w, "M  CHG%3d", end-start)
		for _, c := range charged[start:end] {
			fmt.Fprintf(w, "%4d%4d", c[0], c[1])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "M  END")
	fmt.Fprintln(w, "$$$$")
	return nil
}
