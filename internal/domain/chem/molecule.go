// Package chem provides the molecular graph model used by every feature
// backend in DiverseMol: atoms, bonds, ring perception, implicit-hydrogen
// filling, SMILES parsing/writing, and V2000 SDF input/output.
//
// The model is deliberately self-contained.  It covers the organic subset
// plus bracket atoms with charge, isotope, and tetrahedral chirality tags,
// which is what the descriptor and fingerprint engines consume.
package chem

import (
	"math"

	"github.com/turtacn/DiverseMol/pkg/errors"
)

// Chirality is the tetrahedral chirality tag parsed from a bracket atom.
type Chirality string

const (
	ChiralityNone          Chirality = ""
	ChiralityCounterClock  Chirality = "@"
	ChiralityClockwise     Chirality = "@@"
)

// Atom is a single atom in the molecular graph.
type Atom struct {
	// Element is the atomic symbol with canonical capitalisation ("C", "Cl").
	Element string

	// Aromatic marks atoms written in lowercase aromatic SMILES form.
	Aromatic bool

	// Charge is the formal charge.
	Charge int

	// Isotope is the isotope mass number, 0 when unspecified.
	Isotope int

	// Chirality is the tetrahedral tag, empty when unspecified.
	Chirality Chirality

	// Hydrogens is the implicit hydrogen count (explicit H from bracket
	// atoms is folded in here as well).
	Hydrogens int

	// X, Y, Z are coordinates from SDF input; all zero for SMILES input.
	X, Y, Z float64
}

// Bond connects two atoms by index.
type Bond struct {
	// From and To are atom indices into Molecule.Atoms.
	From, To int

	// Order is the bond order: 1, 2, or 3.  Aromatic bonds carry Order 1
	// with Aromatic set; their effective order for valence purposes is 1.5.
	Order int

	// Aromatic marks bonds between aromatic atoms.
	Aromatic bool
}

// Molecule is an ordered collection of atoms and bonds with an optional
// explicit name.  Construct via ParseSMILES, ReadSDF, or NewMolecule.
type Molecule struct {
	// Name is the explicit molecule name ("" when unset).
	Name string

	// SMILES is the input SMILES when the molecule was parsed from one.
	SMILES string

	Atoms []Atom
	Bonds []Bond

	// Has3D reports whether atomic coordinates were supplied (SDF input).
	Has3D bool

	adjacency [][]int      // lazily built: atom index → neighbour atom indices
	bondIndex map[[2]int]int // lazily built: (min,max) atom pair → bond index
	rings     []Ring         // lazily built SSSR
}

// NewMolecule builds a molecule directly from atoms and bonds, validating
// bond endpoints.  Callers that parse external formats use this to finish
// construction.
func NewMolecule(atoms []Atom, bonds []Bond) (*Molecule, error) {
	m := &Molecule{Atoms: atoms, Bonds: bonds}
	for _, b := range bonds {
		if b.From < 0 || b.From >= len(atoms) || b.To < 0 || b.To >= len(atoms) {
			return nil, errors.InvalidParam("bond references atom out of range")
		}
		if b.From == b.To {
			return nil, errors.InvalidParam("bond connects an atom to itself")
		}
	}
	return m, nil
}

// NumAtoms returns the atom count.
func (m *Molecule) NumAtoms() int { return len(m.Atoms) }

// NumBonds returns the bond count.
func (m *Molecule) NumBonds() int { return len(m.Bonds) }

// Neighbors returns the atom indices bonded to atom i.
func (m *Molecule) Neighbors(i int) []int {
	m.buildAdjacency()
	return m.adjacency[i]
}

// Degree returns the number of explicit connections of atom i.
func (m *Molecule) Degree(i int) int {
	m.buildAdjacency()
	return len(m.adjacency[i])
}

// BondBetween returns the bond connecting atoms i and j, or nil.
func (m *Molecule) BondBetween(i, j int) *Bond {
	m.buildAdjacency()
	if i > j {
		i, j = j, i
	}
	if k, ok := m.bondIndex[[2]int{i, j}]; ok {
		return &m.Bonds[k]
	}
	return nil
}

func (m *Molecule) buildAdjacency() {
	if m.adjacency != nil {
		return
	}
	m.adjacency = make([][]int, len(m.Atoms))
	m.bondIndex = make(map[[2]int]int, len(m.Bonds))
	for k, b := range m.Bonds {
		m.adjacency[b.From] = append(m.adjacency[b.From], b.To)
		m.adjacency[b.To] = append(m.adjacency[b.To], b.From)
		lo, hi := b.From, b.To
		if lo > hi {
			lo, hi = hi, lo
		}
		m.bondIndex[[2]int{lo, hi}] = k
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Element data
// ─────────────────────────────────────────────────────────────────────────────

// atomicWeights covers the elements the parser accepts.  Average atomic
// masses in g/mol.
var atomicWeights = map[string]float64{
	"H": 1.008, "B": 10.811, "C": 12.011, "N": 14.007, "O": 15.999,
	"F": 18.998, "Si": 28.086, "P": 30.974, "S": 32.06, "Cl": 35.453,
	"Br": 79.904, "I": 126.904, "Se": 78.971, "As": 74.922, "Na": 22.990,
	"K": 39.098, "Li": 6.94, "Mg": 24.305, "Ca": 40.078, "Fe": 55.845,
	"Zn": 65.38, "Cu": 63.546, "Mn": 54.938, "Sn": 118.710, "Al": 26.982,
}

// defaultValences gives the lowest normal valence per element, used to fill
// implicit hydrogens the same way the SDF loader does.
var defaultValences = map[string]int{
	"C": 4, "N": 3, "P": 3, "O": 2, "S": 2, "Se": 2,
	"F": 1, "Cl": 1, "Br": 1, "I": 1, "B": 3, "H": 1,
}

// electronCounts gives atomic numbers for valence-electron style descriptors.
var electronCounts = map[string]int{
	"H": 1, "B": 5, "C": 6, "N": 7, "O": 8, "F": 9, "Si": 14, "P": 15,
	"S": 16, "Cl": 17, "Br": 35, "I": 53, "Se": 34, "As": 33, "Na": 11,
	"K": 19, "Li": 3, "Mg": 12, "Ca": 20, "Fe": 26, "Zn": 30, "Cu": 29,
	"Mn": 25, "Sn": 50, "Al": 13,
}

// AtomicWeight returns the average atomic mass of an element symbol, or 0
// for an unknown symbol.
func AtomicWeight(element string) float64 {
	return atomicWeights[element]
}

// AtomicNumber returns the atomic number of an element symbol, or 0.
func AtomicNumber(element string) int {
	return electronCounts[element]
}

// IsHeteroatom reports whether the element is neither carbon nor hydrogen.
func IsHeteroatom(element string) bool {
	return element != "C" && element != "H"
}

// IsHalogen reports whether the element is F, Cl, Br, or I.
func IsHalogen(element string) bool {
	switch element {
	case "F", "Cl", "Br", "I":
		return true
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Valence / implicit hydrogens
// ─────────────────────────────────────────────────────────────────────────────

// bondOrderSum returns the summed bond orders around atom i, counting an
// aromatic bond as 1.5.
func (m *Molecule) bondOrderSum(i int) float64 {
	m.buildAdjacency()
	sum := 0.0
	for _, j := range m.adjacency[i] {
		b := m.BondBetween(i, j)
		if b.Aromatic {
			sum += 1.5
		} else {
			sum += float64(b.Order)
		}
	}
	return sum
}

// fillImplicitHydrogens assigns Atom.Hydrogens from default valences for
// atoms that did not specify an explicit count (bracket atoms keep theirs).
// explicitH marks atoms whose hydrogen count is authoritative.
func (m *Molecule) fillImplicitHydrogens(explicitH []bool) {
	for i := range m.Atoms {
		if explicitH != nil && explicitH[i] {
			continue
		}
		a := &m.Atoms[i]
		valence, ok := defaultValences[a.Element]
		if !ok {
			a.Hydrogens = 0
			continue
		}
		used := m.bondOrderSum(i)
		// Aromatic ring atoms with two ring bonds carry 3 used valences
		// (two 1.5 bonds round down to one spare slot on carbon).
		h := valence + a.Charge - int(math.Ceil(used))
		if a.Aromatic && a.Element == "N" && a.Charge == 0 {
			// Pyrrole-style N written as plain "n" gets no implicit H here;
			// SMILES requires [nH] for the protonated form.
			h = 0
		}
		if h < 0 {
			h = 0
		}
		a.Hydrogens = h
	}
}

// TotalHydrogens returns the summed implicit hydrogen count.
func (m *Molecule) TotalHydrogens() int {
	total := 0
	for i := range m.Atoms {
		total += m.Atoms[i].Hydrogens
	}
	return total
}

// MolecularWeight returns the average molecular weight including implicit
// hydrogens.
func (m *Molecule) MolecularWeight() float64 {
	w := 0.0
	for i := range m.Atoms {
		w += atomicWeights[m.Atoms[i].Element]
		w += float64(m.Atoms[i].Hydrogens) * atomicWeights["H"]
	}
	return w
}

// HasCoordinates reports whether any atom carries a non-zero coordinate.
func (m *Molecule) HasCoordinates() bool {
	return m.Has3D
}
