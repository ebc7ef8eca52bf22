package fingerprint

import (
	"github.com/turtacn/DiverseMol/internal/domain/chem"
	"github.com/turtacn/DiverseMol/pkg/errors"
	feature "github.com/turtacn/DiverseMol/pkg/types/feature"
)

// ─────────────────────────────────────────────────────────────────────────────
// MACCS Keys Fingerprint
// ─────────────────────────────────────────────────────────────────────────────

// maccsKey is one substructure key: the 1-based key number from the MACCS
// definition and a graph predicate that decides it.
type maccsKey struct {
	num  int
	test func(*chem.Molecule) bool
}

// maccsKeys implements a subset of the published 166 key definitions as
// direct graph predicates.  Unimplemented keys stay zero, which keeps the
// fingerprint width and key numbering intact.
var maccsKeys = []maccsKey{
	{22, func(m *chem.Molecule) bool { return hasRingOfSize(m, 3) }},
	{25, func(m *chem.Molecule) bool { return elemCount(m, "N") >= 1 && hasBondOrder(m, 2) }},
	{27, func(m *chem.Molecule) bool { return elemCount(m, "I") > 0 }},
	{29, func(m *chem.Molecule) bool { return elemCount(m, "P") > 0 }},
	{42, func(m *chem.Molecule) bool { return elemCount(m, "F") > 0 }},
	{46, func(m *chem.Molecule) bool { return elemCount(m, "Br") > 0 }},
	{49, func(m *chem.Molecule) bool { return hasCharge(m) }},
	{78, func(m *chem.Molecule) bool { return hasBond(m, "C", "N", 2, false) }},
	{84, func(m *chem.Molecule) bool { return hasAmine(m, 2) }},
	{88, func(m *chem.Molecule) bool { return elemCount(m, "S") > 0 }},
	{92, func(m *chem.Molecule) bool { return hasCarbonylNeighbor(m, "N") }},
	{93, func(m *chem.Molecule) bool { return hasCarbonylNeighbor(m, "O") }},
	{96, func(m *chem.Molecule) bool { return hasRingOfSize(m, 5) }},
	{98, func(m *chem.Molecule) bool { return hasRingOfSize(m, 6) }},
	{100, func(m *chem.Molecule) bool { return hasAmine(m, 1) }},
	{103, func(m *chem.Molecule) bool { return elemCount(m, "Cl") > 0 }},
	{106, func(m *chem.Molecule) bool { return heteroCount(m) > 1 }},
	{121, func(m *chem.Molecule) bool { return hasAromaticAtom(m, "N") }},
	{125, func(m *chem.Molecule) bool { return m.AromaticRingCount() > 1 }},
	{134, hasHalogen},
	{137, func(m *chem.Molecule) bool { return heteroInRing(m) }},
	{139, func(m *chem.Molecule) bool { return hasHydroxyl(m) }},
	{154, func(m *chem.Molecule) bool { return hasBond(m, "C", "O", 2, false) }},
	{157, func(m *chem.Molecule) bool { return hasBond(m, "C", "O", 1, false) }},
	{160, func(m *chem.Molecule) bool { return hasCH3(m) }},
	{161, func(m *chem.Molecule) bool { return elemCount(m, "N") > 0 }},
	{162, func(m *chem.Molecule) bool { return anyAromatic(m) }},
	{163, func(m *chem.Molecule) bool { return hasRingOfSize(m, 6) }},
	{164, func(m *chem.Molecule) bool { return elemCount(m, "O") > 0 }},
	{165, func(m *chem.Molecule) bool { return m.RingCount() > 0 }},
}

// CalculateMACCS computes the 166-bit MACCS keys fingerprint.  The width is
// fixed; key k sets bit k-1.
func CalculateMACCS(m *chem.Molecule) (*Fingerprint, error) {
	if m.NumAtoms() == 0 {
		return nil, errors.New(errors.CodeFingerprintFailed, "cannot fingerprint an empty molecule")
	}
	fp := New(feature.FPMaccs, feature.MACCSNumBits)
	for _, k := range maccsKeys {
		if k.test(m) {
			fp.SetBit(k.num - 1)
		}
	}
	return fp, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Key predicates
// ─────────────────────────────────────────────────────────────────────────────

func elemCount(m *chem.Molecule, element string) int {
	n := 0
	for i := range m.Atoms {
		if m.Atoms[i].Element == element {
			n++
		}
	}
	return n
}

func heteroCount(m *chem.Molecule) int {
	n := 0
	for i := range m.Atoms {
		if chem.IsHeteroatom(m.Atoms[i].Element) {
			n++
		}
	}
	return n
}

func hasCharge(m *chem.Molecule) bool {
	for i := range m.Atoms {
		if m.Atoms[i].Charge != 0 {
			return true
		}
	}
	return false
}

func anyAromatic(m *chem.Molecule) bool {
	for i := range m.Atoms {
		if m.Atoms[i].Aromatic {
			return true
		}
	}
	return false
}

func hasAromaticAtom(m *chem.Molecule, element string) bool {
	for i := range m.Atoms {
		if m.Atoms[i].Aromatic && m.Atoms[i].Element == element {
			return true
		}
	}
	return false
}

func hasBondOrder(m *chem.Molecule, order int) bool {
	for _, b := range m.Bonds {
		if b.Order == order && !b.Aromatic {
			return true
		}
	}
	return false
}

func hasBond(m *chem.Molecule, e1, e2 string, order int, aromatic bool) bool {
	for _, b := range m.Bonds {
		if b.Order != order || b.Aromatic != aromatic {
			continue
		}
		a1, a2 := m.Atoms[b.From].Element, m.Atoms[b.To].Element
		if (a1 == e1 && a2 == e2) || (a1 == e2 && a2 == e1) {
			return true
		}
	}
	return false
}

func hasRingOfSize(m *chem.Molecule, size int) bool {
	for _, r := range m.Rings() {
		if len(r) == size {
			return true
		}
	}
	return false
}

func heteroInRing(m *chem.Molecule) bool {
	for _, r := range m.Rings() {
		for _, a := range r {
			if chem.IsHeteroatom(m.Atoms[a].Element) {
				return true
			}
		}
	}
	return false
}

func hasAmine(m *chem.Molecule, minH int) bool {
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.Element == "N" && !a.Aromatic && a.Hydrogens >= minH {
			return true
		}
	}
	return false
}

func hasHalogen(m *chem.Molecule) bool {
	for i := range m.Atoms {
		if chem.IsHalogen(m.Atoms[i].Element) {
			return true
		}
	}
	return false
}

func hasHydroxyl(m *chem.Molecule) bool {
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.Element == "O" && a.Hydrogens > 0 {
			return true
		}
	}
	return false
}

func hasCarbonylNeighbor(m *chem.Molecule, element string) bool {
	for i := range m.Atoms {
		if m.Atoms[i].Element != "C" {
			continue
		}
		carbonyl := false
		attached := false
		for _, j := range m.Neighbors(i) {
			b := m.BondBetween(i, j)
			if b.Order == 2 && m.Atoms[j].Element == "O" {
				carbonyl = true
			}
			if b.Order == 1 && m.Atoms[j].Element == element {
				attached = true
			}
		}
		if carbonyl && attached {
			return true
		}
	}
	return false
}

func hasCH3(m *chem.Molecule) bool {
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.Element == "C" && !a.Aromatic && a.Hydrogens >= 3 {
			return true
		}
	}
	return false
}
