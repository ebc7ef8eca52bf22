package descriptor

import (
	"github.com/turtacn/DiverseMol/internal/domain/chem"
)

// Fragment-count descriptors.  Each counts occurrences of a functional group
// by direct inspection of the molecular graph, the same hand-rolled pattern
// approach the MACCS keys use.

// doubleBondedNeighbors returns neighbours of atom i connected by a double
// bond with the given element.
func doubleBondedNeighbors(m *chem.Molecule, i int, element string) []int {
	var out []int
	for _, j := range m.Neighbors(i) {
		b := m.BondBetween(i, j)
		if b.Order == 2 && !b.Aromatic && m.Atoms[j].Element == element {
			out = append(out, j)
		}
	}
	return out
}

// singleBondedNeighbors returns neighbours of atom i connected by a plain
// single bond with the given element.
func singleBondedNeighbors(m *chem.Molecule, i int, element string) []int {
	var out []int
	for _, j := range m.Neighbors(i) {
		b := m.BondBetween(i, j)
		if b.Order == 1 && !b.Aromatic && m.Atoms[j].Element == element {
			out = append(out, j)
		}
	}
	return out
}

// isCarbonylCarbon reports whether atom i is a carbon with a C=O bond.
func isCarbonylCarbon(m *chem.Molecule, i int) bool {
	return m.Atoms[i].Element == "C" && len(doubleBondedNeighbors(m, i, "O")) > 0
}

// FrAlOH counts hydroxyl groups on non-aromatic carbons, excluding
// carboxylic acids.
func FrAlOH(m *chem.Molecule) float64 {
	n := 0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.Element != "O" || a.Hydrogens == 0 || m.Degree(i) != 1 {
			continue
		}
		j := m.Neighbors(i)[0]
		if m.Atoms[j].Element == "C" && !m.Atoms[j].Aromatic && !isCarbonylCarbon(m, j) {
			n++
		}
	}
	return float64(n)
}

// FrArOH counts hydroxyl groups attached to aromatic carbons.
func FrArOH(m *chem.Molecule) float64 {
	n := 0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.Element != "O" || a.Hydrogens == 0 || m.Degree(i) != 1 {
			continue
		}
		j := m.Neighbors(i)[0]
		if m.Atoms[j].Element == "C" && m.Atoms[j].Aromatic {
			n++
		}
	}
	return float64(n)
}

// FrPhenol counts aromatic-carbon hydroxyls (alias of the Ar-OH pattern,
// kept as its own column).
func FrPhenol(m *chem.Molecule) float64 {
	return FrArOH(m)
}

// FrCOO counts carboxyl groups: a carbonyl carbon with an additional
// single-bonded oxygen (acid or carboxylate).
func FrCOO(m *chem.Molecule) float64 {
	n := 0
	for i := range m.Atoms {
		if !isCarbonylCarbon(m, i) {
			continue
		}
		for _, j := range singleBondedNeighbors(m, i, "O") {
			if m.Atoms[j].Hydrogens > 0 || m.Atoms[j].Charge < 0 {
				n++
				break
			}
		}
	}
	return float64(n)
}

// FrCO counts carbonyl groups (every C=O bond).
func FrCO(m *chem.Molecule) float64 {
	n := 0
	for i := range m.Atoms {
		if m.Atoms[i].Element != "C" {
			continue
		}
		n += len(doubleBondedNeighbors(m, i, "O"))
	}
	return float64(n)
}

// amideNitrogen reports whether nitrogen atom i is bonded to a carbonyl
// carbon.
func amideNitrogen(m *chem.Molecule, i int) bool {
	for _, j := range m.Neighbors(i) {
		if isCarbonylCarbon(m, j) {
			return true
		}
	}
	return false
}

// FrNH2 counts primary amines (two hydrogens, not amide).
func FrNH2(m *chem.Molecule) float64 {
	n := 0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.Element == "N" && !a.Aromatic && a.Hydrogens >= 2 && !amideNitrogen(m, i) {
			n++
		}
	}
	return float64(n)
}

// FrNH1 counts secondary amines (one hydrogen, not amide).
func FrNH1(m *chem.Molecule) float64 {
	n := 0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.Element == "N" && !a.Aromatic && a.Hydrogens == 1 && !amideNitrogen(m, i) {
			n++
		}
	}
	return float64(n)
}

// FrNH0 counts tertiary amines (no hydrogen, not amide).
func FrNH0(m *chem.Molecule) float64 {
	n := 0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.Element == "N" && !a.Aromatic && a.Hydrogens == 0 && !amideNitrogen(m, i) {
			n++
		}
	}
	return float64(n)
}

// FrAmide counts amide groups (carbonyl carbon bonded to nitrogen).
func FrAmide(m *chem.Molecule) float64 {
	n := 0
	for i := range m.Atoms {
		if !isCarbonylCarbon(m, i) {
			continue
		}
		if len(singleBondedNeighbors(m, i, "N")) > 0 {
			n++
		}
	}
	return float64(n)
}

// FrEster counts ester groups: carbonyl carbon with a single-bonded oxygen
// that carries another carbon.
func FrEster(m *chem.Molecule) float64 {
	n := 0
	for i := range m.Atoms {
		if !isCarbonylCarbon(m, i) {
			continue
		}
		for _, j := range singleBondedNeighbors(m, i, "O") {
			for _, k := range m.Neighbors(j) {
				if k != i && m.Atoms[k].Element == "C" {
					n++
				}
			}
		}
	}
	return float64(n)
}

// FrEther counts oxygens single-bonded to two carbons.
func FrEther(m *chem.Molecule) float64 {
	n := 0
	for i := range m.Atoms {
		if m.Atoms[i].Element != "O" || m.Atoms[i].Aromatic {
			continue
		}
		if len(singleBondedNeighbors(m, i, "C")) == 2 {
			n++
		}
	}
	return float64(n)
}

// FrKetone counts carbonyl carbons with two carbon neighbours.
func FrKetone(m *chem.Molecule) float64 {
	n := 0
	for i := range m.Atoms {
		if !isCarbonylCarbon(m, i) {
			continue
		}
		carbons := 0
		for _, j := range m.Neighbors(i) {
			if m.Atoms[j].Element == "C" {
				carbons++
			}
		}
		if carbons == 2 {
			n++
		}
	}
	return float64(n)
}

// FrAldehyde counts carbonyl carbons carrying a hydrogen.
func FrAldehyde(m *chem.Molecule) float64 {
	n := 0
	for i := range m.Atoms {
		if isCarbonylCarbon(m, i) && m.Atoms[i].Hydrogens > 0 {
			n++
		}
	}
	return float64(n)
}

// FrNitrile counts C#N triple bonds.
func FrNitrile(m *chem.Molecule) float64 {
	n := 0
	for _, b := range m.Bonds {
		if b.Order != 3 {
			continue
		}
		e1, e2 := m.Atoms[b.From].Element, m.Atoms[b.To].Element
		if (e1 == "C" && e2 == "N") || (e1 == "N" && e2 == "C") {
			n++
		}
	}
	return float64(n)
}

// FrNitro counts nitro groups: nitrogen bonded to two oxygens with at least
// one double bond or anionic oxygen.
func FrNitro(m *chem.Molecule) float64 {
	n := 0
	for i := range m.Atoms {
		if m.Atoms[i].Element != "N" {
			continue
		}
		oxygens := 0
		polar := false
		for _, j := range m.Neighbors(i) {
			if m.Atoms[j].Element != "O" {
				continue
			}
			oxygens++
			b := m.BondBetween(i, j)
			if b.Order == 2 || m.Atoms[j].Charge < 0 {
				polar = true
			}
		}
		if oxygens >= 2 && polar {
			n++
		}
	}
	return float64(n)
}

// FrHalogen counts halogen atoms.
func FrHalogen(m *chem.Molecule) float64 {
	n := 0
	for i := range m.Atoms {
		if chem.IsHalogen(m.Atoms[i].Element) {
			n++
		}
	}
	return float64(n)
}

// FrAlkylHalide counts halogens attached to non-aromatic carbons.
func FrAlkylHalide(m *chem.Molecule) float64 {
	n := 0
	for i := range m.Atoms {
		if !chem.IsHalogen(m.Atoms[i].Element) || m.Degree(i) != 1 {
			continue
		}
		j := m.Neighbors(i)[0]
		if m.Atoms[j].Element == "C" && !m.Atoms[j].Aromatic {
			n++
		}
	}
	return float64(n)
}

// FrSulfide counts divalent sulfurs without double-bonded oxygens.
func FrSulfide(m *chem.Molecule) float64 {
	n := 0
	for i := range m.Atoms {
		if m.Atoms[i].Element != "S" || m.Atoms[i].Aromatic {
			continue
		}
		if m.Degree(i) == 2 && len(doubleBondedNeighbors(m, i, "O")) == 0 {
			n++
		}
	}
	return float64(n)
}

// FrSulfonamide counts S(=O)(=O)N groups.
func FrSulfonamide(m *chem.Molecule) float64 {
	n := 0
	for i := range m.Atoms {
		if m.Atoms[i].Element != "S" {
			continue
		}
		if len(doubleBondedNeighbors(m, i, "O")) >= 2 &&
			len(singleBondedNeighbors(m, i, "N")) > 0 {
			n++
		}
	}
	return float64(n)
}

// ringElementCount returns how many atoms of a ring are the given element.
func ringElementCount(m *chem.Molecule, r chem.Ring, element string) int {
	n := 0
	for _, a := range r {
		if m.Atoms[a].Element == element {
			n++
		}
	}
	return n
}

func ringAllAromatic(m *chem.Molecule, r chem.Ring) bool {
	for _, a := range r {
		if !m.Atoms[a].Aromatic {
			return false
		}
	}
	return true
}

// FrBenzene counts six-membered all-carbon aromatic rings.
func FrBenzene(m *chem.Molecule) float64 {
	n := 0
	for _, r := range m.Rings() {
		if len(r) == 6 && ringAllAromatic(m, r) && ringElementCount(m, r, "C") == 6 {
			n++
		}
	}
	return float64(n)
}

// FrPyridine counts six-membered aromatic rings with exactly one nitrogen.
func FrPyridine(m *chem.Molecule) float64 {
	n := 0
	for _, r := range m.Rings() {
		if len(r) == 6 && ringAllAromatic(m, r) &&
			ringElementCount(m, r, "N") == 1 && ringElementCount(m, r, "C") == 5 {
			n++
		}
	}
	return float64(n)
}

// FrImidazole counts five-membered aromatic rings with two nitrogens.
func FrImidazole(m *chem.Molecule) float64 {
	n := 0
	for _, r := range m.Rings() {
		if len(r) == 5 && ringAllAromatic(m, r) && ringElementCount(m, r, "N") == 2 {
			n++
		}
	}
	return float64(n)
}
