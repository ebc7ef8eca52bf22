package descriptor

import (
	"math"

	"github.com/turtacn/DiverseMol/internal/domain/chem"
)

// MolWt is the average molecular weight including implicit hydrogens.
func MolWt(m *chem.Molecule) float64 {
	return m.MolecularWeight()
}

// HeavyAtomCount is the number of non-hydrogen atoms.
func HeavyAtomCount(m *chem.Molecule) float64 {
	return float64(m.NumAtoms())
}

// HeavyAtomMolWt is the molecular weight ignoring hydrogens.
func HeavyAtomMolWt(m *chem.Molecule) float64 {
	w := 0.0
	for i := range m.Atoms {
		w += chem.AtomicWeight(m.Atoms[i].Element)
	}
	return w
}

// NumValenceElectrons sums atomic numbers minus core electrons; hydrogens
// contribute one each.
func NumValenceElectrons(m *chem.Molecule) float64 {
	total := 0
	for i := range m.Atoms {
		z := chem.AtomicNumber(m.Atoms[i].Element)
		switch {
		case z <= 2:
			total += z
		case z <= 10:
			total += z - 2
		case z <= 18:
			total += z - 10
		case z <= 36:
			total += z - 18
		case z <= 54:
			total += z - 36
		default:
			total += z - 54
		}
		total += m.Atoms[i].Hydrogens
	}
	return float64(total)
}

// NumHeteroatoms counts atoms that are neither carbon nor hydrogen.
func NumHeteroatoms(m *chem.Molecule) float64 {
	n := 0
	for i := range m.Atoms {
		if chem.IsHeteroatom(m.Atoms[i].Element) {
			n++
		}
	}
	return float64(n)
}

// NumHDonors counts N and O atoms bearing at least one hydrogen.
func NumHDonors(m *chem.Molecule) float64 {
	n := 0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if (a.Element == "N" || a.Element == "O") && a.Hydrogens > 0 {
			n++
		}
	}
	return float64(n)
}

// NumHAcceptors counts N and O atoms excluding positively charged ones.
func NumHAcceptors(m *chem.Molecule) float64 {
	n := 0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if (a.Element == "N" || a.Element == "O") && a.Charge <= 0 {
			n++
		}
	}
	return float64(n)
}

// NumRotatableBonds counts non-ring, non-terminal single bonds.
func NumRotatableBonds(m *chem.Molecule) float64 {
	return float64(m.NumRotatableBonds())
}

// RingCount is the SSSR ring count.
func RingCount(m *chem.Molecule) float64 {
	return float64(m.RingCount())
}

// NumAromaticRings counts SSSR rings whose atoms are all aromatic.
func NumAromaticRings(m *chem.Molecule) float64 {
	return float64(m.AromaticRingCount())
}

// NumSaturatedRings counts SSSR rings containing only single, non-aromatic
// bonds.
func NumSaturatedRings(m *chem.Molecule) float64 {
	n := 0
	for _, r := range m.Rings() {
		saturated := true
		for k := range r {
			b := m.BondBetween(r[k], r[(k+1)%len(r)])
			if b == nil || b.Order != 1 || b.Aromatic {
				saturated = false
				break
			}
		}
		if saturated {
			n++
		}
	}
	return float64(n)
}

// FractionCSP3 is the fraction of carbons that are sp3 (no double/triple or
// aromatic bonds).
func FractionCSP3(m *chem.Molecule) float64 {
	carbons, sp3 := 0, 0
	for i := range m.Atoms {
		if m.Atoms[i].Element != "C" {
			continue
		}
		carbons++
		if m.Atoms[i].Aromatic {
			continue
		}
		saturated := true
		for _, j := range m.Neighbors(i) {
			b := m.BondBetween(i, j)
			if b.Order > 1 || b.Aromatic {
				saturated = false
				break
			}
		}
		if saturated {
			sp3++
		}
	}
	if carbons == 0 {
		return 0
	}
	return float64(sp3) / float64(carbons)
}

// TPSA sums Ertl-style polar surface contributions for N, O, and S atoms.
func TPSA(m *chem.Molecule) float64 {
	total := 0.0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		hasDouble := false
		for _, j := range m.Neighbors(i) {
			if b := m.BondBetween(i, j); b.Order == 2 {
				hasDouble = true
			}
		}
		switch a.Element {
		case "N":
			switch {
			case a.Aromatic && a.Hydrogens > 0:
				total += 15.79
			case a.Aromatic:
				total += 12.89
			case a.Hydrogens >= 2:
				total += 26.02
			case a.Hydrogens == 1:
				total += 12.03
			default:
				total += 3.24
			}
		case "O":
			switch {
			case a.Aromatic:
				total += 13.14
			case hasDouble:
				total += 17.07
			case a.Hydrogens > 0:
				total += 20.23
			default:
				total += 9.23
			}
		case "S":
			switch {
			case a.Hydrogens > 0:
				total += 38.80
			case hasDouble:
				total += 32.09
			default:
				total += 25.30
			}
		}
	}
	return total
}

// Coarse Crippen-style atomic logP contributions.
var logPContrib = map[string]float64{
	"C": 0.141, "N": -0.600, "O": -0.411, "S": 0.255, "P": 0.286,
	"F": 0.224, "Cl": 0.633, "Br": 0.815, "I": 1.084, "B": 0.180,
}

// MolLogP sums coarse atomic contributions; aromatic carbons weigh more and
// each implicit hydrogen adds a small positive term.
func MolLogP(m *chem.Molecule) float64 {
	total := 0.0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		c := logPContrib[a.Element]
		if a.Element == "C" && a.Aromatic {
			c = 0.294
		}
		total += c
		total += float64(a.Hydrogens) * 0.123
	}
	return total
}

// Coarse atomic molar refractivity contributions.
var mrContrib = map[string]float64{
	"C": 2.503, "N": 2.134, "O": 1.580, "S": 7.365, "P": 6.920,
	"F": 1.108, "Cl": 5.853, "Br": 8.927, "I": 14.02, "B": 3.540,
}

// MolMR sums coarse atomic molar refractivity contributions.
func MolMR(m *chem.Molecule) float64 {
	total := 0.0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		c := mrContrib[a.Element]
		if a.Element == "C" && a.Aromatic {
			c = 3.509
		}
		total += c
		total += float64(a.Hydrogens) * 1.057
	}
	return total
}

// Chi0 is the zeroth-order connectivity index: sum of 1/sqrt(degree) over
// heavy atoms.
func Chi0(m *chem.Molecule) float64 {
	total := 0.0
	for i := range m.Atoms {
		d := m.Degree(i)
		if d > 0 {
			total += 1 / math.Sqrt(float64(d))
		} else {
			total += 1
		}
	}
	return total
}

// Chi1 is the first-order connectivity index: sum of 1/sqrt(di*dj) over
// bonds.
func Chi1(m *chem.Molecule) float64 {
	total := 0.0
	for _, b := range m.Bonds {
		di, dj := m.Degree(b.From), m.Degree(b.To)
		if di > 0 && dj > 0 {
			total += 1 / math.Sqrt(float64(di*dj))
		}
	}
	return total
}

// distanceMatrix computes all-pairs shortest topological distances by BFS.
// Unreachable pairs stay at -1.
func distanceMatrix(m *chem.Molecule) [][]int {
	n := m.NumAtoms()
	dist := make([][]int, n)
	for src := 0; src < n; src++ {
		row := make([]int, n)
		for i := range row {
			row[i] = -1
		}
		row[src] = 0
		queue := []int{src}
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, v := range m.Neighbors(u) {
				if row[v] < 0 {
					row[v] = row[u] + 1
					queue = append(queue, v)
				}
			}
		}
		dist[src] = row
	}
	return dist
}

// BalabanJ is the Balaban distance connectivity index.
func BalabanJ(m *chem.Molecule) float64 {
	n := m.NumAtoms()
	e := m.NumBonds()
	if n < 2 || e == 0 {
		return 0
	}
	dist := distanceMatrix(m)
	rowSums := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if dist[i][j] > 0 {
				rowSums[i] += float64(dist[i][j])
			}
		}
	}
	gamma := float64(e - n + 1) // cyclomatic number, single component
	total := 0.0
	for _, b := range m.Bonds {
		si, sj := rowSums[b.From], rowSums[b.To]
		if si > 0 && sj > 0 {
			total += 1 / math.Sqrt(si*sj)
		}
	}
	return float64(e) / (gamma + 1) * total
}

// BertzCT is a simplified Bertz complexity: bond-count term plus Shannon
// information over atom equivalence classes (element and degree).
func BertzCT(m *chem.Molecule) float64 {
	n := m.NumAtoms()
	if n == 0 {
		return 0
	}
	classes := map[[2]interface{}]int{}
	for i := range m.Atoms {
		key := [2]interface{}{m.Atoms[i].Element, m.Degree(i)}
		classes[key]++
	}
	info := 0.0
	for _, count := range classes {
		p := float64(count) / float64(n)
		info -= p * math.Log2(p)
	}
	e := float64(m.NumBonds())
	bondTerm := 0.0
	if e > 0 {
		bondTerm = 2 * e * math.Log2(e+1)
	}
	return bondTerm + float64(n)*info
}

// Hall–Kier alpha contributions per element.
var alphaContrib = map[string]float64{
	"C": 0.0, "N": -0.04, "O": -0.20, "F": -0.07, "Cl": 0.29,
	"Br": 0.48, "I": 0.73, "S": 0.35, "P": 0.43,
}

// HallKierAlpha sums the Hall–Kier alpha contributions of heavy atoms.
func HallKierAlpha(m *chem.Molecule) float64 {
	total := 0.0
	for i := range m.Atoms {
		total += alphaContrib[m.Atoms[i].Element]
	}
	return total
}

// Kappa1 is the first kappa shape index with alpha correction.
func Kappa1(m *chem.Molecule) float64 {
	a := float64(m.NumAtoms()) + HallKierAlpha(m)
	p1 := float64(m.NumBonds()) + HallKierAlpha(m)
	if p1 <= 0 {
		return 0
	}
	return a * (a - 1) * (a - 1) / (p1 * p1)
}

// Kappa2 is the second kappa shape index using two-bond path counts.
func Kappa2(m *chem.Molecule) float64 {
	alpha := HallKierAlpha(m)
	a := float64(m.NumAtoms()) + alpha
	p2 := 0.0
	for i := range m.Atoms {
		d := float64(m.Degree(i))
		p2 += d * (d - 1) / 2
	}
	p2 += alpha
	if p2 <= 0 {
		return 0
	}
	return (a - 1) * (a - 2) * (a - 2) / (p2 * p2)
}
