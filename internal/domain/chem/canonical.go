package chem

import (
	"fmt"
	"sort"
	"strings"
)

// CanonicalSMILES writes a deterministic SMILES rendition of the molecule.
// Atom ordering follows Morgan-style iterative rank refinement, so any two
// graphs that parse to the same structure serialise identically regardless
// of input atom order.  The writer emits bracket atoms whenever charge,
// isotope, chirality, or an unusual hydrogen count must be preserved.
func (m *Molecule) CanonicalSMILES() string {
	return m.writeSMILES(true)
}

// writeSMILES serialises the molecule; isomeric=false drops chirality tags.
func (m *Molecule) writeSMILES(isomeric bool) string {
	return m.writeSMILESOpts(isomeric, false)
}

// ShingleSMILES serialises the molecule for substructure shingling.  With
// kekulize set, aromatic atoms are written as plain uppercase symbols so that
// shingles from aromatic and kekulised inputs hash apart.
func (m *Molecule) ShingleSMILES(isomeric, kekulize bool) string {
	return m.writeSMILESOpts(isomeric, kekulize)
}

func (m *Molecule) writeSMILESOpts(isomeric, kekulize bool) string {
	if len(m.Atoms) == 0 {
		return ""
	}
	ranks := m.canonicalRanks()
	w := &smilesWriter{mol: m, ranks: ranks, isomeric: isomeric, kekulize: kekulize}
	return w.write()
}

// canonicalRanks computes a deterministic rank per atom by iterative
// refinement of an initial invariant (element, aromaticity, degree, charge,
// hydrogen count) with the sorted ranks of each atom's neighbours.
func (m *Molecule) canonicalRanks() []int {
	m.buildAdjacency()
	n := len(m.Atoms)

	keys := make([]string, n)
	for i, a := range m.Atoms {
		keys[i] = fmt.Sprintf("%s|%t|%d|%d|%d", a.Element, a.Aromatic, m.Degree(i), a.Charge, a.Hydrogens)
	}
	ranks := ranksFromKeys(keys)

	for iter := 0; iter < n; iter++ {
		next := make([]string, n)
		for i := range m.Atoms {
			neigh := make([]string, 0, len(m.adjacency[i]))
			for _, j := range m.adjacency[i] {
				b := m.BondBetween(i, j)
				order := b.Order
				if b.Aromatic {
					order = 4
				}
				neigh = append(neigh, fmt.Sprintf("%d:%d", order, ranks[j]))
			}
			sort.Strings(neigh)
			next[i] = fmt.Sprintf("%d|%s", ranks[i], strings.Join(neigh, ","))
		}
		newRanks := ranksFromKeys(next)
		if equalInts(newRanks, ranks) {
			break
		}
		ranks = newRanks
	}
	return ranks
}

func ranksFromKeys(keys []string) []int {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	pos := make(map[string]int, len(sorted))
	for i, k := range sorted {
		if _, ok := pos[k]; !ok {
			pos[k] = i
		}
	}
	ranks := make([]int, len(keys))
	for i, k := range keys {
		ranks[i] = pos[k]
	}
	return ranks
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ─────────────────────────────────────────────────────────────────────────────
// Writer
// ─────────────────────────────────────────────────────────────────────────────

type smilesWriter struct {
	mol      *Molecule
	ranks    []int
	isomeric bool
	kekulize bool

	visited    []bool
	ringNum    int
	ringLabels map[[2]int]int // ring bond endpoints → closure number
	ringBonds  map[[2]int]bool
	ringEmits  map[[2]int]int // how many endpoints have written the digit
	sb         strings.Builder
}

func (w *smilesWriter) write() string {
	m := w.mol
	n := len(m.Atoms)
	w.visited = make([]bool, n)
	w.ringLabels = make(map[[2]int]int)
	w.ringBonds = make(map[[2]int]bool)
	w.ringEmits = make(map[[2]int]int)

	// Fragment roots: unvisited atom with lowest (rank, index).
	first := true
	for {
		root := -1
		for i := 0; i < n; i++ {
			if w.visited[i] {
				continue
			}
			if root < 0 || w.ranks[i] < w.ranks[root] {
				root = i
			}
		}
		if root < 0 {
			break
		}
		if !first {
			w.sb.WriteByte('.')
		}
		first = false
		w.assignRingClosures(root, -1, map[[2]int]bool{})
		w.walk(root, -1)
		// Reset visited tracking is shared; ring labels persist per fragment.
	}
	return w.sb.String()
}

// assignRingClosures does a DFS marking back edges with ring closure numbers
// before the writing pass.
func (w *smilesWriter) assignRingClosures(at, from int, seenBonds map[[2]int]bool) {
	m := w.mol
	mark := make([]bool, len(m.Atoms))
	var dfs func(u, parent int)
	dfs = func(u, parent int) {
		mark[u] = true
		for _, v := range w.sortedNeighbors(u) {
			if v == parent {
				continue
			}
			key := bondKey(u, v)
			if seenBonds[key] {
				continue
			}
			if mark[v] {
				if _, ok := w.ringLabels[key]; !ok {
					w.ringNum++
					w.ringLabels[key] = w.ringNum
					w.ringBonds[key] = true
				}
				seenBonds[key] = true
				continue
			}
			seenBonds[key] = true
			dfs(v, u)
		}
	}
	dfs(at, from)
}

func bondKey(i, j int) [2]int {
	if i > j {
		i, j = j, i
	}
	return [2]int{i, j}
}

// sortedNeighbors orders neighbours by canonical rank then index so that the
// traversal is deterministic.
func (w *smilesWriter) sortedNeighbors(u int) []int {
	neigh := append([]int(nil), w.mol.Neighbors(u)...)
	sort.Slice(neigh, func(a, b int) bool {
		ra, rb := w.ranks[neigh[a]], w.ranks[neigh[b]]
		if ra != rb {
			return ra < rb
		}
		return neigh[a] < neigh[b]
	})
	return neigh
}

func (w *smilesWriter) walk(u, parent int) {
	w.visited[u] = true
	w.writeAtom(u)

	// Ring closure digits: each ring bond writes its number at both
	// endpoints, once per endpoint.
	for _, v := range w.sortedNeighbors(u) {
		key := bondKey(u, v)
		num, ok := w.ringLabels[key]
		if !ok || w.ringEmits[key] >= 2 {
			continue
		}
		w.writeBondSymbol(u, v)
		w.writeRingNum(num)
		w.ringEmits[key]++
	}

	children := []int{}
	for _, v := range w.sortedNeighbors(u) {
		if v == parent || w.visited[v] {
			continue
		}
		if w.ringBonds[bondKey(u, v)] {
			continue
		}
		children = append(children, v)
	}
	for i, v := range children {
		if i < len(children)-1 {
			w.sb.WriteByte('(')
		}
		w.writeBondSymbol(u, v)
		w.walk(v, u)
		if i < len(children)-1 {
			w.sb.WriteByte(')')
		}
	}
}

func (w *smilesWriter) writeRingNum(num int) {
	if num < 10 {
		fmt.Fprintf(&w.sb, "%d", num)
	} else {
		fmt.Fprintf(&w.sb, "%%%02d", num)
	}
}

func (w *smilesWriter) writeBondSymbol(u, v int) {
	b := w.mol.BondBetween(u, v)
	if b == nil || b.Aromatic {
		return
	}
	switch b.Order {
	case 2:
		w.sb.WriteByte('=')
	case 3:
		w.sb.WriteByte('#')
	}
}

// organicSubset lists elements writable without brackets.
var organicSubset = map[string]bool{
	"B": true, "C": true, "N": true, "O": true, "P": true,
	"S": true, "F": true, "Cl": true, "Br": true, "I": true,
}

func (w *smilesWriter) writeAtom(i int) {
	a := w.mol.Atoms[i]
	symbol := a.Element
	if a.Aromatic && !w.kekulize {
		symbol = strings.ToLower(symbol)
	}

	needsBracket := a.Charge != 0 || a.Isotope != 0 ||
		(w.isomeric && a.Chirality != ChiralityNone) ||
		!organicSubset[a.Element] ||
		(a.Aromatic && a.Element == "N" && a.Hydrogens > 0)

	if !needsBracket {
		w.sb.WriteString(symbol)
		return
	}

	w.sb.WriteByte('[')
	if a.Isotope != 0 {
		fmt.Fprintf(&w.sb, "%d", a.Isotope)
	}
	w.sb.WriteString(symbol)
	if w.isomeric && a.Chirality != ChiralityNone {
		w.sb.WriteString(string(a.Chirality))
	}
	if a.Hydrogens == 1 {
		w.sb.WriteByte('H')
	} else if a.Hydrogens > 1 {
		fmt.Fprintf(&w.sb, "H%d", a.Hydrogens)
	}
	switch {
	case a.Charge == 1:
		w.sb.WriteByte('+')
	case a.Charge == -1:
		w.sb.WriteByte('-')
	case a.Charge > 1:
		fmt.Fprintf(&w.sb, "+%d", a.Charge)
	case a.Charge < -1:
		fmt.Fprintf(&w.sb, "-%d", -a.Charge)
	}
	w.sb.WriteByte(']')
}

// ─────────────────────────────────────────────────────────────────────────────
// Subgraph extraction (used by the SECFP shingle writer)
// ─────────────────────────────────────────────────────────────────────────────

// ExtractSubgraph builds a new Molecule from the given atom indices, keeping
// every bond whose endpoints are both included.  Atom properties are copied.
func (m *Molecule) ExtractSubgraph(atomIdx []int) *Molecule {
	remap := make(map[int]int, len(atomIdx))
	atoms := make([]Atom, 0, len(atomIdx))
	for newIdx, oldIdx := range atomIdx {
		remap[oldIdx] = newIdx
		atoms = append(atoms, m.Atoms[oldIdx])
	}
	bonds := []Bond{}
	for _, b := range m.Bonds {
		f, okF := remap[b.From]
		t, okT := remap[b.To]
		if okF && okT {
			bonds = append(bonds, Bond{From: f, To: t, Order: b.Order, Aromatic: b.Aromatic})
		}
	}
	sub := &Molecule{Atoms: atoms, Bonds: bonds}
	return sub
}
