package chem

import "sort"

// Ring is a cycle in the molecular graph, stored as an ordered atom index
// slice (each consecutive pair, plus last-first, is bonded).
type Ring []int

// Rings returns the smallest set of smallest rings, computed as a cycle
// basis: for every non-tree bond of a BFS spanning forest, the shortest path
// between its endpoints closes one ring.  The result is cached.
func (m *Molecule) Rings() []Ring {
	if m.rings != nil {
		return m.rings
	}
	m.buildAdjacency()

	n := len(m.Atoms)
	inTree := make([]bool, len(m.Bonds))
	parent := make([]int, n)
	visited := make([]bool, n)
	for i := range parent {
		parent[i] = -1
	}

	// BFS spanning forest, marking tree bonds.
	for root := 0; root < n; root++ {
		if visited[root] {
			continue
		}
		visited[root] = true
		queue := []int{root}
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, v := range m.adjacency[u] {
				if visited[v] {
					continue
				}
				visited[v] = true
				parent[v] = u
				lo, hi := u, v
				if lo > hi {
					lo, hi = hi, lo
				}
				inTree[m.bondIndex[[2]int{lo, hi}]] = true
				queue = append(queue, v)
			}
		}
	}

	rings := []Ring{}
	for k, b := range m.Bonds {
		if inTree[k] {
			continue
		}
		if path := m.shortestPathExcluding(b.From, b.To, k); path != nil {
			rings = append(rings, Ring(path))
		}
	}

	// Smallest rings first so descriptor code can prefer them.
	sort.Slice(rings, func(i, j int) bool { return len(rings[i]) < len(rings[j]) })
	m.rings = rings
	return rings
}

// shortestPathExcluding finds the shortest atom path from src to dst without
// traversing bond excludeBond.  Closing that bond yields the ring.
func (m *Molecule) shortestPathExcluding(src, dst, excludeBond int) []int {
	n := len(m.Atoms)
	prev := make([]int, n)
	seen := make([]bool, n)
	for i := range prev {
		prev[i] = -1
	}
	seen[src] = true
	queue := []int{src}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if u == dst {
			path := []int{}
			for at := dst; at != -1; at = prev[at] {
				path = append(path, at)
			}
			// Reverse into src→dst order.
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}
		for _, v := range m.adjacency[u] {
			lo, hi := u, v
			if lo > hi {
				lo, hi = hi, lo
			}
			if m.bondIndex[[2]int{lo, hi}] == excludeBond {
				continue
			}
			if !seen[v] {
				seen[v] = true
				prev[v] = u
				queue = append(queue, v)
			}
		}
	}
	return nil
}

// RingCount returns the number of SSSR rings.
func (m *Molecule) RingCount() int {
	return len(m.Rings())
}

// IsAtomInRing reports whether atom i participates in any SSSR ring.
func (m *Molecule) IsAtomInRing(i int) bool {
	for _, r := range m.Rings() {
		for _, a := range r {
			if a == i {
				return true
			}
		}
	}
	return false
}

// IsBondInRing reports whether the bond between atoms i and j lies on a ring.
func (m *Molecule) IsBondInRing(i, j int) bool {
	for _, r := range m.Rings() {
		for k := range r {
			a, b := r[k], r[(k+1)%len(r)]
			if (a == i && b == j) || (a == j && b == i) {
				return true
			}
		}
	}
	return false
}

// AromaticRingCount returns the number of SSSR rings whose atoms are all
// aromatic.
func (m *Molecule) AromaticRingCount() int {
	count := 0
	for _, r := range m.Rings() {
		aromatic := true
		for _, a := range r {
			if !m.Atoms[a].Aromatic {
				aromatic = false
				break
			}
		}
		if aromatic {
			count++
		}
	}
	return count
}

// NumRotatableBonds counts non-ring single bonds whose endpoints both have
// degree greater than one (terminal bonds do not rotate anything).
func (m *Molecule) NumRotatableBonds() int {
	count := 0
	for _, b := range m.Bonds {
		if b.Order != 1 || b.Aromatic {
			continue
		}
		if m.IsBondInRing(b.From, b.To) {
			continue
		}
		if m.Degree(b.From) > 1 && m.Degree(b.To) > 1 {
			count++
		}
	}
	return count
}
