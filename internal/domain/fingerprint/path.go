package fingerprint

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/turtacn/DiverseMol/internal/domain/chem"
	"github.com/turtacn/DiverseMol/pkg/errors"
	feature "github.com/turtacn/DiverseMol/pkg/types/feature"
)

// ─────────────────────────────────────────────────────────────────────────────
// Path-Based Topological Fingerprint
// ─────────────────────────────────────────────────────────────────────────────

// Path enumeration bounds for the topological fingerprint.
const (
	minPathLength = 1
	maxPathLength = 10

	// bitsPerHash is how many bits each distinct path sets.
	bitsPerHash = 2
)

// CalculateRDK computes the path-based topological fingerprint: every simple
// bond path of length 1 to 10 is serialised, the lexically smaller of the
// forward and reverse renditions is hashed, and each distinct path sets two
// bits.
func CalculateRDK(m *chem.Molecule, nBits int) (*Fingerprint, error) {
	if nBits <= 0 {
		return nil, errors.InvalidParam("fingerprint width must be positive")
	}
	if m.NumAtoms() == 0 {
		return nil, errors.New(errors.CodeFingerprintFailed, "cannot fingerprint an empty molecule")
	}

	paths := map[string]bool{}
	for start := 0; start < m.NumAtoms(); start++ {
		visited := make([]bool, m.NumAtoms())
		visited[start] = true
		enumeratePaths(m, start, []int{start}, visited, paths)
	}

	fp := New(feature.FPRDKit, nBits)
	for p := range paths {
		h := fnv.New64a()
		h.Write([]byte(p))
		v := h.Sum64()
		for k := 0; k < bitsPerHash; k++ {
			fp.SetBit(int((v + uint64(k)*0x9e3779b97f4a7c15) % uint64(nBits)))
		}
	}
	return fp, nil
}

// enumeratePaths walks simple paths depth-first, recording each path of
// acceptable bond length in canonical orientation.
func enumeratePaths(m *chem.Molecule, at int, path []int, visited []bool, out map[string]bool) {
	bondLen := len(path) - 1
	if bondLen >= minPathLength {
		out[canonicalPathString(m, path)] = true
	}
	if bondLen >= maxPathLength {
		return
	}
	for _, v := range m.Neighbors(at) {
		if visited[v] {
			continue
		}
		visited[v] = true
		enumeratePaths(m, v, append(path, v), visited, out)
		visited[v] = false
	}
}

// canonicalPathString renders a path as alternating atom and bond tokens,
// using whichever direction compares smaller so a path and its reverse map
// to the same string.
func canonicalPathString(m *chem.Molecule, path []int) string {
	fwd := renderPath(m, path)
	rev := make([]int, len(path))
	for i, a := range path {
		rev[len(path)-1-i] = a
	}
	if r := renderPath(m, rev); r < fwd {
		return r
	}
	return fwd
}

func renderPath(m *chem.Molecule, path []int) string {
	var sb strings.Builder
	for i, a := range path {
		if i > 0 {
			b := m.BondBetween(path[i-1], a)
			switch {
			case b.Aromatic:
				sb.WriteByte(':')
			case b.Order == 2:
				sb.WriteByte('=')
			case b.Order == 3:
				sb.WriteByte('#')
			default:
				sb.WriteByte('-')
			}
		}
		atom := &m.Atoms[a]
		if atom.Aromatic {
			sb.WriteString(strings.ToLower(atom.Element))
		} else {
			sb.WriteString(atom.Element)
		}
		fmt.Fprintf(&sb, "%d", m.Degree(a))
	}
	return sb.String()
}
