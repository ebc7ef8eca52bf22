package fingerprint

import (
	"hash/fnv"
	"sort"

	"github.com/turtacn/DiverseMol/internal/domain/chem"
	"github.com/turtacn/DiverseMol/pkg/errors"
	feature "github.com/turtacn/DiverseMol/pkg/types/feature"
)

// ─────────────────────────────────────────────────────────────────────────────
// SECFP (SMILES Extended-Connectivity Fingerprint)
// ─────────────────────────────────────────────────────────────────────────────

// CalculateSECFP computes the SECFP fingerprint: for every atom the circular
// substructures of radius minRadius..radius are serialised as canonical
// shingle SMILES, optionally joined by the SSSR ring shingles, and each
// distinct shingle is hashed with the seed into the bit vector.
func CalculateSECFP(m *chem.Molecule, p feature.FingerprintParams) (*Fingerprint, error) {
	if p.NBits <= 0 {
		return nil, errors.InvalidParam("fingerprint width must be positive")
	}
	if p.MinRadius < 0 || p.Radius < p.MinRadius {
		return nil, errors.InvalidParam("invalid radius range for SECFP")
	}
	if m.NumAtoms() == 0 {
		return nil, errors.New(errors.CodeFingerprintFailed, "cannot fingerprint an empty molecule")
	}

	shingles := map[string]bool{}

	for i := 0; i < m.NumAtoms(); i++ {
		for r := p.MinRadius; r <= p.Radius; r++ {
			env := atomEnvironment(m, i, r)
			if len(env) == 0 {
				continue
			}
			sub := m.ExtractSubgraph(env)
			s := sub.ShingleSMILES(p.Isomeric, p.Kekulize)
			if s != "" {
				shingles[s] = true
			}
		}
	}

	if p.Rings {
		for _, ring := range m.Rings() {
			sub := m.ExtractSubgraph(ring)
			s := sub.ShingleSMILES(p.Isomeric, p.Kekulize)
			if s != "" {
				shingles[s] = true
			}
		}
	}

	fp := New(feature.FPSecfp, p.NBits)
	for s := range shingles {
		fp.SetBit(int(hashShingle(p.RandomSeed, s) % uint64(p.NBits)))
	}
	return fp, nil
}

// atomEnvironment returns the atoms within the given bond radius of center,
// sorted ascending so the subgraph extraction is deterministic.
func atomEnvironment(m *chem.Molecule, center, radius int) []int {
	dist := map[int]int{center: 0}
	queue := []int{center}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if dist[u] >= radius {
			continue
		}
		for _, v := range m.Neighbors(u) {
			if _, seen := dist[v]; !seen {
				dist[v] = dist[u] + 1
				queue = append(queue, v)
			}
		}
	}
	env := make([]int, 0, len(dist))
	for a := range dist {
		env = append(env, a)
	}
	sort.Ints(env)
	return env
}

// hashShingle folds the seed and a shingle string through FNV-1a.
func hashShingle(seed int64, shingle string) uint64 {
	h := fnv.New64a()
	writeUint64(h, uint64(seed))
	h.Write([]byte(shingle))
	return h.Sum64()
}
