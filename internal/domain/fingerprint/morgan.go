package fingerprint

import (
	"encoding/binary"
	"hash/fnv"
	"sort"

	"github.com/turtacn/DiverseMol/internal/domain/chem"
	"github.com/turtacn/DiverseMol/pkg/errors"
	feature "github.com/turtacn/DiverseMol/pkg/types/feature"
)

// ─────────────────────────────────────────────────────────────────────────────
// Circular (Morgan / ECFP) Fingerprints
// ─────────────────────────────────────────────────────────────────────────────

// CalculateECFP computes the extended-connectivity fingerprint with
// structural atom invariants.  With isomeric set, the initial invariants
// include the chirality tag so enantiomers hash apart.
func CalculateECFP(m *chem.Molecule, radius, nBits int, isomeric bool) (*Fingerprint, error) {
	return circularFingerprint(m, feature.FPEcfp, radius, nBits, func(i int) uint64 {
		return structuralInvariant(m, i, isomeric)
	})
}

// CalculateMorgan computes the feature-based circular variant, seeding each
// atom with a pharmacophoric class instead of its structural invariant.
// Isomeric mixes the chirality tag into the seed, as in CalculateECFP.
func CalculateMorgan(m *chem.Molecule, radius, nBits int, isomeric bool) (*Fingerprint, error) {
	return circularFingerprint(m, feature.FPMorgan, radius, nBits, func(i int) uint64 {
		return featureInvariant(m, i, isomeric)
	})
}

// circularFingerprint runs the iterative neighborhood hashing shared by both
// circular variants.  Each atom contributes one environment hash per radius
// level; duplicate (radius, hash) environments set the same bit once.
func circularFingerprint(m *chem.Molecule, kind feature.FingerprintKind, radius, nBits int, seed func(int) uint64) (*Fingerprint, error) {
	if radius < 0 {
		return nil, errors.InvalidParam("fingerprint radius cannot be negative")
	}
	if nBits <= 0 {
		return nil, errors.InvalidParam("fingerprint width must be positive")
	}
	if m.NumAtoms() == 0 {
		return nil, errors.New(errors.CodeFingerprintFailed, "cannot fingerprint an empty molecule")
	}

	fp := New(kind, nBits)

	n := m.NumAtoms()
	invariants := make([]uint64, n)
	for i := 0; i < n; i++ {
		invariants[i] = seed(i)
		fp.SetBit(int(invariants[i] % uint64(nBits)))
	}

	for r := 1; r <= radius; r++ {
		next := make([]uint64, n)
		for i := 0; i < n; i++ {
			// Neighbour contributions sorted for order independence.
			contribs := make([]uint64, 0, m.Degree(i))
			for _, j := range m.Neighbors(i) {
				b := m.BondBetween(i, j)
				order := uint64(b.Order)
				if b.Aromatic {
					order = 4
				}
				contribs = append(contribs, order<<56^invariants[j])
			}
			sort.Slice(contribs, func(a, b int) bool { return contribs[a] < contribs[b] })

			h := fnv.New64a()
			writeUint64(h, uint64(r))
			writeUint64(h, invariants[i])
			for _, c := range contribs {
				writeUint64(h, c)
			}
			next[i] = h.Sum64()
			fp.SetBit(int(next[i] % uint64(nBits)))
		}
		invariants = next
	}
	return fp, nil
}

// structuralInvariant hashes the Daylight-style initial atom invariant:
// atomic number, degree, hydrogen count, charge, aromaticity, ring
// membership, and optionally the chirality tag.
func structuralInvariant(m *chem.Molecule, i int, isomeric bool) uint64 {
	a := &m.Atoms[i]
	h := fnv.New64a()
	writeUint64(h, uint64(chem.AtomicNumber(a.Element)))
	writeUint64(h, uint64(m.Degree(i)))
	writeUint64(h, uint64(a.Hydrogens))
	writeUint64(h, uint64(int64(a.Charge)+16))
	writeBool(h, a.Aromatic)
	writeBool(h, m.IsAtomInRing(i))
	if isomeric {
		h.Write([]byte(a.Chirality))
	}
	return h.Sum64()
}

// featureInvariant maps an atom to its pharmacophoric feature class: donor,
// acceptor, aromatic, halogen, basic, acidic.  Atoms sharing a class seed
// identically, which is what makes the variant feature-based.  With isomeric
// set the chirality tag is hashed in so enantiomers still seed apart.
func featureInvariant(m *chem.Molecule, i int, isomeric bool) uint64 {
	a := &m.Atoms[i]
	var class uint64
	if (a.Element == "N" || a.Element == "O") && a.Hydrogens > 0 {
		class |= 1 << 0 // donor
	}
	if (a.Element == "N" || a.Element == "O") && a.Charge <= 0 {
		class |= 1 << 1 // acceptor
	}
	if a.Aromatic {
		class |= 1 << 2
	}
	if chem.IsHalogen(a.Element) {
		class |= 1 << 3
	}
	if a.Charge > 0 {
		class |= 1 << 4 // basic
	}
	if a.Charge < 0 {
		class |= 1 << 5 // acidic
	}
	h := fnv.New64a()
	writeUint64(h, class)
	if isomeric {
		h.Write([]byte(a.Chirality))
	}
	return h.Sum64()
}

func writeUint64(h interface{ Write([]byte) (int, error) }, v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}

func writeBool(h interface{ Write([]byte) (int, error) }, v bool) {
	if v {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
}
