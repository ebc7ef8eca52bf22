// Package fingerprint implements the molecular fingerprint encoders:
// circular (ECFP and the feature-based Morgan variant), SECFP substructure
// shingling, the path-based topological fingerprint, and the fixed 166-bit
// MACCS keys.  Fingerprints encode molecular structure as fixed-length bit
// vectors, enabling Tanimoto similarity calculations and binary-vector search
// in Milvus.
package fingerprint

import (
	"math/bits"

	feature "github.com/turtacn/DiverseMol/pkg/types/feature"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fingerprint Structure
// ─────────────────────────────────────────────────────────────────────────────

// Fingerprint is a molecular fingerprint as a packed bit vector.  Bit i lives
// in byte i/8 at position i%8.
type Fingerprint struct {
	// Kind identifies which encoder produced the fingerprint.
	Kind feature.FingerprintKind `json:"kind"`

	// Bits is the packed bit vector.
	Bits []byte `json:"bits"`

	// NumBits is the total number of bits.
	NumBits int `json:"num_bits"`

	// NumOnBits is the count of set bits (popcount).
	NumOnBits int `json:"num_on_bits"`
}

// New allocates an all-zero fingerprint of the given width.
func New(kind feature.FingerprintKind, numBits int) *Fingerprint {
	return &Fingerprint{
		Kind:    kind,
		Bits:    make([]byte, (numBits+7)/8),
		NumBits: numBits,
	}
}

// FromBytes wraps raw packed bits, recomputing the popcount.
func FromBytes(kind feature.FingerprintKind, data []byte, numBits int) *Fingerprint {
	on := 0
	for _, b := range data {
		on += bits.OnesCount8(b)
	}
	return &Fingerprint{Kind: kind, Bits: data, NumBits: numBits, NumOnBits: on}
}

// GetBit reports whether the bit at index is set.
func (fp *Fingerprint) GetBit(index int) bool {
	if index < 0 || index >= fp.NumBits {
		return false
	}
	return fp.Bits[index/8]&(1<<uint(index%8)) != 0
}

// SetBit sets the bit at index.
func (fp *Fingerprint) SetBit(index int) {
	if index < 0 || index >= fp.NumBits {
		return
	}
	old := fp.Bits[index/8]
	fp.Bits[index/8] |= 1 << uint(index%8)
	if old != fp.Bits[index/8] {
		fp.NumOnBits++
	}
}

// OnBits returns the indices of all set bits in ascending order.
func (fp *Fingerprint) OnBits() []int {
	out := make([]int, 0, fp.NumOnBits)
	for i := 0; i < fp.NumBits; i++ {
		if fp.GetBit(i) {
			out = append(out, i)
		}
	}
	return out
}

// AsRow unpacks the fingerprint into a dense 0/1 float row, one value per
// bit, suitable for a feature matrix.
func (fp *Fingerprint) AsRow() []float64 {
	row := make([]float64, fp.NumBits)
	for i := 0; i < fp.NumBits; i++ {
		if fp.GetBit(i) {
			row[i] = 1
		}
	}
	return row
}

// ToBytes returns the packed bit vector for storage or vector-DB insertion.
func (fp *Fingerprint) ToBytes() []byte {
	return fp.Bits
}
