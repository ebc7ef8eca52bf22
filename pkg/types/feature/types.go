// Package feature defines the feature-generation data types shared across
// every layer of DiverseMol: descriptor-set and fingerprint selectors, their
// tunable parameters, and the tabular feature matrix produced by the
// generators.  No domain logic lives here, only plain data types that are
// safe to import from any layer without creating circular dependencies.
package feature

import (
	"strings"

	"github.com/turtacn/DiverseMol/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// DescriptorSet — descriptor backend selector
// ─────────────────────────────────────────────────────────────────────────────

// DescriptorSet selects which descriptor backend computes the table.
// Selector strings are matched case-insensitively.
type DescriptorSet string

const (
	// DescriptorsMordred is the full built-in registry, including the
	// geometry (3D) descriptors that require atomic coordinates.
	DescriptorsMordred DescriptorSet = "mordred"

	// DescriptorsPadel delegates to the external PaDEL descriptor tool,
	// exchanging molecules through a transient SDF file.
	DescriptorsPadel DescriptorSet = "padel"

	// DescriptorsRDKit is the 2D registry with optional fragment-count block
	// and the averaged-Ipc variant.
	DescriptorsRDKit DescriptorSet = "rdkit"

	// DescriptorsRDKitFragment is the fragment-count-only subset of the
	// rdkit registry (the fr_* tail).
	DescriptorsRDKitFragment DescriptorSet = "rdkit_frag"
)

// String returns the selector string.
func (d DescriptorSet) String() string { return string(d) }

// ParseDescriptorSet normalises a selector string to a DescriptorSet.
// Matching is case-insensitive; an unrecognised selector yields a validation
// error naming the offending string.
func ParseDescriptorSet(s string) (DescriptorSet, error) {
	switch strings.ToLower(s) {
	case string(DescriptorsMordred):
		return DescriptorsMordred, nil
	case string(DescriptorsPadel):
		return DescriptorsPadel, nil
	case string(DescriptorsRDKit):
		return DescriptorsRDKit, nil
	case string(DescriptorsRDKitFragment):
		return DescriptorsRDKitFragment, nil
	}
	return "", errors.Newf(errors.CodeDescriptorSetUnknown, "unknown descriptor type %s", s)
}

// ─────────────────────────────────────────────────────────────────────────────
// FingerprintKind — fingerprint encoding selector
// ─────────────────────────────────────────────────────────────────────────────

// FingerprintKind selects the fingerprint encoding.  Family membership is
// validated on the upper-cased selector; the canonical spellings below are
// what the low-level dispatch switches on.
type FingerprintKind string

const (
	// FPSecfp is the SMILES extended-connectivity fingerprint: circular
	// substructure and ring shingles folded MinHash-style into n_bits.
	FPSecfp FingerprintKind = "SECFP"

	// FPEcfp is the circular Morgan fingerprint with structural atom
	// invariants (chirality-aware when isomeric is set, never feature-based).
	FPEcfp FingerprintKind = "ECFP"

	// FPMorgan is the feature-based circular variant (pharmacophoric atom
	// classes instead of structural invariants).
	FPMorgan FingerprintKind = "Morgan"

	// FPRDKit is the path-based topological fingerprint with fixed path
	// length 1–10 and two bits set per path hash.
	FPRDKit FingerprintKind = "RDKFingerprint"

	// FPMaccs is the fixed 166-bit substructure-key fingerprint; the n_bits
	// parameter is ignored for this kind.
	FPMaccs FingerprintKind = "MaCCSKeys"
)

// String returns the canonical selector string.
func (k FingerprintKind) String() string { return string(k) }

// supportedFingerprintFamilies is the upper-cased family set accepted by the
// batch entry point.  A selector outside this set is rejected before any
// per-molecule work starts.
var supportedFingerprintFamilies = map[string]FingerprintKind{
	"SECFP":          FPSecfp,
	"ECFP":           FPEcfp,
	"MORGAN":         FPMorgan,
	"RDKFINGERPRINT": FPRDKit,
	"MACCSKEYS":      FPMaccs,
}

// ParseFingerprintKind validates a selector string against the supported
// family set (case-insensitive) and returns its canonical form.
func ParseFingerprintKind(s string) (FingerprintKind, error) {
	if k, ok := supportedFingerprintFamilies[strings.ToUpper(s)]; ok {
		return k, nil
	}
	return "", errors.Newf(errors.CodeFingerprintUnknown, "%s is not a supported fingerprint type", s)
}

// ─────────────────────────────────────────────────────────────────────────────
// FingerprintParams — user-tunable fingerprint parameters
// ─────────────────────────────────────────────────────────────────────────────

// FingerprintParams carries every tunable the fingerprint encoders accept.
// Numeric zero values are replaced by the defaults below at generator
// construction; boolean fields are used as given, so start from
// DefaultFingerprintParams when the encoder defaults are wanted.
type FingerprintParams struct {
	// NBits is the fingerprint width in bits (MACCS keys ignore it).
	NBits int `json:"n_bits"`

	// Radius is the maximum circular substructure radius in bonds.
	Radius int `json:"radius"`

	// MinRadius is the minimum radius used when extracting SECFP shingles.
	MinRadius int `json:"min_radius"`

	// RandomSeed seeds the SECFP shingle hashing.
	RandomSeed int64 `json:"random_seed"`

	// Rings adds SSSR ring shingles to the SECFP shingling.
	Rings bool `json:"rings"`

	// Isomeric makes the circular invariants chirality-aware and includes
	// stereo tags in SECFP shingles.
	Isomeric bool `json:"isomeric"`

	// Kekulize writes kekulised (no aromatic lowercase) SECFP shingles.
	Kekulize bool `json:"kekulize"`
}

// DefaultFingerprintParams mirrors the generator defaults.
func DefaultFingerprintParams() FingerprintParams {
	return FingerprintParams{
		NBits:      2048,
		Radius:     3,
		MinRadius:  1,
		RandomSeed: 12345,
		Rings:      true,
		Isomeric:   true,
		Kekulize:   false,
	}
}

// MACCSNumBits is the fixed width of the MACCS keys fingerprint.
const MACCSNumBits = 166
