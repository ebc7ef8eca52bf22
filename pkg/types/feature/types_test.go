package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DiverseMol/pkg/errors"
)

func TestParseDescriptorSet(t *testing.T) {
	tests := []struct {
		in   string
		want DescriptorSet
	}{
		{"mordred", DescriptorsMordred},
		{"padel", DescriptorsPadel},
		{"rdkit", DescriptorsRDKit},
		{"rdkit_frag", DescriptorsRDKitFragment},
		{"RDKit", DescriptorsRDKit},
		{"MORDRED", DescriptorsMordred},
		{"Rdkit_Frag", DescriptorsRDKitFragment},
	}
	for _, tt := range tests {
		got, err := ParseDescriptorSet(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseDescriptorSet_Unknown(t *testing.T) {
	_, err := ParseDescriptorSet("dragon")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeDescriptorSetUnknown))
	assert.Contains(t, err.Error(), "unknown descriptor type dragon")
}

func TestParseFingerprintKind(t *testing.T) {
	tests := []struct {
		in   string
		want FingerprintKind
	}{
		{"SECFP", FPSecfp},
		{"secfp", FPSecfp},
		{"ECFP", FPEcfp},
		{"Morgan", FPMorgan},
		{"MORGAN", FPMorgan},
		{"RDKFingerprint", FPRDKit},
		{"rdkfingerprint", FPRDKit},
		{"MaCCSKeys", FPMaccs},
		{"maccskeys", FPMaccs},
	}
	for _, tt := range tests {
		got, err := ParseFingerprintKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseFingerprintKind_Unsupported(t *testing.T) {
	_, err := ParseFingerprintKind("AtomPair")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeFingerprintUnknown))
	assert.Contains(t, err.Error(), "AtomPair is not a supported fingerprint type")
}

func TestDefaultFingerprintParams(t *testing.T) {
	p := DefaultFingerprintParams()
	assert.Equal(t, 2048, p.NBits)
	assert.Equal(t, 3, p.Radius)
	assert.Equal(t, 1, p.MinRadius)
	assert.Equal(t, int64(12345), p.RandomSeed)
	assert.True(t, p.Rings)
	assert.True(t, p.Isomeric)
	assert.False(t, p.Kekulize)
}
