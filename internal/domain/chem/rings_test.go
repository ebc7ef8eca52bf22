package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRings_Counts(t *testing.T) {
	tests := []struct {
		smiles string
		rings  int
	}{
		{"CCO", 0},
		{"C1CCCCC1", 1},
		{"c1ccccc1", 1},
		{"c1ccc2ccccc2c1", 2},
		{"C1CC1C1CC1", 2}, // two separate cyclopropanes
	}
	for _, tt := range tests {
		m := MustParseSMILES(tt.smiles)
		assert.Equal(t, tt.rings, m.RingCount(), tt.smiles)
	}
}

func TestRings_SmallestSetSizes(t *testing.T) {
	// Naphthalene's SSSR is two six-membered rings, not the ten-membered
	// perimeter.
	m := MustParseSMILES("c1ccc2ccccc2c1")
	for _, r := range m.Rings() {
		assert.Len(t, r, 6)
	}
}

func TestIsAtomInRing(t *testing.T) {
	// Toluene: ring carbons in a ring, methyl not.
	m := MustParseSMILES("Cc1ccccc1")
	assert.False(t, m.IsAtomInRing(0))
	for i := 1; i < 7; i++ {
		assert.True(t, m.IsAtomInRing(i), "atom %d", i)
	}
}

func TestAromaticRingCount(t *testing.T) {
	assert.Equal(t, 1, MustParseSMILES("c1ccccc1").AromaticRingCount())
	assert.Equal(t, 0, MustParseSMILES("C1CCCCC1").AromaticRingCount())
	assert.Equal(t, 2, MustParseSMILES("c1ccc2ccccc2c1").AromaticRingCount())
}

func TestNumRotatableBonds(t *testing.T) {
	tests := []struct {
		smiles string
		want   int
	}{
		{"CC", 0},       // terminal only
		{"CCCC", 1},     // central C-C
		{"C1CCCCC1", 0}, // ring bonds excluded
		{"CCOCC", 2},    // both C-O bonds of diethyl ether
	}
	for _, tt := range tests {
		m := MustParseSMILES(tt.smiles)
		assert.Equal(t, tt.want, m.NumRotatableBonds(), tt.smiles)
	}
}
