package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DiverseMol/pkg/errors"
)

func TestParseSMILES_LinearChain(t *testing.T) {
	m, err := ParseSMILES("CCO")
	require.NoError(t, err)

	assert.Equal(t, 3, m.NumAtoms())
	assert.Equal(t, 2, m.NumBonds())
	assert.Equal(t, "C", m.Atoms[0].Element)
	assert.Equal(t, "O", m.Atoms[2].Element)

	// Implicit hydrogens by default valence: CH3, CH2, OH.
	assert.Equal(t, 3, m.Atoms[0].Hydrogens)
	assert.Equal(t, 2, m.Atoms[1].Hydrogens)
	assert.Equal(t, 1, m.Atoms[2].Hydrogens)
}

func TestParseSMILES_BondOrders(t *testing.T) {
	tests := []struct {
		smiles string
		order  int
	}{
		{"C=C", 2},
		{"C#N", 3},
		{"CC", 1},
	}
	for _, tt := range tests {
		m, err := ParseSMILES(tt.smiles)
		require.NoError(t, err, tt.smiles)
		require.Equal(t, 1, m.NumBonds())
		assert.Equal(t, tt.order, m.Bonds[0].Order, tt.smiles)
	}
}

func TestParseSMILES_Branches(t *testing.T) {
	// Isobutane: central carbon with three methyls.
	m, err := ParseSMILES("CC(C)C")
	require.NoError(t, err)

	assert.Equal(t, 4, m.NumAtoms())
	assert.Equal(t, 3, m.Degree(1))
	assert.Equal(t, 1, m.Atoms[1].Hydrogens)
}

func TestParseSMILES_AromaticRing(t *testing.T) {
	m, err := ParseSMILES("c1ccccc1")
	require.NoError(t, err)

	assert.Equal(t, 6, m.NumAtoms())
	assert.Equal(t, 6, m.NumBonds())
	for i := range m.Atoms {
		assert.True(t, m.Atoms[i].Aromatic, "atom %d", i)
		assert.Equal(t, 1, m.Atoms[i].Hydrogens, "atom %d", i)
	}
	assert.Equal(t, 1, m.RingCount())
}

func TestParseSMILES_FusedRings(t *testing.T) {
	// Naphthalene has ten atoms, eleven bonds, two SSSR rings.
	m, err := ParseSMILES("c1ccc2ccccc2c1")
	require.NoError(t, err)

	assert.Equal(t, 10, m.NumAtoms())
	assert.Equal(t, 11, m.NumBonds())
	assert.Equal(t, 2, m.RingCount())
}

func TestParseSMILES_BracketAtoms(t *testing.T) {
	m, err := ParseSMILES("[NH4+]")
	require.NoError(t, err)
	require.Equal(t, 1, m.NumAtoms())
	assert.Equal(t, "N", m.Atoms[0].Element)
	assert.Equal(t, 1, m.Atoms[0].Charge)
	assert.Equal(t, 4, m.Atoms[0].Hydrogens)

	m, err = ParseSMILES("[13CH4]")
	require.NoError(t, err)
	assert.Equal(t, 13, m.Atoms[0].Isotope)
	assert.Equal(t, 4, m.Atoms[0].Hydrogens)

	m, err = ParseSMILES("[O-]C(=O)C")
	require.NoError(t, err)
	assert.Equal(t, -1, m.Atoms[0].Charge)
	assert.Equal(t, 0, m.Atoms[0].Hydrogens)
}

func TestParseSMILES_Chirality(t *testing.T) {
	m, err := ParseSMILES("C[C@H](N)C(=O)O")
	require.NoError(t, err)
	assert.Equal(t, ChiralityCounterClock, m.Atoms[1].Chirality)
	assert.Equal(t, 1, m.Atoms[1].Hydrogens)
}

func TestParseSMILES_Fragments(t *testing.T) {
	m, err := ParseSMILES("[Na+].[Cl-]")
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumAtoms())
	assert.Equal(t, 0, m.NumBonds())
}

func TestParseSMILES_TwoLetterElements(t *testing.T) {
	m, err := ParseSMILES("ClCBr")
	require.NoError(t, err)
	require.Equal(t, 3, m.NumAtoms())
	assert.Equal(t, "Cl", m.Atoms[0].Element)
	assert.Equal(t, "Br", m.Atoms[2].Element)
}

func TestParseSMILES_Invalid(t *testing.T) {
	tests := []string{
		"",
		"C(",
		"C1CC",     // unclosed ring
		"[C",       // unclosed bracket
		"C)C",      // unbalanced close
		"Xx",       // unknown element
	}
	for _, s := range tests {
		_, err := ParseSMILES(s)
		require.Error(t, err, "smiles %q", s)
		assert.True(t, errors.IsCode(err, errors.CodeMoleculeInvalidSMILES), "smiles %q", s)
	}
}

func TestMolecularWeight(t *testing.T) {
	m := MustParseSMILES("CCO")
	// Ethanol: 2*12.011 + 6*1.008 + 15.999
	assert.InDelta(t, 46.069, m.MolecularWeight(), 0.01)
}
