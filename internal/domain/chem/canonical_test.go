package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalSMILES_OrderIndependent(t *testing.T) {
	// The same structure written with different atom orders must serialise
	// identically.
	tests := []struct {
		name     string
		variants []string
	}{
		{"ethanol", []string{"CCO", "OCC", "C(O)C"}},
		{"isobutane", []string{"CC(C)C", "C(C)(C)C"}},
		{"benzene", []string{"c1ccccc1", "c1ccccc1"}},
		{"acetic acid", []string{"CC(=O)O", "OC(=O)C", "C(C)(=O)O"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := MustParseSMILES(tt.variants[0]).CanonicalSMILES()
			for _, v := range tt.variants[1:] {
				got := MustParseSMILES(v).CanonicalSMILES()
				assert.Equal(t, first, got, "variant %q", v)
			}
		})
	}
}

func TestCanonicalSMILES_RoundTrip(t *testing.T) {
	// Canonical output must parse back to a graph with the same canonical
	// form.
	inputs := []string{
		"CCO",
		"c1ccccc1",
		"CC(=O)Oc1ccccc1C(=O)O", // aspirin
		"C1CCCCC1",
		"[NH4+]",
		"[Na+].[Cl-]",
		"C#N",
	}
	for _, s := range inputs {
		m := MustParseSMILES(s)
		canon := m.CanonicalSMILES()
		reparsed, err := ParseSMILES(canon)
		require.NoError(t, err, "canonical %q of %q did not reparse", canon, s)
		assert.Equal(t, canon, reparsed.CanonicalSMILES(), "input %q", s)
	}
}

func TestCanonicalSMILES_ChiralityPreserved(t *testing.T) {
	m := MustParseSMILES("C[C@H](N)O")
	assert.Contains(t, m.CanonicalSMILES(), "@")

	plain := m.writeSMILES(false)
	assert.NotContains(t, plain, "@")
}

func TestShingleSMILES_Kekulize(t *testing.T) {
	m := MustParseSMILES("c1ccccc1")
	aromatic := m.ShingleSMILES(true, false)
	kekulized := m.ShingleSMILES(true, true)
	assert.Contains(t, aromatic, "c")
	assert.NotContains(t, kekulized, "c")
	assert.Contains(t, kekulized, "C")
}

func TestExtractSubgraph(t *testing.T) {
	m := MustParseSMILES("CCO")
	sub := m.ExtractSubgraph([]int{1, 2})
	assert.Equal(t, 2, sub.NumAtoms())
	assert.Equal(t, 1, sub.NumBonds())
	assert.Equal(t, "C", sub.Atoms[0].Element)
	assert.Equal(t, "O", sub.Atoms[1].Element)
}
