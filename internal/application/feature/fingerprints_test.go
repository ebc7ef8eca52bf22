package feature

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DiverseMol/pkg/errors"
	feature "github.com/turtacn/DiverseMol/pkg/types/feature"
)

func TestNewFingerprintGenerator_UnsupportedSelector(t *testing.T) {
	_, err := NewFingerprintGenerator("AtomPair", feature.FingerprintParams{}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeFingerprintUnknown))
	assert.Contains(t, err.Error(), "AtomPair is not a supported fingerprint type")
}

func TestNewFingerprintGenerator_CaseInsensitive(t *testing.T) {
	for _, sel := range []string{"secfp", "SECFP", "ecfp", "Morgan", "MORGAN", "RDKFingerprint", "MaCCSKeys", "maccskeys"} {
		_, err := NewFingerprintGenerator(sel, feature.FingerprintParams{}, nil)
		assert.NoError(t, err, sel)
	}
}

func TestNewFingerprintGenerator_ZeroParamsGetDefaults(t *testing.T) {
	g, err := NewFingerprintGenerator("SECFP", feature.FingerprintParams{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2048, g.NumBits())
	assert.Equal(t, 3, g.params.Radius)
	assert.Equal(t, 1, g.params.MinRadius)
	assert.Equal(t, int64(12345), g.params.RandomSeed)

	// Only numeric zero values are defaulted; booleans pass through as given.
	assert.False(t, g.params.Rings)
	assert.False(t, g.params.Isomeric)
}

func TestFingerprintCompute_WidthPerKind(t *testing.T) {
	batch := mols(t, "CCO", "c1ccccc1")

	tests := []struct {
		selector string
		nBits    int
		want     int
	}{
		{"SECFP", 1024, 1024},
		{"ECFP", 512, 512},
		{"Morgan", 256, 256},
		{"RDKFingerprint", 2048, 2048},
		// MACCS ignores the configured width.
		{"MaCCSKeys", 2048, feature.MACCSNumBits},
		{"MaCCSKeys", 64, feature.MACCSNumBits},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			p := feature.DefaultFingerprintParams()
			p.NBits = tt.nBits
			g, err := NewFingerprintGenerator(tt.selector, p, nil)
			require.NoError(t, err)

			m, err := g.Compute(context.Background(), batch)
			require.NoError(t, err)
			assert.Equal(t, len(batch), m.NumRows())
			assert.Equal(t, tt.want, m.NumColumns())
		})
	}
}

func TestFingerprintCompute_IndexAndBitColumns(t *testing.T) {
	batch := mols(t, "CCO", "CCN")
	batch[0].Name = "ethanol"

	g, err := NewFingerprintGenerator("ECFP", feature.DefaultFingerprintParams(), nil)
	require.NoError(t, err)

	m, err := g.Compute(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, "ethanol", m.Index[0])
	assert.Equal(t, batch[1].CanonicalSMILES(), m.Index[1])
	assert.Equal(t, "0", m.Columns[0])
	assert.Equal(t, "2047", m.Columns[2047])

	// Matrix values are the unpacked bits.
	for _, row := range m.Data {
		on := 0.0
		for _, v := range row {
			require.True(t, v == 0 || v == 1)
			on += v
		}
		assert.Greater(t, on, 0.0)
	}
}

func TestFingerprintCompute_EmptyBatch(t *testing.T) {
	g, err := NewFingerprintGenerator("ECFP", feature.DefaultFingerprintParams(), nil)
	require.NoError(t, err)

	_, err = g.Compute(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeMoleculeEmptySet))
}

func TestFingerprintComputeOne_UnimplementedKind(t *testing.T) {
	g, err := NewFingerprintGenerator("ECFP", feature.DefaultFingerprintParams(), nil)
	require.NoError(t, err)
	// Force a kind outside the dispatch switch to exercise the guard.
	g.kind = feature.FingerprintKind("Avalon")

	_, err = g.ComputeOne(mols(t, "CCO")[0])
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeFingerprintNotImplemented))
	assert.Contains(t, err.Error(), "Avalon fingerprint is not implemented")
}

func TestComputeFingerprints_PackedBatch(t *testing.T) {
	batch := mols(t, "CCO", "c1ccccc1", "CC(=O)O")

	g, err := NewFingerprintGenerator("SECFP", feature.DefaultFingerprintParams(), nil)
	require.NoError(t, err)

	fps, err := g.ComputeFingerprints(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, fps, 3)
	for _, fp := range fps {
		assert.Equal(t, 2048, fp.NumBits)
		assert.Greater(t, fp.NumOnBits, 0)
	}
}
