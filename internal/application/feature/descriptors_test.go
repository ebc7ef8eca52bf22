package feature

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DiverseMol/internal/domain/chem"
	"github.com/turtacn/DiverseMol/internal/domain/descriptor"
	"github.com/turtacn/DiverseMol/pkg/errors"
	feature "github.com/turtacn/DiverseMol/pkg/types/feature"
)

func mols(t *testing.T, smiles ...string) []*chem.Molecule {
	t.Helper()
	out := make([]*chem.Molecule, len(smiles))
	for i, s := range smiles {
		m, err := chem.ParseSMILES(s)
		require.NoError(t, err, s)
		out[i] = m
	}
	return out
}

func TestNewDescriptorGenerator_UnknownSelector(t *testing.T) {
	_, err := NewDescriptorGenerator("dragon", DefaultDescriptorOptions(), nil, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeDescriptorSetUnknown))
	assert.Contains(t, err.Error(), "unknown descriptor type dragon")
}

func TestNewDescriptorGenerator_CaseInsensitive(t *testing.T) {
	for _, sel := range []string{"rdkit", "RDKit", "RDKIT", "Mordred", "rdkit_frag"} {
		_, err := NewDescriptorGenerator(sel, DefaultDescriptorOptions(), nil, nil, nil)
		assert.NoError(t, err, sel)
	}
}

func TestNewDescriptorGenerator_LegacyInputRejected(t *testing.T) {
	opts := DefaultDescriptorOptions()
	opts.LegacyMolInput = true
	_, err := NewDescriptorGenerator("rdkit", opts, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeDeprecated))
}

func TestNewDescriptorGenerator_PadelNeedsRunner(t *testing.T) {
	_, err := NewDescriptorGenerator("padel", DefaultDescriptorOptions(), nil, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestDescriptorCompute_RowPerMoleculeInOrder(t *testing.T) {
	g, err := NewDescriptorGenerator("rdkit", DefaultDescriptorOptions(), nil, nil, nil)
	require.NoError(t, err)

	batch := mols(t, "CCO", "c1ccccc1", "CC(=O)O")
	batch[0].Name = "ethanol"
	batch[2].Name = "acetic acid"

	m, err := g.Compute(context.Background(), batch)
	require.NoError(t, err)

	require.Equal(t, 3, m.NumRows())
	assert.Equal(t, "ethanol", m.Index[0])
	assert.Equal(t, batch[1].CanonicalSMILES(), m.Index[1])
	assert.Equal(t, "acetic acid", m.Index[2])

	j := m.ColumnIndex("MolWt")
	require.GreaterOrEqual(t, j, 0)
	assert.InDelta(t, 46.069, m.Data[0][j], 0.01)
	assert.InDelta(t, 78.114, m.Data[1][j], 0.01)
}

func TestDescriptorCompute_EmptyBatch(t *testing.T) {
	g, err := NewDescriptorGenerator("rdkit", DefaultDescriptorOptions(), nil, nil, nil)
	require.NoError(t, err)

	_, err = g.Compute(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeMoleculeEmptySet))
}

func TestDescriptorCompute_FragmentSubset(t *testing.T) {
	opts := DefaultDescriptorOptions()
	full, err := NewDescriptorGenerator("rdkit", opts, nil, nil, nil)
	require.NoError(t, err)

	opts.UseFragment = false
	bare, err := NewDescriptorGenerator("rdkit", opts, nil, nil, nil)
	require.NoError(t, err)

	batch := mols(t, "CCO")
	mFull, err := full.Compute(context.Background(), batch)
	require.NoError(t, err)
	mBare, err := bare.Compute(context.Background(), batch)
	require.NoError(t, err)

	require.Less(t, mBare.NumColumns(), mFull.NumColumns())

	// Every retained column keeps its name, order, and value.
	sub, err := mFull.SelectColumns(mBare.Columns)
	require.NoError(t, err)
	assert.Equal(t, sub.Data, mBare.Data)
}

func TestDescriptorCompute_IpcAvg(t *testing.T) {
	opts := DefaultDescriptorOptions()
	avg, err := NewDescriptorGenerator("rdkit", opts, nil, nil, nil)
	require.NoError(t, err)

	opts.IpcAvg = false
	total, err := NewDescriptorGenerator("rdkit", opts, nil, nil, nil)
	require.NoError(t, err)

	batch := mols(t, "CCCC")
	mAvg, err := avg.Compute(context.Background(), batch)
	require.NoError(t, err)
	mTotal, err := total.Compute(context.Background(), batch)
	require.NoError(t, err)

	j := mAvg.ColumnIndex("Ipc")
	require.GreaterOrEqual(t, j, 0)
	assert.Less(t, mAvg.Data[0][j], mTotal.Data[0][j])
}

func TestDescriptorCompute_FragmentOnlyBackend(t *testing.T) {
	g, err := NewDescriptorGenerator("rdkit_frag", DefaultDescriptorOptions(), nil, nil, nil)
	require.NoError(t, err)

	m, err := g.Compute(context.Background(), mols(t, "c1ccccc1"))
	require.NoError(t, err)
	assert.Equal(t, descriptor.Names(descriptor.FragmentRegistry()), m.Columns)
	assert.Equal(t, 1.0, m.Data[0][m.ColumnIndex("fr_benzene")])
}

func TestDescriptorCompute_Cancelled(t *testing.T) {
	g, err := NewDescriptorGenerator("rdkit", DefaultDescriptorOptions(), nil, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Compute(ctx, mols(t, "CCO"))
	assert.Error(t, err)
}

// fakeCache records lookups and serves a fixed row for one key.
type fakeCache struct {
	hits    map[string][]float64
	columns []string
	calls   int
}

func (c *fakeCache) GetOrCompute(ctx context.Context, backend, smiles string,
	compute func() ([]string, []float64, error)) ([]string, []float64, error) {
	c.calls++
	if row, ok := c.hits[smiles]; ok {
		return c.columns, row, nil
	}
	return compute()
}

func TestDescriptorCompute_CacheServesRows(t *testing.T) {
	batch := mols(t, "CCO")
	canon := batch[0].CanonicalSMILES()

	columns := descriptor.Names(descriptor.RDKitRegistry(true))
	cached := make([]float64, len(columns))
	cached[0] = 999 // sentinel distinguishing cached from computed values

	cache := &fakeCache{hits: map[string][]float64{canon: cached}, columns: columns}
	g, err := NewDescriptorGenerator("rdkit", DefaultDescriptorOptions(), nil, cache, nil)
	require.NoError(t, err)

	m, err := g.Compute(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.calls)
	assert.Equal(t, 999.0, m.Data[0][0])
}

func TestDescriptorCompute_CacheColumnMismatchRecomputes(t *testing.T) {
	batch := mols(t, "CCO")
	canon := batch[0].CanonicalSMILES()

	// A stale entry with the wrong width must be recomputed, not used.
	cache := &fakeCache{
		hits:    map[string][]float64{canon: {1, 2}},
		columns: []string{"a", "b"},
	}
	g, err := NewDescriptorGenerator("rdkit", DefaultDescriptorOptions(), nil, cache, nil)
	require.NoError(t, err)

	m, err := g.Compute(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, len(descriptor.Names(descriptor.RDKitRegistry(true))), m.NumColumns())
	j := m.ColumnIndex("MolWt")
	assert.InDelta(t, 46.069, m.Data[0][j], 0.01)
}

func TestFilterFeatures_PassThrough(t *testing.T) {
	m, err := feature.NewMatrix([]string{"a"}, []string{"x"}, [][]float64{{1}})
	require.NoError(t, err)

	got, err := FilterFeatures(m)
	require.NoError(t, err)
	assert.Same(t, m, got)
}
