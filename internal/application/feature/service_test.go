package feature

import (
	"bytes"
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DiverseMol/internal/domain/fingerprint"
	"github.com/turtacn/DiverseMol/internal/infrastructure/monitoring/metrics"
	"github.com/turtacn/DiverseMol/internal/infrastructure/search/milvus"
	"github.com/turtacn/DiverseMol/pkg/errors"
	feature "github.com/turtacn/DiverseMol/pkg/types/feature"
)

// fakeStore records inserts and serves canned hits.
type fakeStore struct {
	names   []string
	smiles  []string
	fps     []*fingerprint.Fingerprint
	hits    []milvus.Hit
	failing bool
}

func (s *fakeStore) Insert(ctx context.Context, names, smiles []string, fps []*fingerprint.Fingerprint) error {
	if s.failing {
		return errors.New(errors.CodeUnavailable, "store down")
	}
	s.names = append(s.names, names...)
	s.smiles = append(s.smiles, smiles...)
	s.fps = append(s.fps, fps...)
	return nil
}

func (s *fakeStore) SearchSimilar(ctx context.Context, query *fingerprint.Fingerprint, topK int) ([]milvus.Hit, error) {
	if s.failing {
		return nil, errors.New(errors.CodeUnavailable, "store down")
	}
	if topK < len(s.hits) {
		return s.hits[:topK], nil
	}
	return s.hits, nil
}

func TestService_ComputeDescriptorsRecordsMetrics(t *testing.T) {
	mtr := metrics.NewFeatureMetrics("svc_test")
	svc := NewService(nil, nil, nil, mtr, nil)

	m, err := svc.ComputeDescriptors(context.Background(), "rdkit", DefaultDescriptorOptions(), mols(t, "CCO", "CCN"))
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumRows())
	assert.Equal(t, 2.0, testutil.ToFloat64(mtr.DescriptorRowsTotal.WithLabelValues("rdkit")))
}

func TestService_ComputeFingerprintsObservesOnBits(t *testing.T) {
	mtr := metrics.NewFeatureMetrics("svc_test")
	svc := NewService(nil, nil, nil, mtr, nil)

	_, err := svc.ComputeFingerprints(context.Background(), "SECFP", feature.DefaultFingerprintParams(), mols(t, "CCO", "c1ccccc1"))
	require.NoError(t, err)

	// One histogram child for the SECFP kind label.
	assert.Equal(t, 1, testutil.CollectAndCount(mtr.FingerprintOnBits))
	assert.Equal(t, 2.0, testutil.ToFloat64(mtr.FingerprintRowsTotal.WithLabelValues("SECFP")))
}

func TestService_ExportFingerprints(t *testing.T) {
	store := &fakeStore{}
	mtr := metrics.NewFeatureMetrics("svc_test")
	svc := NewService(nil, nil, store, mtr, nil)

	batch := mols(t, "CCO", "c1ccccc1")
	batch[0].Name = "ethanol"

	err := svc.ExportFingerprints(context.Background(), "SECFP", feature.DefaultFingerprintParams(), batch)
	require.NoError(t, err)

	require.Len(t, store.fps, 2)
	assert.Equal(t, []string{"ethanol", batch[1].CanonicalSMILES()}, store.names)
	assert.Equal(t, []string{batch[0].CanonicalSMILES(), batch[1].CanonicalSMILES()}, store.smiles)
	assert.Equal(t, 2.0, testutil.ToFloat64(mtr.MilvusInsertsTotal.WithLabelValues("ok")))
}

func TestService_ExportFingerprints_NoStore(t *testing.T) {
	svc := NewService(nil, nil, nil, nil, nil)
	err := svc.ExportFingerprints(context.Background(), "SECFP", feature.DefaultFingerprintParams(), mols(t, "CCO"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnavailable))
}

func TestService_ExportFingerprints_InsertFailureCounted(t *testing.T) {
	mtr := metrics.NewFeatureMetrics("svc_test")
	svc := NewService(nil, nil, &fakeStore{failing: true}, mtr, nil)

	err := svc.ExportFingerprints(context.Background(), "SECFP", feature.DefaultFingerprintParams(), mols(t, "CCO"))
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(mtr.MilvusInsertsTotal.WithLabelValues("error")))
}

func TestService_SearchSimilar(t *testing.T) {
	store := &fakeStore{hits: []milvus.Hit{
		{Name: "ethanol", SMILES: "CCO", Score: 1.0},
		{Name: "propanol", SMILES: "CCCO", Score: 0.6},
	}}
	svc := NewService(nil, nil, store, nil, nil)

	hits, err := svc.SearchSimilar(context.Background(), "SECFP", feature.DefaultFingerprintParams(), mols(t, "CCO")[0], 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "ethanol", hits[0].Name)
}

func TestService_RankLocal(t *testing.T) {
	svc := NewService(nil, nil, nil, nil, nil)

	query := mols(t, "CCO")[0]
	candidates := mols(t, "c1ccccc1", "CCO", "CCCO")
	candidates[1].Name = "ethanol"

	ranked, err := svc.RankLocal(context.Background(), "ECFP", feature.DefaultFingerprintParams(), query, candidates, fingerprint.MetricTanimoto)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "ethanol", ranked[0].Name)
	assert.Equal(t, 1.0, ranked[0].Score)
}

func TestService_WriteCSV(t *testing.T) {
	svc := NewService(nil, nil, nil, nil, nil)

	m, err := svc.ComputeFingerprints(context.Background(), "MaCCSKeys", feature.FingerprintParams{}, mols(t, "c1ccccc1"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(&buf, m))
	assert.Contains(t, buf.String(), "name,0,1,")
}
