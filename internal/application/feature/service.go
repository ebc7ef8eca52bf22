package feature

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/DiverseMol/internal/domain/chem"
	"github.com/turtacn/DiverseMol/internal/domain/fingerprint"
	"github.com/turtacn/DiverseMol/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiverseMol/internal/infrastructure/monitoring/metrics"
	"github.com/turtacn/DiverseMol/internal/infrastructure/search/milvus"
	"github.com/turtacn/DiverseMol/pkg/errors"
	feature "github.com/turtacn/DiverseMol/pkg/types/feature"
)

// VectorStore persists fingerprints for similarity search.  Implemented by
// the milvus infrastructure package; nil disables export.
type VectorStore interface {
	Insert(ctx context.Context, names, smiles []string, fps []*fingerprint.Fingerprint) error
	SearchSimilar(ctx context.Context, query *fingerprint.Fingerprint, topK int) ([]milvus.Hit, error)
}

// Service orchestrates feature generation runs: it tags each batch with a
// run ID, drives the generators, and optionally exports fingerprints to the
// vector store.
type Service struct {
	padel  PadelRunner
	cache  RowCache
	store  VectorStore
	mtr    *metrics.FeatureMetrics
	logger logging.Logger
}

// NewService wires the optional collaborators; any of them may be nil.
func NewService(padel PadelRunner, cache RowCache, store VectorStore, mtr *metrics.FeatureMetrics, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Service{padel: padel, cache: cache, store: store, mtr: mtr, logger: logger.Named("feature")}
}

// ComputeDescriptors runs a descriptor batch with the given selector and
// options.
func (s *Service) ComputeDescriptors(ctx context.Context, selector string, opts DescriptorOptions, mols []*chem.Molecule) (*feature.Matrix, error) {
	runID := uuid.NewString()
	log := s.logger.With(logging.String("run_id", runID))

	gen, err := NewDescriptorGenerator(selector, opts, s.padel, s.cache, log)
	if err != nil {
		return nil, err
	}
	if s.mtr != nil {
		gen.SetObserver(func(backend string, rows int, elapsed time.Duration) {
			s.mtr.DescriptorRowsTotal.WithLabelValues(backend).Add(float64(rows))
			s.mtr.DescriptorDuration.WithLabelValues(backend).Observe(elapsed.Seconds())
		})
	}
	return gen.Compute(ctx, mols)
}

// ComputeFingerprints runs a fingerprint batch and returns the dense matrix.
func (s *Service) ComputeFingerprints(ctx context.Context, selector string, params feature.FingerprintParams, mols []*chem.Molecule) (*feature.Matrix, error) {
	gen, err := s.fingerprintGenerator(selector, params)
	if err != nil {
		return nil, err
	}
	return gen.Compute(ctx, mols)
}

// ExportFingerprints encodes the batch and inserts the packed vectors into
// the vector store.
func (s *Service) ExportFingerprints(ctx context.Context, selector string, params feature.FingerprintParams, mols []*chem.Molecule) error {
	if s.store == nil {
		return errors.New(errors.CodeUnavailable, "no vector store configured")
	}
	gen, err := s.fingerprintGenerator(selector, params)
	if err != nil {
		return err
	}
	fps, err := gen.ComputeFingerprints(ctx, mols)
	if err != nil {
		return err
	}

	names := make([]string, len(mols))
	smiles := make([]string, len(mols))
	for i, m := range mols {
		names[i] = rowLabel(m)
		smiles[i] = m.CanonicalSMILES()
	}
	if err := s.store.Insert(ctx, names, smiles, fps); err != nil {
		if s.mtr != nil {
			s.mtr.MilvusInsertsTotal.WithLabelValues("error").Add(float64(len(fps)))
		}
		return err
	}
	if s.mtr != nil {
		s.mtr.MilvusInsertsTotal.WithLabelValues("ok").Add(float64(len(fps)))
	}
	s.logger.Info("fingerprints exported",
		logging.String("kind", gen.Kind().String()),
		logging.Int("count", len(fps)))
	return nil
}

// SearchSimilar encodes the query molecule and asks the vector store for the
// topK nearest stored fingerprints.
func (s *Service) SearchSimilar(ctx context.Context, selector string, params feature.FingerprintParams, query *chem.Molecule, topK int) ([]milvus.Hit, error) {
	if s.store == nil {
		return nil, errors.New(errors.CodeUnavailable, "no vector store configured")
	}
	if topK <= 0 {
		topK = 10
	}
	gen, err := s.fingerprintGenerator(selector, params)
	if err != nil {
		return nil, err
	}
	fp, err := gen.ComputeOne(query)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	hits, err := s.store.SearchSimilar(ctx, fp, topK)
	if s.mtr != nil {
		s.mtr.MilvusSearchDuration.Observe(time.Since(start).Seconds())
	}
	return hits, err
}

// RankLocal scores the candidates against the query in process, without a
// vector store.
func (s *Service) RankLocal(ctx context.Context, selector string, params feature.FingerprintParams, query *chem.Molecule, candidates []*chem.Molecule, metric fingerprint.SimilarityMetric) ([]fingerprint.SimilarityResult, error) {
	gen, err := s.fingerprintGenerator(selector, params)
	if err != nil {
		return nil, err
	}
	queryFP, err := gen.ComputeOne(query)
	if err != nil {
		return nil, err
	}
	fps, err := gen.ComputeFingerprints(ctx, candidates)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(candidates))
	for i, m := range candidates {
		names[i] = rowLabel(m)
	}
	return fingerprint.RankBySimilarity(queryFP, fps, names, metric)
}

// WriteCSV exports a feature matrix as CSV.
func (s *Service) WriteCSV(w io.Writer, m *feature.Matrix) error {
	return m.WriteCSV(w)
}

func (s *Service) fingerprintGenerator(selector string, params feature.FingerprintParams) (*FingerprintGenerator, error) {
	gen, err := NewFingerprintGenerator(selector, params, s.logger)
	if err != nil {
		return nil, err
	}
	if s.mtr != nil {
		gen.SetObserver(func(kind string, rows int, elapsed time.Duration) {
			s.mtr.FingerprintRowsTotal.WithLabelValues(kind).Add(float64(rows))
			s.mtr.FingerprintDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
		})
		gen.SetBitObserver(func(kind string, onBits int) {
			s.mtr.FingerprintOnBits.WithLabelValues(kind).Observe(float64(onBits))
		})
	}
	return gen, nil
}
