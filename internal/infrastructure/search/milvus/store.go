// Package milvus stores packed fingerprint bit vectors in a Milvus binary
// vector collection and answers top-K Tanimoto-style similarity queries
// through the Jaccard metric.
package milvus

import (
	"context"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/turtacn/DiverseMol/internal/domain/fingerprint"
	"github.com/turtacn/DiverseMol/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiverseMol/pkg/errors"
)

const (
	fieldID     = "id"
	fieldName   = "name"
	fieldSMILES = "smiles"
	fieldVector = "fingerprint"
)

// Config carries the Milvus connection and collection settings.
type Config struct {
	Address        string        `yaml:"address" json:"address" mapstructure:"address"`
	Username       string        `yaml:"username" json:"username" mapstructure:"username"`
	Password       string        `yaml:"password" json:"password" mapstructure:"password"`
	Collection     string        `yaml:"collection" json:"collection" mapstructure:"collection"`
	NumBits        int           `yaml:"num_bits" json:"num_bits" mapstructure:"num_bits"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" json:"connect_timeout" mapstructure:"connect_timeout"`
}

func (c *Config) applyDefaults() {
	if c.Collection == "" {
		c.Collection = "diversemol_fingerprints"
	}
	if c.NumBits == 0 {
		c.NumBits = 2048
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 10 * time.Second
	}
}

// FingerprintStore persists fingerprints for similarity search.
type FingerprintStore struct {
	mc     client.Client
	cfg    Config
	logger logging.Logger
}

// NewFingerprintStore connects and ensures the collection exists with a
// BIN_IVF_FLAT index under the Jaccard metric.
func NewFingerprintStore(ctx context.Context, cfg Config, logger logging.Logger) (*FingerprintStore, error) {
	cfg.applyDefaults()
	if cfg.Address == "" {
		return nil, errors.InvalidParam("milvus address is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	mc, err := client.NewClient(connectCtx, client.Config{
		Address:  cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "milvus connection failed")
	}

	s := &FingerprintStore{mc: mc, cfg: cfg, logger: logger.Named("milvus")}
	if err := s.ensureCollection(ctx); err != nil {
		mc.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the client connection.
func (s *FingerprintStore) Close() error {
	return s.mc.Close()
}

func (s *FingerprintStore) ensureCollection(ctx context.Context) error {
	has, err := s.mc.HasCollection(ctx, s.cfg.Collection)
	if err != nil {
		return errors.Wrap(err, errors.CodeUnavailable, "cannot query milvus collections")
	}
	if has {
		return nil
	}

	schema := &entity.Schema{
		CollectionName: s.cfg.Collection,
		Description:    "molecular fingerprint bit vectors",
		Fields: []*entity.Field{
			{
				Name:       fieldID,
				DataType:   entity.FieldTypeInt64,
				PrimaryKey: true,
				AutoID:     true,
			},
			{
				Name:       fieldName,
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": "256"},
			},
			{
				Name:       fieldSMILES,
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": "4096"},
			},
			{
				Name:       fieldVector,
				DataType:   entity.FieldTypeBinaryVector,
				TypeParams: map[string]string{"dim": fmt.Sprintf("%d", s.cfg.NumBits)},
			},
		},
	}
	if err := s.mc.CreateCollection(ctx, schema, 2); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to create milvus collection")
	}

	idx, err := entity.NewIndexBinIvfFlat(entity.JACCARD, 128)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to build index descriptor")
	}
	if err := s.mc.CreateIndex(ctx, s.cfg.Collection, fieldVector, idx, false); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to create milvus index")
	}
	s.logger.Info("collection created",
		logging.String("collection", s.cfg.Collection),
		logging.Int("num_bits", s.cfg.NumBits))
	return nil
}

// Insert stores one fingerprint per molecule.  Fingerprints must all match
// the configured width.
func (s *FingerprintStore) Insert(ctx context.Context, names, smiles []string, fps []*fingerprint.Fingerprint) error {
	if len(names) != len(fps) || len(smiles) != len(fps) {
		return errors.New(errors.CodeMatrixShapeMismatch, "names, smiles, and fingerprints must align")
	}
	vectors := make([][]byte, len(fps))
	for i, fp := range fps {
		if fp.NumBits != s.cfg.NumBits {
			return errors.Newf(errors.CodeMatrixShapeMismatch,
				"fingerprint width %d does not match collection width %d", fp.NumBits, s.cfg.NumBits)
		}
		vectors[i] = fp.ToBytes()
	}

	_, err := s.mc.Insert(ctx, s.cfg.Collection, "",
		entity.NewColumnVarChar(fieldName, names),
		entity.NewColumnVarChar(fieldSMILES, smiles),
		entity.NewColumnBinaryVector(fieldVector, s.cfg.NumBits, vectors),
	)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "milvus insert failed")
	}
	if err := s.mc.Flush(ctx, s.cfg.Collection, false); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "milvus flush failed")
	}
	return nil
}

// Hit is one similarity search result.
type Hit struct {
	Name   string
	SMILES string
	Score  float64
}

// SearchSimilar returns the topK nearest stored fingerprints to the query.
// Milvus reports Jaccard distance; the returned Score is 1-distance, the
// Tanimoto similarity.
func (s *FingerprintStore) SearchSimilar(ctx context.Context, query *fingerprint.Fingerprint, topK int) ([]Hit, error) {
	if query.NumBits != s.cfg.NumBits {
		return nil, errors.Newf(errors.CodeMatrixShapeMismatch,
			"query width %d does not match collection width %d", query.NumBits, s.cfg.NumBits)
	}
	if err := s.mc.LoadCollection(ctx, s.cfg.Collection, false); err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "cannot load milvus collection")
	}

	sp, err := entity.NewIndexBinIvfFlatSearchParam(16)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to build search params")
	}
	results, err := s.mc.Search(ctx, s.cfg.Collection, nil,
		"", []string{fieldName, fieldSMILES},
		[]entity.Vector{entity.BinaryVector(query.ToBytes())},
		fieldVector, entity.JACCARD, topK, sp)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "milvus search failed")
	}

	hits := []Hit{}
	for _, res := range results {
		nameCol, _ := res.Fields.GetColumn(fieldName).(*entity.ColumnVarChar)
		smilesCol, _ := res.Fields.GetColumn(fieldSMILES).(*entity.ColumnVarChar)
		for i := 0; i < res.ResultCount; i++ {
			h := Hit{Score: 1 - float64(res.Scores[i])}
			if nameCol != nil {
				h.Name, _ = nameCol.ValueByIdx(i)
			}
			if smilesCol != nil {
				h.SMILES, _ = smilesCol.ValueByIdx(i)
			}
			hits = append(hits, h)
		}
	}
	return hits, nil
}
