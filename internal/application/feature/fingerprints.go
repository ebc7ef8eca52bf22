package feature

import (
	"context"
	"strconv"
	"time"

	"github.com/turtacn/DiverseMol/internal/domain/chem"
	"github.com/turtacn/DiverseMol/internal/domain/fingerprint"
	"github.com/turtacn/DiverseMol/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiverseMol/pkg/errors"
	feature "github.com/turtacn/DiverseMol/pkg/types/feature"
)

// FingerprintGenerator computes a binary feature matrix for a molecule batch
// with the selected fingerprint kind.
type FingerprintGenerator struct {
	kind   feature.FingerprintKind
	params feature.FingerprintParams
	logger logging.Logger

	observe     func(kind string, rows int, elapsed time.Duration)
	observeBits func(kind string, onBits int)
}

// NewFingerprintGenerator validates the selector against the supported
// family set (case-insensitive) and normalises the parameters.
func NewFingerprintGenerator(selector string, params feature.FingerprintParams, logger logging.Logger) (*FingerprintGenerator, error) {
	kind, err := feature.ParseFingerprintKind(selector)
	if err != nil {
		return nil, err
	}
	defaults := feature.DefaultFingerprintParams()
	if params.NBits == 0 {
		params.NBits = defaults.NBits
	}
	if params.Radius == 0 {
		params.Radius = defaults.Radius
	}
	if params.MinRadius == 0 {
		params.MinRadius = defaults.MinRadius
	}
	if params.RandomSeed == 0 {
		params.RandomSeed = defaults.RandomSeed
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &FingerprintGenerator{
		kind:   kind,
		params: params,
		logger: logger.Named("fingerprints"),
	}, nil
}

// Kind returns the canonical fingerprint selector.
func (g *FingerprintGenerator) Kind() feature.FingerprintKind { return g.kind }

// NumBits returns the effective fingerprint width; MACCS keys pin it to 166
// regardless of the configured width.
func (g *FingerprintGenerator) NumBits() int {
	if g.kind == feature.FPMaccs {
		return feature.MACCSNumBits
	}
	return g.params.NBits
}

// SetObserver installs a per-batch metrics callback.
func (g *FingerprintGenerator) SetObserver(fn func(kind string, rows int, elapsed time.Duration)) {
	g.observe = fn
}

// SetBitObserver installs a per-fingerprint popcount callback.
func (g *FingerprintGenerator) SetBitObserver(fn func(kind string, onBits int)) {
	g.observeBits = fn
}

// ComputeOne encodes a single molecule.
func (g *FingerprintGenerator) ComputeOne(mol *chem.Molecule) (*fingerprint.Fingerprint, error) {
	switch g.kind {
	case feature.FPSecfp:
		return fingerprint.CalculateSECFP(mol, g.params)
	case feature.FPEcfp:
		return fingerprint.CalculateECFP(mol, g.params.Radius, g.params.NBits, g.params.Isomeric)
	case feature.FPMorgan:
		return fingerprint.CalculateMorgan(mol, g.params.Radius, g.params.NBits, g.params.Isomeric)
	case feature.FPRDKit:
		return fingerprint.CalculateRDK(mol, g.params.NBits)
	case feature.FPMaccs:
		return fingerprint.CalculateMACCS(mol)
	default:
		return nil, errors.New(errors.CodeFingerprintNotImplemented,
			string(g.kind)+" fingerprint is not implemented")
	}
}

// Compute produces the fingerprint matrix: one row per molecule in input
// order, one column per bit, rows indexed by molecule name or canonical
// SMILES.
func (g *FingerprintGenerator) Compute(ctx context.Context, mols []*chem.Molecule) (*feature.Matrix, error) {
	if len(mols) == 0 {
		return nil, errors.New(errors.CodeMoleculeEmptySet, "no molecules to featurize")
	}

	start := time.Now()
	width := g.NumBits()
	columns := make([]string, width)
	for i := range columns {
		columns[i] = strconv.Itoa(i)
	}

	index := make([]string, len(mols))
	data := make([][]float64, len(mols))
	for i, mol := range mols {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "fingerprint batch cancelled")
		}
		fp, err := g.ComputeOne(mol)
		if err != nil {
			return nil, err
		}
		if g.observeBits != nil {
			g.observeBits(g.kind.String(), fp.NumOnBits)
		}
		index[i] = rowLabel(mol)
		data[i] = fp.AsRow()
	}

	m, err := feature.NewMatrix(index, columns, data)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	g.logger.Info("fingerprint batch computed",
		logging.String("kind", g.kind.String()),
		logging.Int("molecules", len(mols)),
		logging.Int("num_bits", width),
		logging.Duration("elapsed", elapsed))
	if g.observe != nil {
		g.observe(g.kind.String(), len(mols), elapsed)
	}
	return m, nil
}

// ComputeFingerprints encodes the batch without unpacking to a dense matrix,
// for vector-store export and similarity ranking.
func (g *FingerprintGenerator) ComputeFingerprints(ctx context.Context, mols []*chem.Molecule) ([]*fingerprint.Fingerprint, error) {
	if len(mols) == 0 {
		return nil, errors.New(errors.CodeMoleculeEmptySet, "no molecules to featurize")
	}
	out := make([]*fingerprint.Fingerprint, len(mols))
	for i, mol := range mols {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "fingerprint batch cancelled")
		}
		fp, err := g.ComputeOne(mol)
		if err != nil {
			return nil, err
		}
		if g.observeBits != nil {
			g.observeBits(g.kind.String(), fp.NumOnBits)
		}
		out[i] = fp
	}
	return out, nil
}
