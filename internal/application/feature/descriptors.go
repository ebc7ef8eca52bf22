// Package feature provides the application-level feature generation
// services: descriptor tables and fingerprint matrices computed from batches
// of molecules, plus CSV export and similarity helpers on top of them.
package feature

import (
	"context"
	"time"

	"github.com/turtacn/DiverseMol/internal/domain/chem"
	"github.com/turtacn/DiverseMol/internal/domain/descriptor"
	"github.com/turtacn/DiverseMol/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiverseMol/pkg/errors"
	feature "github.com/turtacn/DiverseMol/pkg/types/feature"
)

// PadelRunner computes descriptor tables through the external PaDEL tool.
// Implemented by the padel infrastructure package.
type PadelRunner interface {
	Run(ctx context.Context, mols []*chem.Molecule) (*feature.Matrix, error)
}

// RowCache caches computed descriptor rows keyed by canonical SMILES.
// Implemented by the redis cache; nil disables caching.
type RowCache interface {
	GetOrCompute(ctx context.Context, backend, canonicalSMILES string,
		compute func() ([]string, []float64, error)) ([]string, []float64, error)
}

// DescriptorOptions tunes a DescriptorGenerator.
type DescriptorOptions struct {
	// UseFragment includes the fragment-count (fr_*) columns in the rdkit
	// backend.  Dropping them removes exactly those columns and keeps every
	// other column unchanged.
	UseFragment bool

	// IpcAvg computes the averaged information-content variant for the Ipc
	// column of the rdkit backend.
	IpcAvg bool

	// LegacyMolInput marks use of the removed single-molecule input form.
	// Construction fails with a deprecation error when set; the batch input
	// is the only supported form.
	LegacyMolInput bool
}

// DefaultDescriptorOptions mirrors the historical defaults.
func DefaultDescriptorOptions() DescriptorOptions {
	return DescriptorOptions{UseFragment: true, IpcAvg: true}
}

// DescriptorGenerator computes a descriptor table for a molecule batch with
// the selected backend.
type DescriptorGenerator struct {
	set    feature.DescriptorSet
	opts   DescriptorOptions
	padel  PadelRunner
	cache  RowCache
	logger logging.Logger

	// observe is invoked after each successful batch, for metrics wiring.
	observe func(backend string, rows int, elapsed time.Duration)
}

// NewDescriptorGenerator validates the selector (case-insensitive) and
// returns a generator.  The padel runner is only required for the padel
// backend; cache and logger may be nil.
func NewDescriptorGenerator(selector string, opts DescriptorOptions, padel PadelRunner, cache RowCache, logger logging.Logger) (*DescriptorGenerator, error) {
	if opts.LegacyMolInput {
		return nil, errors.Deprecated("the single-molecule input form was removed; pass a molecule batch instead")
	}
	set, err := feature.ParseDescriptorSet(selector)
	if err != nil {
		return nil, err
	}
	if set == feature.DescriptorsPadel && padel == nil {
		return nil, errors.InvalidParam("padel backend selected but no runner configured")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &DescriptorGenerator{
		set:    set,
		opts:   opts,
		padel:  padel,
		cache:  cache,
		logger: logger.Named("descriptors"),
	}, nil
}

// Set returns the normalised backend selector.
func (g *DescriptorGenerator) Set() feature.DescriptorSet { return g.set }

// SetObserver installs a per-batch metrics callback.
func (g *DescriptorGenerator) SetObserver(fn func(backend string, rows int, elapsed time.Duration)) {
	g.observe = fn
}

// Compute produces the descriptor table: one row per molecule in input
// order, indexed by the molecule name or, when unnamed, its canonical
// SMILES.
func (g *DescriptorGenerator) Compute(ctx context.Context, mols []*chem.Molecule) (*feature.Matrix, error) {
	if len(mols) == 0 {
		return nil, errors.New(errors.CodeMoleculeEmptySet, "no molecules to featurize")
	}

	start := time.Now()
	var m *feature.Matrix
	var err error
	switch g.set {
	case feature.DescriptorsMordred:
		m, err = g.computeRegistry(ctx, mols, descriptor.MordredRegistry())
	case feature.DescriptorsPadel:
		m, err = g.padel.Run(ctx, mols)
	case feature.DescriptorsRDKit:
		m, err = g.computeRegistry(ctx, mols, g.rdkitRegistry())
	case feature.DescriptorsRDKitFragment:
		m, err = g.computeRegistry(ctx, mols, descriptor.FragmentRegistry())
	default:
		err = errors.Newf(errors.CodeDescriptorSetUnknown, "unknown descriptor type %s", g.set)
	}
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	g.logger.Info("descriptor batch computed",
		logging.String("backend", g.set.String()),
		logging.Int("molecules", len(mols)),
		logging.Int("columns", m.NumColumns()),
		logging.Duration("elapsed", elapsed))
	if g.observe != nil {
		g.observe(g.set.String(), m.NumRows(), elapsed)
	}
	return m, nil
}

// rdkitRegistry applies the fragment and Ipc options to the 2D registry.
func (g *DescriptorGenerator) rdkitRegistry() []descriptor.Descriptor {
	regs := descriptor.RDKitRegistry(g.opts.UseFragment)
	if !g.opts.IpcAvg {
		return regs
	}
	out := make([]descriptor.Descriptor, len(regs))
	copy(out, regs)
	for i, d := range out {
		if d.Name == "Ipc" {
			out[i] = descriptor.Descriptor{
				Name:    "Ipc",
				Compute: func(m *chem.Molecule) float64 { return descriptor.Ipc(m, true) },
			}
		}
	}
	return out
}

func (g *DescriptorGenerator) computeRegistry(ctx context.Context, mols []*chem.Molecule, regs []descriptor.Descriptor) (*feature.Matrix, error) {
	columns := descriptor.Names(regs)
	index := make([]string, len(mols))
	data := make([][]float64, len(mols))

	for i, mol := range mols {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "descriptor batch cancelled")
		}
		index[i] = rowLabel(mol)

		compute := func() ([]string, []float64, error) {
			row := make([]float64, len(regs))
			for j, d := range regs {
				row[j] = d.Compute(mol)
			}
			return columns, row, nil
		}

		if g.cache != nil {
			cachedCols, row, err := g.cache.GetOrCompute(ctx, g.set.String(), mol.CanonicalSMILES(), compute)
			if err != nil {
				return nil, err
			}
			if len(cachedCols) != len(columns) {
				// Registry changed since the entry was written; recompute.
				_, row, err = compute()
				if err != nil {
					return nil, err
				}
			}
			data[i] = row
			continue
		}

		_, row, err := compute()
		if err != nil {
			return nil, err
		}
		data[i] = row
	}
	return feature.NewMatrix(index, columns, data)
}

// rowLabel is the molecule's explicit name when present, otherwise its
// canonical SMILES.
func rowLabel(m *chem.Molecule) string {
	if m.Name != "" {
		return m.Name
	}
	return m.CanonicalSMILES()
}
