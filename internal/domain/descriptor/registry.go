// Package descriptor implements the built-in molecular descriptor registry:
// 2D physicochemical and topological descriptors, fragment counts, and the
// geometry descriptors that require 3D coordinates.
//
// The registry is ordered.  Fragment-count descriptors (fr_*) always form
// the tail of the list so that the fragment-only backend is a plain suffix
// slice of the full registry.
package descriptor

import (
	"github.com/turtacn/DiverseMol/internal/domain/chem"
)

// Descriptor is a named numeric descriptor computed from a molecular graph.
type Descriptor struct {
	Name    string
	Compute func(*chem.Molecule) float64
}

// physchemRegistry returns the ordered 2D descriptor block.
func physchemRegistry() []Descriptor {
	return []Descriptor{
		{"MolWt", MolWt},
		{"HeavyAtomCount", HeavyAtomCount},
		{"HeavyAtomMolWt", HeavyAtomMolWt},
		{"NumValenceElectrons", NumValenceElectrons},
		{"NumHeteroatoms", NumHeteroatoms},
		{"NumHDonors", NumHDonors},
		{"NumHAcceptors", NumHAcceptors},
		{"NumRotatableBonds", NumRotatableBonds},
		{"RingCount", RingCount},
		{"NumAromaticRings", NumAromaticRings},
		{"NumSaturatedRings", NumSaturatedRings},
		{"FractionCSP3", FractionCSP3},
		{"TPSA", TPSA},
		{"MolLogP", MolLogP},
		{"MolMR", MolMR},
		{"Chi0", Chi0},
		{"Chi1", Chi1},
		{"BalabanJ", BalabanJ},
		{"BertzCT", BertzCT},
		{"HallKierAlpha", HallKierAlpha},
		{"Kappa1", Kappa1},
		{"Kappa2", Kappa2},
		{"Ipc", func(m *chem.Molecule) float64 { return Ipc(m, false) }},
	}
}

// FragmentRegistry returns the ordered fragment-count (fr_*) block.
func FragmentRegistry() []Descriptor {
	return []Descriptor{
		{"fr_Al_OH", FrAlOH},
		{"fr_Ar_OH", FrArOH},
		{"fr_COO", FrCOO},
		{"fr_C_O", FrCO},
		{"fr_NH0", FrNH0},
		{"fr_NH1", FrNH1},
		{"fr_NH2", FrNH2},
		{"fr_aldehyde", FrAldehyde},
		{"fr_alkyl_halide", FrAlkylHalide},
		{"fr_amide", FrAmide},
		{"fr_benzene", FrBenzene},
		{"fr_ester", FrEster},
		{"fr_ether", FrEther},
		{"fr_halogen", FrHalogen},
		{"fr_imidazole", FrImidazole},
		{"fr_ketone", FrKetone},
		{"fr_nitrile", FrNitrile},
		{"fr_nitro", FrNitro},
		{"fr_phenol", FrPhenol},
		{"fr_pyridine", FrPyridine},
		{"fr_sulfide", FrSulfide},
		{"fr_sulfonamide", FrSulfonamide},
	}
}

// RDKitRegistry returns the 2D registry.  When useFragment is false the
// fr_* tail is omitted; every other column is unchanged and keeps its order.
func RDKitRegistry(useFragment bool) []Descriptor {
	regs := physchemRegistry()
	if useFragment {
		regs = append(regs, FragmentRegistry()...)
	}
	return regs
}

// MordredRegistry returns the full registry: the 2D block, the fragment
// block, and the geometry descriptors that need 3D coordinates (NaN for
// molecules without them).
func MordredRegistry() []Descriptor {
	regs := physchemRegistry()
	regs = append(regs, FragmentRegistry()...)
	regs = append(regs, geometryRegistry()...)
	return regs
}

// Names returns the descriptor names of a registry in order.
func Names(regs []Descriptor) []string {
	names := make([]string, len(regs))
	for i, d := range regs {
		names[i] = d.Name
	}
	return names
}
