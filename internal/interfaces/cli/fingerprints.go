package cli

import (
	"github.com/spf13/cobra"

	feature "github.com/turtacn/DiverseMol/pkg/types/feature"
)

// fingerprintFlags registers the shared encoder flags and returns a loader
// that resolves them against the config defaults.
func fingerprintFlags(cmd *cobra.Command, selector *string) func(cmd *cobra.Command) feature.FingerprintParams {
	p := feature.DefaultFingerprintParams()
	cmd.Flags().StringVar(selector, "kind", "", "fingerprint kind: SECFP, ECFP, Morgan, RDKFingerprint, MaCCSKeys")
	cmd.Flags().IntVar(&p.NBits, "n-bits", p.NBits, "fingerprint width in bits (ignored by MaCCSKeys)")
	cmd.Flags().IntVar(&p.Radius, "radius", p.Radius, "maximum circular substructure radius")
	cmd.Flags().IntVar(&p.MinRadius, "min-radius", p.MinRadius, "minimum SECFP shingle radius")
	cmd.Flags().Int64Var(&p.RandomSeed, "seed", p.RandomSeed, "SECFP shingle hash seed")
	cmd.Flags().BoolVar(&p.Rings, "rings", p.Rings, "include SSSR ring shingles in SECFP")
	cmd.Flags().BoolVar(&p.Isomeric, "isomeric", p.Isomeric, "chirality-aware invariants and shingles")
	cmd.Flags().BoolVar(&p.Kekulize, "kekulize", p.Kekulize, "kekulised SECFP shingles")

	return func(cmd *cobra.Command) feature.FingerprintParams {
		cc := getContext(cmd)
		if *selector == "" {
			*selector = cc.cfg.Feature.Fingerprint
		}
		if !cmd.Flags().Changed("n-bits") && cc.cfg.Feature.NBits != 0 {
			p.NBits = cc.cfg.Feature.NBits
		}
		if !cmd.Flags().Changed("radius") && cc.cfg.Feature.Radius != 0 {
			p.Radius = cc.cfg.Feature.Radius
		}
		if !cmd.Flags().Changed("min-radius") && cc.cfg.Feature.MinRadius != 0 {
			p.MinRadius = cc.cfg.Feature.MinRadius
		}
		if !cmd.Flags().Changed("seed") && cc.cfg.Feature.RandomSeed != 0 {
			p.RandomSeed = cc.cfg.Feature.RandomSeed
		}
		if !cmd.Flags().Changed("rings") {
			p.Rings = cc.cfg.Feature.Rings
		}
		if !cmd.Flags().Changed("isomeric") {
			p.Isomeric = cc.cfg.Feature.Isomeric
		}
		if !cmd.Flags().Changed("kekulize") {
			p.Kekulize = cc.cfg.Feature.Kekulize
		}
		return p
	}
}

func newFingerprintsCommand() *cobra.Command {
	var (
		selector string
		input    string
		output   string
		export   bool
	)

	cmd := &cobra.Command{
		Use:   "fingerprints",
		Short: "Compute a fingerprint bit matrix",
		Long:  "Computes one fixed-width fingerprint row per input molecule and writes\nthe bit matrix as CSV; --export also inserts the packed vectors into the\nconfigured Milvus collection.",
	}
	resolveParams := fingerprintFlags(cmd, &selector)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cc := getContext(cmd)
		params := resolveParams(cmd)

		mols, err := loadMolecules(cc.mtr, input)
		if err != nil {
			return err
		}

		m, err := cc.service.ComputeFingerprints(cmd.Context(), selector, params, mols)
		if err != nil {
			return err
		}

		if export {
			if err := cc.service.ExportFingerprints(cmd.Context(), selector, params, mols); err != nil {
				return err
			}
		}

		w, closeFn, err := openOutput(output)
		if err != nil {
			return err
		}
		if err := cc.service.WriteCSV(w, m); err != nil {
			closeFn()
			return err
		}
		return closeFn()
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "input file (.sdf, .smi, or - for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output CSV file (- for stdout)")
	cmd.Flags().BoolVar(&export, "export", false, "also insert fingerprints into the Milvus collection")
	return cmd
}
