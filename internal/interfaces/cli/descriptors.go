package cli

import (
	"github.com/spf13/cobra"

	appfeature "github.com/turtacn/DiverseMol/internal/application/feature"
)

func newDescriptorsCommand() *cobra.Command {
	var (
		selector    string
		useFragment bool
		ipcAvg      bool
		input       string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "descriptors",
		Short: "Compute a molecular descriptor table",
		Long:  "Computes one descriptor row per input molecule with the selected\nbackend (mordred, padel, rdkit, rdkit_frag) and writes the table as CSV.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := getContext(cmd)
			cfg := cc.cfg

			if selector == "" {
				selector = cfg.Feature.DescriptorSet
			}
			if !cmd.Flags().Changed("use-fragment") {
				useFragment = cfg.Feature.UseFragment
			}
			if !cmd.Flags().Changed("ipc-avg") {
				ipcAvg = cfg.Feature.IpcAvg
			}

			mols, err := loadMolecules(cc.mtr, input)
			if err != nil {
				return err
			}

			opts := appfeature.DescriptorOptions{UseFragment: useFragment, IpcAvg: ipcAvg}
			m, err := cc.service.ComputeDescriptors(cmd.Context(), selector, opts, mols)
			if err != nil {
				return err
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
		},
	}

	cmd.Flags().StringVar(&selector, "set", "", "descriptor backend: mordred, padel, rdkit, rdkit_frag")
	cmd.Flags().BoolVar(&useFragment, "use-fragment", true, "include fragment-count (fr_*) columns in the rdkit backend")
	cmd.Flags().BoolVar(&ipcAvg, "ipc-avg", true, "use the averaged Ipc variant in the rdkit backend")
	cmd.Flags().StringVarP(&input, "input", "i", "-", "input file (.sdf, .smi, or - for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output CSV file (- for stdout)")
	return cmd
}
