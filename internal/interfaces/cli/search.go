package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/DiverseMol/internal/domain/chem"
	"github.com/turtacn/DiverseMol/internal/domain/fingerprint"
	feature "github.com/turtacn/DiverseMol/pkg/types/feature"
)

func newSearchCommand() *cobra.Command {
	var (
		selector      string
		query         string
		topK          int
		input         string
		metric        string
		resolveParams func(*cobra.Command) feature.FingerprintParams
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Rank molecules by fingerprint similarity to a query",
		Long:  "Encodes the query SMILES and ranks either the molecules of --input\n(in-process) or the configured Milvus collection against it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := getContext(cmd)
			params := resolveParams(cmd)

			queryMol, err := chem.ParseSMILES(query)
			if err != nil {
				return err
			}

			if input != "" {
				mols, err := loadMolecules(cc.mtr, input)
				if err != nil {
					return err
				}
				m, err := fingerprint.ParseSimilarityMetric(metric)
				if err != nil {
					return err
				}
				results, err := cc.service.RankLocal(cmd.Context(), selector, params, queryMol, mols, m)
				if err != nil {
					return err
				}
				if topK < len(results) {
					results = results[:topK]
				}
				for _, r := range results {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.4f\n", r.Name, r.Score)
				}
				return nil
			}

			hits, err := cc.service.SearchSimilar(cmd.Context(), selector, params, queryMol, topK)
			if err != nil {
				return err
			}
			for _, h := range hits {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%.4f\n", h.Name, h.SMILES, h.Score)
			}
			return nil
		},
	}

	resolveParams = fingerprintFlags(cmd, &selector)
	cmd.Flags().StringVarP(&query, "query", "q", "", "query SMILES (required)")
	cmd.Flags().IntVarP(&topK, "top-k", "k", 10, "number of results")
	cmd.Flags().StringVarP(&input, "input", "i", "", "rank this file in process instead of querying Milvus")
	cmd.Flags().StringVar(&metric, "metric", "tanimoto", "similarity metric for in-process ranking: tanimoto, dice, cosine")
	cmd.MarkFlagRequired("query")
	return cmd
}
