package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/isoclass/isoclass/pkg/pipeline"
)

// newCanonCmd creates the canon command: print the canonical form.
func newCanonCmd() *cobra.Command {
	var flags engineFlags

	cmd := &cobra.Command{
		Use:   "canon [file|-]",
		Short: "Print the canonical graph6/digraph6 form of a graph",
		Long: `Canon relabels the graph with its canonical labeling and prints the
resulting graph6 (undirected) or digraph6 (directed) string. Two graphs
are isomorphic exactly when their canonical strings are identical.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cfg)

			doc, err := readGraph(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			res, err := pipeline.NewRunner(logger).Run(cmd.Context(), doc, pipeline.Options{
				Canonical: true,
				Sparse:    flags.sparse,
				Seed:      flags.seed,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(res.Canonical))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
