package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/isoclass/isoclass/pkg/pipeline"
)

// newAutoCmd creates the auto command: run the engine and print the
// automorphism group summary.
func newAutoCmd() *cobra.Command {
	var flags engineFlags
	var showProgress bool

	cmd := &cobra.Command{
		Use:   "auto [file|-]",
		Short: "Compute automorphism group generators, orbits and group order",
		Args:  cobra.MaximumNArgs(1),
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

			opts := pipeline.Options{
				Exact:  flags.exact,
				Sparse: flags.sparse,
				Seed:   flags.seed,
			}

			run := func() (*pipeline.Result, error) {
				return pipeline.NewRunner(logger).Run(cmd.Context(), doc, opts)
			}
			var res *pipeline.Result
			if showProgress {
				res, err = runWithProgress(cmd.Context(), cmd.ErrOrStderr(), doc, opts, logger)
			} else {
				p := newProgress(logger)
				res, err = run()
				if err == nil {
					p.done(fmt.Sprintf("searched %d nodes", res.Search.Stats.Nodes))
				}
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styleTitle.Render("automorphism group"))
			fmt.Fprintln(out, num("vertices", doc.N))
			fmt.Fprintln(out, num("edges", len(doc.Edges)))
			fmt.Fprintln(out, num("orbits", res.Search.NumOrbits))
			if res.Search.ExactOrder != nil {
				fmt.Fprintln(out, num("group order", res.Search.ExactOrder.String()))
			} else {
				fmt.Fprintln(out, num("group order", groupSize(res)))
			}
			fmt.Fprintln(out, num("generators", len(res.Search.Generators)))
			for _, s := range pipeline.GeneratorStrings(res.Search.Generators) {
				fmt.Fprintf(out, "  %s\n", styleValue.Render(s))
			}
			fmt.Fprintln(out, kv("orbit classes", formatOrbits(res)))
			logger.Debug("stats",
				"nodes", res.Search.Stats.Nodes,
				"bad_leaves", res.Search.Stats.BadLeaves,
				"max_level", res.Search.Stats.MaxLevel,
				"canon_updates", res.Search.Stats.CanonUpdates)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&showProgress, "progress", false, "show a live progress view")
	return cmd
}

func groupSize(res *pipeline.Result) string {
	gs := res.Search.GroupSize
	if gs.Exponent == 0 {
		return fmt.Sprintf("%.0f", gs.Mantissa)
	}
	return fmt.Sprintf("%ge%d", gs.Mantissa, gs.Exponent)
}

func formatOrbits(res *pipeline.Result) string {
	classes := res.Search.Orbits.Classes()
	s := ""
	for i, c := range classes {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%v", c)
	}
	return s
}
