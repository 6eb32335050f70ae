package cli

import (
	"bufio"
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/isoclass/isoclass/pkg/catalog"
	"github.com/isoclass/isoclass/pkg/pipeline"
)

// newCatalogCmd groups the catalog subcommands.
func newCatalogCmd() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Maintain a catalog of isomorphism classes",
		Long: `The catalog stores one record per isomorphism class, keyed by the
hash of the canonical form. Feeding a stream of graphs through
'catalog add' deduplicates it into classes.`,
	}
	cmd.PersistentFlags().StringVar(&backend, "backend", "", "store backend: memory, file, redis, mongo (default from config)")

	cmd.AddCommand(newCatalogAddCmd(&backend))
	cmd.AddCommand(newCatalogLookupCmd(&backend))
	cmd.AddCommand(newCatalogCountCmd(&backend))
	return cmd
}

// openStore opens the configured catalog backend, defaulting to the file
// store so the catalog persists across CLI runs.
func openStore(cmd *cobra.Command, backendOverride string) (catalog.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	sc := cfg.storeConfig(backendOverride)
	if sc.Backend == "" || sc.Backend == "null" {
		sc.Backend = "file"
		sc.Dir = defaultCatalogDir()
	}
	return catalog.Open(cmd.Context(), sc)
}

// newCatalogAddCmd adds graphs to the catalog, one per input line.
func newCatalogAddCmd(backend *string) *cobra.Command {
	var flags engineFlags

	cmd := &cobra.Command{
		Use:   "add [file|-]",
		Short: "Add graphs (one per line) to the catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cfg)

			store, err := openStore(cmd, *backend)
			if err != nil {
				return err
			}
			defer store.Close()

			data, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(logger)
			opts := pipeline.Options{
				Exact:  flags.exact,
				Sparse: flags.sparse,
				Seed:   flags.seed,
				Store:  store,
			}

			added, lines := 0, 0
			scanner := bufio.NewScanner(bytes.NewReader(data))
			scanner.Buffer(make([]byte, 0, 1<<20), 1<<24)
			for scanner.Scan() {
				line := scanner.Bytes()
				if len(line) == 0 {
					continue
				}
				lines++
				res, err := runner.Execute(cmd.Context(), line, opts)
				if err != nil {
					return fmt.Errorf("line %d: %w", lines, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
					styleDim.Render(res.Record.Key[:12]), res.Record.Canonical)
				added++
			}
			if err := scanner.Err(); err != nil {
				return err
			}

			total, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("catalog updated", "graphs", added, "classes", total)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// newCatalogLookupCmd looks up the class record of one graph.
func newCatalogLookupCmd(backend *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup [file|-]",
		Short: "Look up the isomorphism class of a graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			store, err := openStore(cmd, *backend)
			if err != nil {
				return err
			}
			defer store.Close()

			doc, err := readGraph(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			res, err := pipeline.NewRunner(logger).Run(cmd.Context(), doc, pipeline.Options{Canonical: true})
			if err != nil {
				return err
			}

			rec, err := store.Get(cmd.Context(), catalog.Key(res.Canonical))
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), styleDim.Render("not in catalog"))
				return nil
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, kv("id", rec.ID))
			fmt.Fprintln(out, kv("canonical", rec.Canonical))
			fmt.Fprintln(out, num("vertices", rec.N))
			fmt.Fprintln(out, num("edges", rec.Edges))
			if rec.GroupOrder != "" {
				fmt.Fprintln(out, num("group order", rec.GroupOrder))
			}
			fmt.Fprintln(out, kv("added", rec.AddedAt.Format("2006-01-02 15:04:05")))
			return nil
		},
	}
	return cmd
}

// newCatalogCountCmd prints the number of classes in the catalog.
func newCatalogCountCmd(backend *string) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of isomorphism classes stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd, *backend)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}
