package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/isoclass/isoclass/pkg/buildinfo"
)

// Execute runs the isoclass CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (auto, canon,
// iso, render, catalog, serve), configures logging based on the --verbose
// flag, and executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:   "isoclass",
		Short: "isoclass computes graph automorphism groups and canonical forms",
		Long: `isoclass is a CLI for the nauty-style graph canonicalization engine:
it computes automorphism group generators, vertex orbits, group orders,
and canonical labelings, and tests graphs for isomorphism.

Inputs are read as graph6, sparse6, digraph6, or a JSON document with
optional vertex colors and edge labels; use '-' or no argument for stdin.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newAutoCmd())
	root.AddCommand(newCanonCmd())
	root.AddCommand(newIsoCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newCatalogCmd())
	root.AddCommand(newServeCmd())

	return root.ExecuteContext(ctx)
}

// engineFlags are the options shared by every command that runs the engine.
type engineFlags struct {
	sparse bool
	exact  bool
	seed   int64
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.sparse, "sparse", false, "use the sparse engine")
	cmd.Flags().BoolVar(&f.exact, "exact", false, "compute the exact group order (Schreier-Sims)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Schreier-Sims random seed (0 = default)")
}

// apply merges config-file defaults into unset flags.
func (f *engineFlags) apply(cfg Config) {
	if !f.sparse {
		f.sparse = cfg.Engine.Sparse
	}
	if f.seed == 0 {
		f.seed = cfg.Engine.Seed
	}
}
