package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/isoclass/isoclass/pkg/gcode"
	"github.com/isoclass/isoclass/pkg/pipeline"
)

// newIsoCmd creates the iso command: compare two graphs by canonical form.
// Exit status 0 means isomorphic, 1 means not.
func newIsoCmd() *cobra.Command {
	var flags engineFlags

	cmd := &cobra.Command{
		Use:   "iso <fileA> <fileB>",
		Short: "Test two graphs for isomorphism",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cfg)

			canon := func(path string) ([]byte, gcode.Doc, error) {
				data, err := os.ReadFile(path)
				if err != nil {
					return nil, gcode.Doc{}, fmt.Errorf("read %s: %w", path, err)
				}
				doc, err := gcode.DecodeAuto(data)
				if err != nil {
					return nil, gcode.Doc{}, err
				}
				res, err := pipeline.NewRunner(logger).Run(cmd.Context(), doc, pipeline.Options{
					Canonical: true,
					Sparse:    flags.sparse,
					Seed:      flags.seed,
				})
				if err != nil {
					return nil, gcode.Doc{}, err
				}
				return res.Canonical, doc, nil
			}

			ca, da, err := canon(args[0])
			if err != nil {
				return err
			}
			cb, db, err := canon(args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if da.Directed != db.Directed || !bytes.Equal(ca, cb) {
				fmt.Fprintln(out, styleError.Render("not isomorphic"))
				os.Exit(1)
			}
			fmt.Fprintln(out, styleSuccess.Render("isomorphic"))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
