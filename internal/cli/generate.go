package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGenerateCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "generate [source]",
		Short: "Generate an Evergreen configuration file",
		Long: `Generate renders a source document (.yaml, .yml, .json or .hcl) into an
Evergreen configuration file. The file is prefixed with a DO NOT EDIT
banner and replaced if it already exists.

Without a source argument every target declared in the config file is
generated:

  targets:
    - source: evergreen/config.hcl
      output: .evergreen/generated.yml`,
		Example: `  evgconfig generate evergreen/config.hcl -o .evergreen/generated.yml
  evgconfig generate`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeSourceFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			targets, err := resolveTargets(ctx, args, out)
			if err != nil {
				return err
			}

			r := newRenderer(ctx)

			for _, t := range targets {
				res, err := generateTarget(ctx, r, t, false)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", res.Output, res.Bytes)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "output file path")

	return cmd
}
