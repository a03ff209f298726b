package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/evgconfig/internal/output"
	"github.com/hupe1980/evgconfig/internal/source"
)

func newRenderCommand() *cobra.Command {
	var format string

	registry := output.DefaultRegistry()

	cmd := &cobra.Command{
		Use:   "render <source>",
		Short: "Render a source document to stdout",
		Long: `Render loads a source document and prints the configuration it would
generate without touching any file. The json format is meant for
inspection; only yaml output carries the generated-file banner.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSourceFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := registry.Encoder(strings.ToLower(format))
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			tree, err := source.Load(args[0])
			if err != nil {
				return &ExitError{Code: 1, Err: err}
			}

			data, err := enc(newRenderer(cmd.Context()), tree)
			if err != nil {
				return &ExitError{Code: 1, Err: err}
			}

			return output.NewStdoutWriter(cmd.OutOrStdout()).Write(data)
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "output format: "+registry.AvailableFormats())
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(registry.Formats(), cobra.ShellCompDirectiveNoFileComp))

	return cmd
}
