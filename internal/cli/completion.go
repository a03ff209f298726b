package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/evgconfig/internal/config"
	"github.com/hupe1980/evgconfig/internal/source"
)

// Shell completion scripts come from cobra's default "completion" command.
// The functions here teach it which files and flag values evgconfig
// accepts.

// completeSourceFiles offers files with an extension a source loader is
// registered for. Commands take at most one source.
func completeSourceFiles(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	return sourceExtensions(), cobra.ShellCompDirectiveFilterFileExt
}

// sourceExtensions lists the registered extensions without their dot.
func sourceExtensions() []string {
	exts := source.DefaultRegistry().Extensions()

	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		out = append(out, strings.TrimPrefix(ext, "."))
	}

	return out
}

// registerGlobalCompletions wires value completion for the persistent flags.
func registerGlobalCompletions(root *cobra.Command) {
	_ = root.RegisterFlagCompletionFunc("log-level", cobra.FixedCompletions(
		[]string{config.LogLevelDebug, config.LogLevelInfo, config.LogLevelWarn, config.LogLevelError},
		cobra.ShellCompDirectiveNoFileComp,
	))

	_ = root.RegisterFlagCompletionFunc("log-format", cobra.FixedCompletions(
		[]string{config.LogFormatText, config.LogFormatJSON},
		cobra.ShellCompDirectiveNoFileComp,
	))

	_ = root.RegisterFlagCompletionFunc("config", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
	})
}
