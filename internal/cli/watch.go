package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/evgconfig/internal/config"
	"github.com/hupe1980/evgconfig/internal/logging"
	"github.com/hupe1980/evgconfig/internal/watch"
)

type watchOptions struct {
	output   string
	debounce time.Duration
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch [source]",
		Short: "Regenerate configuration files when their sources change",
		Long: `Watch generates once and then regenerates whenever a source document
changes. File changes are debounced to avoid rapid re-runs, and outputs
whose contents would not change are left alone.

Without a source argument every target declared in the config file is
watched.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeSourceFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file path")
	f.DurationVar(&opts.debounce, "debounce", 500*time.Millisecond, "debounce interval for file changes")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, args []string, opts *watchOptions) error {
	targets, err := resolveTargets(ctx, args, opts.output)
	if err != nil {
		return err
	}

	r := newRenderer(ctx)

	runFn := func(fnCtx context.Context) (*watch.RunResult, error) {
		result := &watch.RunResult{Unchanged: true}

		for _, t := range targets {
			res, err := generateTarget(fnCtx, r, t, true)
			if err != nil {
				return nil, err
			}

			if !res.Unchanged {
				result.Unchanged = false
				result.Outputs = append(result.Outputs, res.Output)
				result.Bytes += res.Bytes
			}
		}

		return result, nil
	}

	watchOpts := watch.Options{
		Files:    sources(targets),
		Debounce: opts.debounce,
		Logger:   logging.FromContext(ctx),
		Out:      cmd.ErrOrStderr(),
	}

	return watch.Run(ctx, watchOpts, runFn)
}

func sources(targets []config.Target) []string {
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, t.Source)
	}

	return out
}
