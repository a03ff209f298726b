package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/hupe1980/evgconfig/internal/config"
	"github.com/hupe1980/evgconfig/internal/logging"
	"github.com/hupe1980/evgconfig/internal/output"
	"github.com/hupe1980/evgconfig/internal/render"
	"github.com/hupe1980/evgconfig/internal/source"
)

// targetResult describes one generated file.
type targetResult struct {
	Output    string
	Bytes     int
	Unchanged bool
}

// newRenderer builds a renderer from the loaded configuration.
func newRenderer(ctx context.Context) *render.Renderer {
	cfg := config.FromContext(ctx)

	return render.New(render.WithIndent(cfg.Indent))
}

// resolveTargets returns the single target named on the command line, or
// every target declared in the config file when no source was given.
func resolveTargets(ctx context.Context, args []string, out string) ([]config.Target, error) {
	if len(args) == 1 {
		if out == "" {
			return nil, &ExitError{Code: 2, Err: errors.New("--output (-o) is required when a source is given")}
		}

		return []config.Target{{Source: args[0], Output: out}}, nil
	}

	if out != "" {
		return nil, &ExitError{Code: 2, Err: errors.New("--output (-o) requires a source argument")}
	}

	cfg := config.FromContext(ctx)
	if len(cfg.Targets) == 0 {
		return nil, &ExitError{Code: 2, Err: errors.New("no source given and no targets configured")}
	}

	return cfg.Targets, nil
}

// generateTarget loads t.Source and writes the generated file to t.Output.
// With skipUnchanged, an output that already holds the generated bytes is
// not rewritten.
func generateTarget(ctx context.Context, r *render.Renderer, t config.Target, skipUnchanged bool) (*targetResult, error) {
	ctx = logging.WithAttrs(ctx, slog.String("source", t.Source))
	logger := logging.FromContext(ctx)

	tree, err := source.Load(t.Source)
	if err != nil {
		return nil, &ExitError{Code: 1, Err: err}
	}

	doc, err := output.Document(tree, r)
	if err != nil {
		return nil, &ExitError{Code: 1, Err: fmt.Errorf("rendering %s: %w", t.Source, err)}
	}

	res := &targetResult{Output: t.Output, Bytes: len(doc)}

	if skipUnchanged {
		existing, readErr := os.ReadFile(t.Output)
		if readErr == nil && bytes.Equal(existing, doc) {
			res.Unchanged = true
			return res, nil
		}

		if readErr != nil && !errors.Is(readErr, fs.ErrNotExist) {
			logger.Debug("could not read previous output", slog.String("path", t.Output), slog.String("error", readErr.Error()))
		}
	}

	w := output.NewFileWriter(t.Output, output.WithLogger(logger))
	if err := w.Write(doc); err != nil {
		return nil, &ExitError{Code: 1, Err: err}
	}

	logger.Info("generated configuration",
		slog.String("output", t.Output),
		slog.Int("bytes", len(doc)),
	)

	return res, nil
}
